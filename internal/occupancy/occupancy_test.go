package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/timegrid"
)

var testDays = []models.Day{models.DayMon, models.DayTue, models.DayWed}

func hourlyTimes(t *testing.T) []string {
	t.Helper()
	return timegrid.NewSequence(7, 21, 60).Collect()
}

func TestResolveMultiHourMerge(t *testing.T) {
	times := hourlyTimes(t)
	slots := []models.Slot{
		{ID: "s1", SubjectCode: "IT101", Day: models.DayMon, StartTime: "09:00", EndTime: "11:00"},
	}

	plan := NewResolver(zap.NewNop()).Resolve(slots, testDays, times, 7, 60)

	column := plan.Columns[models.DayMon]
	start := column[2] // 09:00
	require.Equal(t, models.CellSpanStart, start.Kind)
	assert.Equal(t, 2, start.RowSpan)
	require.NotNil(t, start.Slot)
	assert.Equal(t, "s1", start.Slot.ID)

	assert.Equal(t, models.CellContinuation, column[3].Kind) // 10:00 merged
	assert.Nil(t, column[3].Slot)
	assert.Equal(t, models.CellEmpty, column[4].Kind)
}

func TestResolveIdempotent(t *testing.T) {
	times := hourlyTimes(t)
	slots := []models.Slot{
		{ID: "s1", Day: models.DayMon, StartTime: "08:00", EndTime: "10:00"},
		{ID: "s2", Day: models.DayWed, StartTime: "13:00", EndTime: "14:30"},
	}
	resolver := NewResolver(zap.NewNop())

	first := resolver.Resolve(slots, testDays, times, 7, 60)
	second := resolver.Resolve(slots, testDays, times, 7, 60)
	assert.Equal(t, first, second)
}

func TestResolveOutsideWindowExcluded(t *testing.T) {
	times := hourlyTimes(t)
	slots := []models.Slot{
		{ID: "early", Day: models.DayMon, StartTime: "05:00", EndTime: "06:00"},
		{ID: "late", Day: models.DayMon, StartTime: "22:00", EndTime: "23:00"},
	}

	plan := NewResolver(zap.NewNop()).Resolve(slots, testDays, times, 7, 60)

	for _, cell := range plan.Columns[models.DayMon] {
		assert.Equal(t, models.CellEmpty, cell.Kind)
	}
}

func TestResolveInvisibleDayExcluded(t *testing.T) {
	times := hourlyTimes(t)
	slots := []models.Slot{
		{ID: "sun", Day: models.DaySun, StartTime: "09:00", EndTime: "10:00"},
	}

	plan := NewResolver(zap.NewNop()).Resolve(slots, testDays, times, 7, 60)
	_, ok := plan.Columns[models.DaySun]
	assert.False(t, ok)
}

func TestResolveStartingBucketTieFirstSeenWins(t *testing.T) {
	times := hourlyTimes(t)
	slots := []models.Slot{
		{ID: "first", Day: models.DayTue, StartTime: "10:00", EndTime: "11:00"},
		{ID: "second", Day: models.DayTue, StartTime: "10:00", EndTime: "12:00"},
	}

	plan := NewResolver(zap.NewNop()).Resolve(slots, testDays, times, 7, 60)

	column := plan.Columns[models.DayTue]
	require.Equal(t, models.CellSpanStart, column[3].Kind)
	assert.Equal(t, "first", column[3].Slot.ID)
	assert.Equal(t, models.CellEmpty, column[4].Kind)
}

func TestResolveSpanClampedToWindow(t *testing.T) {
	times := hourlyTimes(t)
	slots := []models.Slot{
		{ID: "s1", Day: models.DayMon, StartTime: "20:00", EndTime: "23:00"},
	}

	plan := NewResolver(zap.NewNop()).Resolve(slots, testDays, times, 7, 60)

	column := plan.Columns[models.DayMon]
	last := column[len(column)-1]
	require.Equal(t, models.CellSpanStart, last.Kind)
	assert.Equal(t, 1, last.RowSpan)
}

func TestResolveHalfHourGrid(t *testing.T) {
	times := timegrid.NewSequence(7, 21, 30).Collect()
	slots := []models.Slot{
		{ID: "s1", Day: models.DayTue, StartTime: "10:00", EndTime: "11:30"},
	}

	plan := NewResolver(zap.NewNop()).Resolve(slots, testDays, times, 7, 30)

	column := plan.Columns[models.DayTue]
	start := column[6] // 10:00 on a 30-minute grid
	require.Equal(t, models.CellSpanStart, start.Kind)
	assert.Equal(t, 3, start.RowSpan)
	assert.Equal(t, models.CellContinuation, column[7].Kind)
	assert.Equal(t, models.CellContinuation, column[8].Kind)
	assert.Equal(t, models.CellEmpty, column[9].Kind)
}
