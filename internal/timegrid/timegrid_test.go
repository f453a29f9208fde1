package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/section-scheduler/internal/models"
)

func TestDaysCanonicalOrder(t *testing.T) {
	days := Days([]models.Day{models.DayFri, models.DayMon, models.DayWed})
	assert.Equal(t, []models.Day{models.DayMon, models.DayWed, models.DayFri}, days)
}

func TestDaysIgnoresUnknownAndDuplicates(t *testing.T) {
	days := Days([]models.Day{models.DayTue, models.DayTue, "XYZ"})
	assert.Equal(t, []models.Day{models.DayTue}, days)
}

func TestSequenceInteractiveGrid(t *testing.T) {
	seq := NewSequence(7, 21, 30)
	times := seq.Collect()

	require.Len(t, times, 28)
	assert.Equal(t, "07:00", times[0])
	assert.Equal(t, "20:30", times[len(times)-1])
	for i := 1; i < len(times); i++ {
		assert.Less(t, times[i-1], times[i])
	}
}

func TestSequenceSummaryGrid(t *testing.T) {
	seq := NewSequence(7, 21, 60)
	times := seq.Collect()

	require.Len(t, times, 14)
	assert.Equal(t, "07:00", times[0])
	assert.Equal(t, "20:00", times[len(times)-1])
}

func TestSequenceRestartable(t *testing.T) {
	seq := NewSequence(7, 9, 60)

	first, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, "07:00", first)

	seq.Reset()
	again, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, "07:00", again)

	assert.Equal(t, seq.Collect(), seq.Collect())
}

func TestSequenceExhausts(t *testing.T) {
	seq := NewSequence(7, 8, 30)
	_, ok := seq.Next()
	require.True(t, ok)
	_, ok = seq.Next()
	require.True(t, ok)
	_, ok = seq.Next()
	assert.False(t, ok)
}

func TestDurationInBuckets(t *testing.T) {
	assert.Equal(t, 2, DurationInBuckets("09:00", "11:00", 60))
	assert.Equal(t, 3, DurationInBuckets("10:00", "11:30", 30))
	assert.Equal(t, 1, DurationInBuckets("09:00", "09:30", 60))
}

func TestDurationInBucketsNeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, DurationInBuckets("09:00", "09:00", 30))
	assert.Equal(t, 1, DurationInBuckets("09:00", "08:00", 30))
	assert.Equal(t, 1, DurationInBuckets("09:00", "garbage", 30))
}

func TestBucketIndex(t *testing.T) {
	assert.Equal(t, 0, BucketIndex("07:00", 7, 30))
	assert.Equal(t, 1, BucketIndex("07:30", 7, 30))
	assert.Equal(t, 3, BucketIndex("10:00", 7, 60))
	assert.Equal(t, -1, BucketIndex("05:00", 7, 30))
	assert.Equal(t, -1, BucketIndex("bogus", 7, 30))
}

func TestFormat12Hour(t *testing.T) {
	assert.Equal(t, "7 AM", Format12Hour("07:00"))
	assert.Equal(t, "7:30 AM", Format12Hour("07:30"))
	assert.Equal(t, "12 PM", Format12Hour("12:00"))
	assert.Equal(t, "1:30 PM", Format12Hour("13:30"))
	assert.Equal(t, "8:30 PM", Format12Hour("20:30"))
	assert.Equal(t, "12 AM", Format12Hour("00:00"))
	assert.Equal(t, "", Format12Hour(""))
}

func TestMinutes(t *testing.T) {
	mins, err := Minutes("09:45")
	require.NoError(t, err)
	assert.Equal(t, 585, mins)

	_, err = Minutes("25:00")
	require.Error(t, err)
	_, err = Minutes("0900")
	require.Error(t, err)
}
