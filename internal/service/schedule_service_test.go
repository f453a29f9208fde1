package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/occupancy"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
)

func newScheduleService(backend *fakeRegistrar) *ScheduleService {
	return NewScheduleService(backend, occupancy.NewResolver(nil), testGrid(), nil, zap.NewNop())
}

func linkedSubjectWithSlot() models.SubjectRequirement {
	subject := unlinkedSubject()
	ss := "ss-1"
	subject.SectionSubjectID = &ss
	return subject
}

func TestLoadBuildsViewWithDenormalisedSlots(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		Day:              models.DayMon,
		StartTime:        "09:00",
		EndTime:          "10:30",
	}
	svc := newScheduleService(backend)

	view, err := svc.Load(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "sec-1", view.SectionID)
	assert.Equal(t, "sem-1", view.Semester.ID)
	require.Len(t, view.Slots, 1)
	// Subject and professor labels come from the owning requirement.
	assert.Equal(t, "IT101", view.Slots[0].SubjectCode)
	assert.Equal(t, "subj-1", view.Slots[0].SubjectID)
	require.NotNil(t, view.Slots[0].ProfessorID)
	assert.Equal(t, "prof-1", *view.Slots[0].ProfessorID)

	assert.Empty(t, view.Pending)
	require.Len(t, view.Scheduled, 1)

	// 30-minute interactive grid: the slot spans three buckets on MON.
	cells := view.Plan.Columns[models.DayMon]
	var start *models.Cell
	for i := range cells {
		if cells[i].Kind == models.CellSpanStart {
			start = &cells[i]
		}
	}
	require.NotNil(t, start)
	assert.Equal(t, 3, start.RowSpan)
}

func TestSummaryUsesHourlyGranularity(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		Day:              models.DayMon,
		StartTime:        "09:00",
		EndTime:          "11:00",
	}
	svc := newScheduleService(backend)

	view, err := svc.Summary(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Len(t, view.Plan.Times, 14)
	assert.Equal(t, "07:00", view.Plan.Times[0])
}

func TestLoadFailureLeavesPreviousStateIntact(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		Day:              models.DayMon,
		StartTime:        "09:00",
		EndTime:          "10:30",
	}
	svc := newScheduleService(backend)

	_, err := svc.Load(context.Background(), "sec-1")
	require.NoError(t, err)

	backend.scheduleErr = appErrors.ErrBackendUnreachable
	_, err = svc.Load(context.Background(), "sec-1")
	require.Error(t, err)
	assert.Equal(t, "BACKEND_UNREACHABLE", appErrors.FromError(err).Code)

	// The earlier state still serves.
	view, err := svc.View("sec-1")
	require.NoError(t, err)
	assert.Len(t, view.Slots, 1)
}

func TestRemoveSlotReturnsSubjectToPending(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		Day:              models.DayFri,
		StartTime:        "13:00",
		EndTime:          "14:30",
	}
	svc := newScheduleService(backend)

	view, err := svc.Load(context.Background(), "sec-1")
	require.NoError(t, err)
	require.Len(t, view.Scheduled, 1)

	view, err = svc.RemoveSlot(context.Background(), "sec-1", "slot-1")
	require.NoError(t, err)
	assert.Empty(t, view.Slots)
	assert.Empty(t, view.Scheduled)
	require.Len(t, view.Pending, 1)
	assert.Equal(t, "IT101", view.Pending[0].SubjectCode)
}

func TestRemoveSlotUnknownID(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	svc := newScheduleService(backend)

	_, err := svc.Load(context.Background(), "sec-1")
	require.NoError(t, err)

	_, err = svc.RemoveSlot(context.Background(), "sec-1", "slot-nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	assert.Equal(t, 0, backend.callCount("delete_slot"))
}

func TestRemoveSlotServesOptimisticStateWhenReloadFails(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		Day:              models.DayFri,
		StartTime:        "13:00",
		EndTime:          "14:30",
	}
	svc := newScheduleService(backend)

	_, err := svc.Load(context.Background(), "sec-1")
	require.NoError(t, err)

	backend.scheduleErr = appErrors.ErrBackendUnreachable
	view, err := svc.RemoveSlot(context.Background(), "sec-1", "slot-1")
	require.NoError(t, err)
	assert.Empty(t, view.Slots)
}

func TestViewBeforeLoad(t *testing.T) {
	svc := newScheduleService(newFakeRegistrar())
	_, err := svc.View("sec-unknown")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestEchoSlotBridgesReload(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	svc := newScheduleService(backend)

	_, err := svc.Load(context.Background(), "sec-1")
	require.NoError(t, err)

	svc.EchoSlot("sec-1", models.Slot{
		ID:               "slot-9",
		SectionSubjectID: "ss-1",
		SubjectID:        "subj-1",
		SubjectCode:      "IT101",
		Day:              models.DayTue,
		StartTime:        "10:00",
		EndTime:          "11:30",
	})

	view, err := svc.View("sec-1")
	require.NoError(t, err)
	require.Len(t, view.Slots, 1)
	assert.Equal(t, "slot-9", view.Slots[0].ID)
	require.Len(t, view.Scheduled, 1)
}
