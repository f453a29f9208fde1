package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
)

func TestTimetablePDFExport(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{linkedSubjectWithSlot()}
	room := "R-204"
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		Day:              models.DayMon,
		StartTime:        "09:00",
		EndTime:          "11:00",
		Room:             &room,
	}
	schedules := newScheduleService(backend)
	svc := NewExportService(schedules, nil, zap.NewNop())

	payload, filename, err := svc.TimetablePDF(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "schedule-sec-1.pdf", filename)
	require.NotEmpty(t, payload)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestTimetablePDFUnknownSectionStillExports(t *testing.T) {
	// A section with no subjects renders an empty grid rather than failing.
	backend := newFakeRegistrar()
	schedules := newScheduleService(backend)
	svc := NewExportService(schedules, nil, zap.NewNop())

	payload, _, err := svc.TimetablePDF(context.Background(), "sec-empty")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(payload[:4]))
}
