package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/occupancy"
	"github.com/campuskit/section-scheduler/pkg/config"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
)

type memoryAudit struct {
	entries []models.AuditEntry
}

func (m *memoryAudit) Record(ctx context.Context, entry *models.AuditEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

type memoryInvalidator struct {
	professors []string
}

func (m *memoryInvalidator) Invalidate(ctx context.Context, professorID string) {
	m.professors = append(m.professors, professorID)
}

func testGrid() config.GridConfig {
	return config.GridConfig{
		StartHour:             7,
		EndHour:               21,
		InteractiveGranMins:   30,
		SummaryGranMins:       60,
		DefaultSessionMinutes: 90,
		Days:                  []string{"MON", "TUE", "WED", "THU", "FRI", "SAT"},
	}
}

type placementHarness struct {
	backend    *fakeRegistrar
	placements *PlacementService
	schedules  *ScheduleService
	audit      *memoryAudit
	overlay    *memoryInvalidator
}

func newPlacementHarness(t *testing.T, backend *fakeRegistrar) *placementHarness {
	t.Helper()
	grid := testGrid()
	schedules := NewScheduleService(backend, occupancy.NewResolver(nil), grid, nil, zap.NewNop())
	conflicts := NewConflictService(backend, nil, zap.NewNop())
	audit := &memoryAudit{}
	overlay := &memoryInvalidator{}
	placements := NewPlacementService(backend, conflicts, schedules, audit, overlay, nil, grid, nil, zap.NewNop())
	return &placementHarness{
		backend:    backend,
		placements: placements,
		schedules:  schedules,
		audit:      audit,
		overlay:    overlay,
	}
}

func unlinkedSubject() models.SubjectRequirement {
	return models.SubjectRequirement{
		SubjectID:     "subj-1",
		SubjectCode:   "IT101",
		SubjectTitle:  "Introduction to Computing",
		Units:         3,
		SubjectType:   models.SubjectLecture,
		ProfessorID:   profPtr("prof-1"),
		ProfessorName: "R. Santos",
	}
}

func TestArmTargetCommitReload(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	backend.linkageID = "ss-1"
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	view, err := h.schedules.View("sec-1")
	require.NoError(t, err)
	require.Len(t, view.Pending, 1)
	assert.Empty(t, view.Scheduled)

	sess := h.placements.Open("sec-1")
	armed, err := h.placements.Arm(sess.ID, ArmRequest{SubjectID: "subj-1"})
	require.NoError(t, err)
	assert.Equal(t, models.PlacementSubjectArmed, armed.State)
	require.NotNil(t, armed.Armed)
	assert.Equal(t, "IT101", armed.Armed.SubjectCode)

	result, err := h.placements.Target(ctx, sess.ID, TargetRequest{Day: "TUE", StartTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCommitted, result.Outcome)
	assert.Equal(t, models.PlacementIdle, result.Session.State)
	require.NotNil(t, result.Slot)
	assert.Equal(t, "ss-1", result.Slot.SectionSubjectID)
	assert.Equal(t, models.DayTue, result.Slot.Day)
	assert.Equal(t, "10:00", result.Slot.StartTime)
	// No end time given: the default session length applies.
	assert.Equal(t, "11:30", result.Slot.EndTime)

	// The linkage was created exactly once and recorded locally.
	assert.Equal(t, 1, backend.callCount("create_linkage"))
	req, ok := h.schedules.Requirement("sec-1", "subj-1")
	require.True(t, ok)
	assert.True(t, req.Linked())

	view, err = h.schedules.View("sec-1")
	require.NoError(t, err)
	assert.Empty(t, view.Pending)
	require.Len(t, view.Scheduled, 1)
	require.Len(t, view.Slots, 1)

	assert.Equal(t, []string{"prof-1"}, h.overlay.professors)
	require.Len(t, h.audit.entries, 1)
	assert.Equal(t, models.OutcomeCommitted, h.audit.entries[0].Outcome)
}

func TestTargetSectionConflictRejects(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	backend.sectionResult = models.ConflictResult{HasConflict: true, Conflict: "IT205 - BSIT-2A"}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")
	_, err := h.placements.Arm(sess.ID, ArmRequest{SubjectID: "subj-1"})
	require.NoError(t, err)

	result, err := h.placements.Target(ctx, sess.ID, TargetRequest{Day: "MON", StartTime: "09:00", EndTime: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeRejected, result.Outcome)
	assert.Equal(t, models.PlacementIdle, result.Session.State)
	require.NotNil(t, result.Assessment)
	assert.True(t, result.Assessment.Blocked())

	// Nothing was written and no warning path opened.
	assert.Equal(t, 0, backend.callCount("create_linkage"))
	assert.Equal(t, 0, backend.callCount("save_slot"))
	require.Len(t, h.audit.entries, 1)
	assert.Equal(t, models.OutcomeRejected, h.audit.entries[0].Outcome)
}

func TestDropProfessorConflictDecline(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	backend.profResult = models.ConflictResult{HasConflict: true, Conflict: "IT205 - BSIT-2A"}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")

	result, err := h.placements.Drop(ctx, sess.ID, DropRequest{SubjectID: "subj-1", Day: "WED", StartTime: "13:00", EndTime: "14:30"})
	require.NoError(t, err)
	assert.Empty(t, result.Outcome)
	assert.Equal(t, models.PlacementAwaitingOverride, result.Session.State)
	require.NotNil(t, result.Assessment)
	require.Len(t, result.Assessment.Warnings, 1)
	assert.Equal(t, "IT205 - BSIT-2A", result.Assessment.Warnings[0].Detail)

	declined, err := h.placements.Decline(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDeclined, declined.Outcome)
	assert.Equal(t, models.PlacementIdle, declined.Session.State)

	assert.Equal(t, 0, backend.callCount("save_slot"))
	view, err := h.schedules.View("sec-1")
	require.NoError(t, err)
	assert.Empty(t, view.Slots)
}

func TestConfirmOverrideCommits(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	backend.profResult = models.ConflictResult{HasConflict: true, Conflict: "IT205 - BSIT-2A"}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")

	result, err := h.placements.Drop(ctx, sess.ID, DropRequest{SubjectID: "subj-1", Day: "WED", StartTime: "13:00", EndTime: "14:30"})
	require.NoError(t, err)
	require.Equal(t, models.PlacementAwaitingOverride, result.Session.State)

	confirmed, err := h.placements.Confirm(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCommitted, confirmed.Outcome)
	require.NotNil(t, confirmed.Slot)
	assert.Equal(t, 1, backend.callCount("save_slot"))
}

func TestLinkageFailureAbortsPlacement(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	backend.linkageErr = appErrors.ErrLinkageFailed
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")

	_, err := h.placements.Drop(ctx, sess.ID, DropRequest{SubjectID: "subj-1", Day: "MON", StartTime: "08:00", EndTime: "09:30"})
	require.Error(t, err)
	assert.Equal(t, "LINKAGE_FAILED", appErrors.FromError(err).Code)

	// No slot write can follow a failed linkage.
	assert.Equal(t, 0, backend.callCount("save_slot"))
	view, vErr := h.placements.Session(sess.ID)
	require.NoError(t, vErr)
	assert.Equal(t, models.PlacementIdle, view.State)
	require.Len(t, h.audit.entries, 1)
	assert.Equal(t, models.OutcomeFailed, h.audit.entries[0].Outcome)
}

func TestTargetWithoutArmedSubject(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")

	_, err := h.placements.Target(ctx, sess.ID, TargetRequest{Day: "MON", StartTime: "08:00"})
	require.Error(t, err)
	assert.Equal(t, "PLACEMENT_STATE", appErrors.FromError(err).Code)
}

func TestTargetOutsideOperatingWindow(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")
	_, err := h.placements.Arm(sess.ID, ArmRequest{SubjectID: "subj-1"})
	require.NoError(t, err)

	_, err = h.placements.Target(ctx, sess.ID, TargetRequest{Day: "MON", StartTime: "22:00"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	assert.Equal(t, 0, backend.callCount("check_section"))
}

func TestCancelDiscardsSession(t *testing.T) {
	backend := newFakeRegistrar()
	backend.subjects = []models.SubjectRequirement{unlinkedSubject()}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))
	sess := h.placements.Open("sec-1")
	_, err := h.placements.Arm(sess.ID, ArmRequest{SubjectID: "subj-1"})
	require.NoError(t, err)

	require.NoError(t, h.placements.Cancel(ctx, sess.ID))
	_, err = h.placements.Session(sess.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestEditReschedulesExistingSlot(t *testing.T) {
	backend := newFakeRegistrar()
	linked := unlinkedSubject()
	ss := "ss-1"
	linked.SectionSubjectID = &ss
	backend.subjects = []models.SubjectRequirement{linked}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		SubjectID:        "subj-1",
		SubjectCode:      "IT101",
		Day:              models.DayMon,
		StartTime:        "08:00",
		EndTime:          "09:30",
		ProfessorID:      profPtr("prof-1"),
	}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))

	day := "THU"
	startTime := "14:00"
	endTime := "15:30"
	result, err := h.placements.Edit(ctx, "slot-1", EditRequest{
		SectionID: "sec-1",
		Day:       &day,
		StartTime: &startTime,
		EndTime:   &endTime,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCommitted, result.Outcome)
	require.NotNil(t, result.Slot)
	assert.Equal(t, "slot-1", result.Slot.ID)
	assert.Equal(t, models.DayThu, result.Slot.Day)
	assert.Equal(t, "14:00", result.Slot.StartTime)

	// Existing linkage is reused, not recreated.
	assert.Equal(t, 0, backend.callCount("create_linkage"))
}

func TestEditSoftConflictNeedsAcknowledge(t *testing.T) {
	backend := newFakeRegistrar()
	linked := unlinkedSubject()
	ss := "ss-1"
	linked.SectionSubjectID = &ss
	backend.subjects = []models.SubjectRequirement{linked}
	backend.slots["slot-1"] = models.Slot{
		ID:               "slot-1",
		SectionSubjectID: "ss-1",
		SubjectID:        "subj-1",
		SubjectCode:      "IT101",
		Day:              models.DayMon,
		StartTime:        "08:00",
		EndTime:          "09:30",
		ProfessorID:      profPtr("prof-1"),
	}
	backend.profResult = models.ConflictResult{HasConflict: true, Conflict: "IT205 - BSIT-2A"}
	h := newPlacementHarness(t, backend)
	ctx := context.Background()

	require.NoError(t, h.schedules.Refresh(ctx, "sec-1"))

	day := "THU"
	result, err := h.placements.Edit(ctx, "slot-1", EditRequest{SectionID: "sec-1", Day: &day})
	require.NoError(t, err)
	assert.Empty(t, result.Outcome)
	require.NotNil(t, result.Assessment)
	require.True(t, result.Assessment.NeedsOverride())
	assert.Equal(t, 0, backend.callCount("save_slot"))

	result, err = h.placements.Edit(ctx, "slot-1", EditRequest{SectionID: "sec-1", Day: &day, Acknowledge: true})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCommitted, result.Outcome)
	assert.Equal(t, 1, backend.callCount("save_slot"))
}
