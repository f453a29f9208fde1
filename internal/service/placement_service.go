package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/client"
	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/timegrid"
	"github.com/campuskit/section-scheduler/pkg/config"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
)

type placementBackend interface {
	SaveSlot(ctx context.Context, slot models.Slot) (*models.Slot, error)
	CreateSectionSubject(ctx context.Context, req client.LinkageRequest) (string, error)
}

// AuditRecorder persists placement attempts for later review.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}

// OverlayInvalidator drops cached professor overlays after a commit.
type OverlayInvalidator interface {
	Invalidate(ctx context.Context, professorID string)
}

// placementSession is one interactive placement in progress. The epoch
// counter invalidates in-flight work: any result resolving after a cancel
// sees a newer epoch and is discarded without a state transition.
type placementSession struct {
	id        string
	sectionID string
	state     models.PlacementState
	armed     *models.SubjectRequirement
	intent    *models.PlacementIntent
	warnings  []models.ConflictWarning
	busy      bool
	epoch     uint64
}

// SessionView is the serialisable snapshot of a placement session.
type SessionView struct {
	ID        string                     `json:"id"`
	SectionID string                     `json:"section_id"`
	State     models.PlacementState      `json:"state"`
	Armed     *models.SubjectRequirement `json:"armed_subject,omitempty"`
	Warnings  []models.ConflictWarning   `json:"warnings,omitempty"`
}

// PlacementResult is the outcome of a target, drop or confirm call.
type PlacementResult struct {
	Session    SessionView             `json:"session"`
	Outcome    models.PlacementOutcome `json:"outcome,omitempty"`
	Assessment *ConflictAssessment     `json:"assessment,omitempty"`
	Slot       *models.Slot            `json:"slot,omitempty"`
}

// ArmRequest selects a pending subject for click-to-place.
type ArmRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
}

// TargetRequest aims the armed subject at a grid cell.
type TargetRequest struct {
	Day       string  `json:"day" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time"`
	Room      *string `json:"room,omitempty"`
}

// DropRequest places a subject straight onto a cell, bypassing arming.
type DropRequest struct {
	SubjectID string  `json:"subject_id" validate:"required"`
	Day       string  `json:"day" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time"`
	Room      *string `json:"room,omitempty"`
}

// EditRequest reschedules an existing slot. Acknowledge confirms soft
// conflict warnings reported by a previous attempt.
type EditRequest struct {
	SectionID   string  `json:"section_id" validate:"required"`
	Day         *string `json:"day,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	ProfessorID *string `json:"professor_id,omitempty"`
	Room        *string `json:"room,omitempty"`
	Acknowledge bool    `json:"acknowledge"`
}

// PlacementService orchestrates the two interaction patterns, armed click
// and drag-drop, into one validated create-or-update request per slot.
type PlacementService struct {
	backend   placementBackend
	conflicts *ConflictService
	schedules *ScheduleService
	audit     AuditRecorder
	overlay   OverlayInvalidator
	validator *validator.Validate
	grid      config.GridConfig
	metrics   *MetricsService
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*placementSession
}

// NewPlacementService instantiates PlacementService. audit and overlay may
// be nil when those subsystems are disabled.
func NewPlacementService(backend placementBackend, conflicts *ConflictService, schedules *ScheduleService, audit AuditRecorder, overlay OverlayInvalidator, validate *validator.Validate, grid config.GridConfig, metrics *MetricsService, logger *zap.Logger) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{
		backend:   backend,
		conflicts: conflicts,
		schedules: schedules,
		audit:     audit,
		overlay:   overlay,
		validator: validate,
		grid:      grid,
		metrics:   metrics,
		logger:    logger,
		sessions:  make(map[string]*placementSession),
	}
}

// Open starts a placement session for a section.
func (s *PlacementService) Open(sectionID string) SessionView {
	sess := &placementSession{
		id:        uuid.NewString(),
		sectionID: sectionID,
		state:     models.PlacementIdle,
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return s.snapshot(sess)
}

// Arm selects a pending subject in an idle session.
func (s *PlacementService) Arm(sessionID string, req ArmRequest) (SessionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return SessionView{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid arm payload")
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.busy || (sess.state != models.PlacementIdle && sess.state != models.PlacementSubjectArmed) {
		return SessionView{}, appErrors.Clone(appErrors.ErrPlacementState, "cannot arm a subject now")
	}
	subject, ok := s.schedules.Requirement(sess.sectionID, req.SubjectID)
	if !ok {
		return SessionView{}, appErrors.Clone(appErrors.ErrNotFound, "subject not offered by this section")
	}
	sess.armed = &subject
	sess.state = models.PlacementSubjectArmed
	return s.snapshotLocked(sess), nil
}

// Target aims the armed subject at a grid cell and runs validation.
func (s *PlacementService) Target(ctx context.Context, sessionID string, req TargetRequest) (*PlacementResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid target payload")
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if sess.busy {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "placement already in flight")
	}
	if sess.state != models.PlacementSubjectArmed || sess.armed == nil {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "no subject armed")
	}
	subject := *sess.armed
	s.mu.Unlock()

	intent, err := s.buildIntent(models.IntentArmedClick, subject, req.Day, req.StartTime, req.EndTime, req.Room, "")
	if err != nil {
		return nil, err
	}
	return s.validateAndCommit(ctx, sess, intent)
}

// Drop places a subject dropped straight onto a cell.
func (s *PlacementService) Drop(ctx context.Context, sessionID string, req DropRequest) (*PlacementResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if sess.busy {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "placement already in flight")
	}
	if sess.state != models.PlacementIdle && sess.state != models.PlacementSubjectArmed {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "cannot start a placement now")
	}
	s.mu.Unlock()

	subject, ok := s.schedules.Requirement(sess.sectionID, req.SubjectID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not offered by this section")
	}
	intent, err := s.buildIntent(models.IntentDragDrop, subject, req.Day, req.StartTime, req.EndTime, req.Room, "")
	if err != nil {
		return nil, err
	}
	return s.validateAndCommit(ctx, sess, intent)
}

// Confirm acknowledges soft conflict warnings and commits the held intent.
func (s *PlacementService) Confirm(ctx context.Context, sessionID string) (*PlacementResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if sess.busy {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "placement already in flight")
	}
	if sess.state != models.PlacementAwaitingOverride || sess.intent == nil {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "no override awaiting confirmation")
	}
	intent := *sess.intent
	sess.busy = true
	sess.state = models.PlacementCommitting
	epoch := sess.epoch
	s.mu.Unlock()

	return s.commit(ctx, sess, intent, epoch)
}

// Decline aborts the held intent with no side effects.
func (s *PlacementService) Decline(ctx context.Context, sessionID string) (*PlacementResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if sess.state != models.PlacementAwaitingOverride || sess.intent == nil {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPlacementState, "no override awaiting confirmation")
	}
	intent := *sess.intent
	s.reset(sess)
	view := s.snapshotLocked(sess)
	s.mu.Unlock()

	s.record(ctx, sess.sectionID, intent, models.OutcomeDeclined, "user declined override")
	return &PlacementResult{Session: view, Outcome: models.OutcomeDeclined}, nil
}

// Cancel discards the session. Requests already dispatched may complete at
// the registrar but their results no longer transition any state.
func (s *PlacementService) Cancel(ctx context.Context, sessionID string) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	hadIntent := sess.intent != nil
	intent := models.PlacementIntent{}
	if hadIntent {
		intent = *sess.intent
	}
	sess.epoch++
	s.reset(sess)
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if hadIntent {
		s.record(ctx, sess.sectionID, intent, models.OutcomeCancelled, "placement cancelled")
	}
	return nil
}

// Session returns a snapshot of a live session.
func (s *PlacementService) Session(sessionID string) (SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return s.snapshot(sess), nil
}

// Edit reschedules an existing slot through the same conflict gate as a
// fresh placement. Soft warnings are returned to the caller, who repeats
// the request with Acknowledge set to override them.
func (s *PlacementService) Edit(ctx context.Context, slotID string, req EditRequest) (*PlacementResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edit payload")
	}
	existing, ok := s.schedules.Slot(req.SectionID, slotID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found in section")
	}

	merged := existing
	if req.Day != nil {
		merged.Day = models.Day(*req.Day)
	}
	if req.StartTime != nil {
		merged.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		merged.EndTime = *req.EndTime
	}
	if req.ProfessorID != nil {
		merged.ProfessorID = req.ProfessorID
	}
	if req.Room != nil {
		merged.Room = req.Room
	}
	if err := s.checkWindow(string(merged.Day), merged.StartTime, merged.EndTime); err != nil {
		return nil, err
	}

	subject := models.SubjectRequirement{
		SubjectID:        merged.SubjectID,
		SubjectCode:      merged.SubjectCode,
		SectionSubjectID: &merged.SectionSubjectID,
		ProfessorID:      merged.ProfessorID,
	}
	intent := models.PlacementIntent{
		Kind:      models.IntentArmedClick,
		Subject:   subject,
		Day:       merged.Day,
		StartTime: merged.StartTime,
		EndTime:   merged.EndTime,
		Room:      merged.Room,
		EditSlot:  slotID,
	}

	assessment := s.conflicts.Evaluate(ctx, s.candidate(req.SectionID, intent))
	if assessment.Blocked() {
		s.record(ctx, req.SectionID, intent, models.OutcomeRejected, assessment.SectionConflict.Conflict)
		s.recordOutcome(models.OutcomeRejected)
		return nil, appErrors.Clone(appErrors.ErrScheduleConflict, "section already has a slot at this time")
	}
	if assessment.NeedsOverride() && !req.Acknowledge {
		return &PlacementResult{Assessment: &assessment}, nil
	}

	sess := &placementSession{id: "edit", sectionID: req.SectionID, state: models.PlacementCommitting, busy: true}
	return s.commit(ctx, sess, intent, sess.epoch)
}

func (s *PlacementService) validateAndCommit(ctx context.Context, sess *placementSession, intent models.PlacementIntent) (*PlacementResult, error) {
	s.mu.Lock()
	sess.busy = true
	sess.state = models.PlacementValidating
	epoch := sess.epoch
	s.mu.Unlock()

	assessment := s.conflicts.Evaluate(ctx, s.candidate(sess.sectionID, intent))
	if s.stale(sess, epoch) {
		return s.discarded(sess), nil
	}

	if assessment.Blocked() {
		s.mu.Lock()
		sess.state = models.PlacementRejected
		s.reset(sess)
		view := s.snapshotLocked(sess)
		s.mu.Unlock()

		s.record(ctx, sess.sectionID, intent, models.OutcomeRejected, assessment.SectionConflict.Conflict)
		s.recordOutcome(models.OutcomeRejected)
		return &PlacementResult{Session: view, Outcome: models.OutcomeRejected, Assessment: &assessment}, nil
	}

	if assessment.NeedsOverride() {
		s.mu.Lock()
		sess.state = models.PlacementAwaitingOverride
		sess.intent = &intent
		sess.warnings = assessment.Warnings
		sess.busy = false
		view := s.snapshotLocked(sess)
		s.mu.Unlock()
		return &PlacementResult{Session: view, Assessment: &assessment}, nil
	}

	s.mu.Lock()
	sess.state = models.PlacementCommitting
	s.mu.Unlock()
	return s.commit(ctx, sess, intent, epoch)
}

// commit performs the lazy linkage creation and the slot write, then
// reconciles the registry with a full reload. A linkage failure aborts the
// whole placement so no slot can reference a missing linkage.
func (s *PlacementService) commit(ctx context.Context, sess *placementSession, intent models.PlacementIntent, epoch uint64) (*PlacementResult, error) {
	subject := intent.Subject

	if !subject.Linked() {
		linkReq := client.LinkageRequest{
			Section:   sess.sectionID,
			Subject:   subject.SubjectID,
			Professor: subject.ProfessorID,
			IsTBA:     subject.ProfessorID == nil || *subject.ProfessorID == "",
		}
		start := time.Now()
		linkageID, err := s.backend.CreateSectionSubject(ctx, linkReq)
		s.observe("create_section_subject", start)
		if s.stale(sess, epoch) {
			return s.discarded(sess), nil
		}
		if err != nil {
			s.finishIdle(sess)
			s.record(ctx, sess.sectionID, intent, models.OutcomeFailed, fmt.Sprintf("linkage creation failed: %v", err))
			s.recordOutcome(models.OutcomeFailed)
			return nil, err
		}
		subject.SectionSubjectID = &linkageID
		s.schedules.SetLinkage(sess.sectionID, subject.SubjectID, linkageID)
	}

	slot := models.Slot{
		ID:               intent.EditSlot,
		SectionSubjectID: *subject.SectionSubjectID,
		SubjectID:        subject.SubjectID,
		SubjectCode:      subject.SubjectCode,
		Day:              intent.Day,
		StartTime:        intent.StartTime,
		EndTime:          intent.EndTime,
		ProfessorID:      subject.ProfessorID,
		Room:             intent.Room,
	}

	start := time.Now()
	saved, err := s.backend.SaveSlot(ctx, slot)
	s.observe("save_slot", start)
	if s.stale(sess, epoch) {
		return s.discarded(sess), nil
	}
	if err != nil {
		s.finishIdle(sess)
		s.record(ctx, sess.sectionID, intent, models.OutcomeFailed, fmt.Sprintf("slot save failed: %v", err))
		s.recordOutcome(models.OutcomeFailed)
		return nil, err
	}

	s.schedules.EchoSlot(sess.sectionID, *saved)
	if err := s.schedules.Refresh(ctx, sess.sectionID); err != nil {
		s.logger.Warn("reload after commit failed, optimistic echo stands",
			zap.String("section_id", sess.sectionID), zap.Error(err))
	}
	if s.overlay != nil && saved.HasProfessor() {
		s.overlay.Invalidate(ctx, *saved.ProfessorID)
	}

	s.mu.Lock()
	s.reset(sess)
	view := s.snapshotLocked(sess)
	s.mu.Unlock()

	s.record(ctx, sess.sectionID, intent, models.OutcomeCommitted, "")
	s.recordOutcome(models.OutcomeCommitted)
	return &PlacementResult{Session: view, Outcome: models.OutcomeCommitted, Slot: saved}, nil
}

func (s *PlacementService) buildIntent(kind models.IntentKind, subject models.SubjectRequirement, day, startTime, endTime string, room *string, editSlot string) (models.PlacementIntent, error) {
	if endTime == "" {
		derived, err := s.defaultEndTime(startTime)
		if err != nil {
			return models.PlacementIntent{}, err
		}
		endTime = derived
	}
	if err := s.checkWindow(day, startTime, endTime); err != nil {
		return models.PlacementIntent{}, err
	}
	return models.PlacementIntent{
		Kind:      kind,
		Subject:   subject,
		Day:       models.Day(day),
		StartTime: startTime,
		EndTime:   endTime,
		Room:      room,
		EditSlot:  editSlot,
	}, nil
}

// defaultEndTime applies the configured session length when the user picks
// only a starting cell. The institutional mapping from unit counts to
// session lengths lives with the registrar, not here.
func (s *PlacementService) defaultEndTime(startTime string) (string, error) {
	startMins, err := timegrid.Minutes(startTime)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	length := s.grid.DefaultSessionMinutes
	if length <= 0 {
		length = 90
	}
	endMins := startMins + length
	if endMins > 24*60-1 {
		endMins = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", endMins/60, endMins%60), nil
}

func (s *PlacementService) checkWindow(day, startTime, endTime string) error {
	if !models.Day(day).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", day))
	}
	startMins, err := timegrid.Minutes(startTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	endMins, err := timegrid.Minutes(endTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}
	if startMins >= endMins {
		return appErrors.Clone(appErrors.ErrValidation, "start time must precede end time")
	}
	if startMins < s.grid.StartHour*60 || startMins >= s.grid.EndHour*60 {
		return appErrors.Clone(appErrors.ErrValidation, "start time outside the operating window")
	}
	return nil
}

func (s *PlacementService) candidate(sectionID string, intent models.PlacementIntent) PlacementCandidate {
	semester := s.schedules.Semester(sectionID)
	return PlacementCandidate{
		SectionID:   sectionID,
		SemesterID:  semester.ID,
		Day:         intent.Day,
		StartTime:   intent.StartTime,
		EndTime:     intent.EndTime,
		ProfessorID: intent.Subject.ProfessorID,
		Room:        intent.Room,
	}
}

func (s *PlacementService) session(sessionID string) (*placementSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "placement session not found")
	}
	return sess, nil
}

// stale reports whether the session was cancelled while a round trip was in
// flight; a stale result must not transition state.
func (s *PlacementService) stale(sess *placementSession, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.epoch != epoch
}

func (s *PlacementService) discarded(sess *placementSession) *PlacementResult {
	return &PlacementResult{
		Session: SessionView{ID: sess.id, SectionID: sess.sectionID, State: models.PlacementIdle},
		Outcome: models.OutcomeCancelled,
	}
}

func (s *PlacementService) finishIdle(sess *placementSession) {
	s.mu.Lock()
	s.reset(sess)
	s.mu.Unlock()
}

// reset must be called with s.mu held.
func (s *PlacementService) reset(sess *placementSession) {
	sess.state = models.PlacementIdle
	sess.armed = nil
	sess.intent = nil
	sess.warnings = nil
	sess.busy = false
}

func (s *PlacementService) snapshot(sess *placementSession) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(sess)
}

// snapshotLocked must be called with s.mu held.
func (s *PlacementService) snapshotLocked(sess *placementSession) SessionView {
	view := SessionView{
		ID:        sess.id,
		SectionID: sess.sectionID,
		State:     sess.state,
	}
	if sess.armed != nil {
		armed := *sess.armed
		view.Armed = &armed
	}
	if len(sess.warnings) > 0 {
		view.Warnings = append([]models.ConflictWarning(nil), sess.warnings...)
	}
	return view
}

func (s *PlacementService) record(ctx context.Context, sectionID string, intent models.PlacementIntent, outcome models.PlacementOutcome, detail string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		SectionID: sectionID,
		SubjectID: intent.Subject.SubjectID,
		Day:       string(intent.Day),
		StartTime: intent.StartTime,
		EndTime:   intent.EndTime,
		Outcome:   outcome,
		Detail:    detail,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("section_id", sectionID), zap.Error(err))
	}
}

func (s *PlacementService) recordOutcome(outcome models.PlacementOutcome) {
	if s.metrics != nil {
		s.metrics.RecordPlacementOutcome(string(outcome))
	}
}

func (s *PlacementService) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRegistrarCall(operation, time.Since(start))
	}
}
