package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/occupancy"
	"github.com/campuskit/section-scheduler/internal/registry"
	"github.com/campuskit/section-scheduler/internal/timegrid"
	"github.com/campuskit/section-scheduler/internal/tracker"
	"github.com/campuskit/section-scheduler/pkg/config"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
)

type scheduleBackend interface {
	GetSectionSchedule(ctx context.Context, sectionID string) (*models.SectionSchedule, error)
	DeleteSlot(ctx context.Context, slotID string) error
}

// SectionView is the engine's full answer for one section: the render plan,
// the raw slots and the pending/scheduled partition.
type SectionView struct {
	SectionID string                      `json:"section_id"`
	Semester  models.SemesterInfo         `json:"semester_info"`
	Plan      models.RenderPlan           `json:"plan"`
	Slots     []models.Slot               `json:"slots"`
	Pending   []models.SubjectRequirement `json:"pending"`
	Scheduled []models.SubjectRequirement `json:"scheduled"`
}

type sectionState struct {
	registry     *registry.Registry
	requirements []models.SubjectRequirement
	semester     models.SemesterInfo
}

// ScheduleService owns the per-section slot registries. Every registry is
// discarded and reloaded wholesale from the registrar backend after any
// successful mutation; the local add/update/remove echoes only bridge the
// gap until that reload resolves.
type ScheduleService struct {
	backend  scheduleBackend
	resolver *occupancy.Resolver
	grid     config.GridConfig
	days     []models.Day
	metrics  *MetricsService
	logger   *zap.Logger

	mu       sync.Mutex
	sections map[string]*sectionState
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(backend scheduleBackend, resolver *occupancy.Resolver, grid config.GridConfig, metrics *MetricsService, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	days := make([]models.Day, 0, len(grid.Days))
	for _, d := range grid.Days {
		days = append(days, models.Day(d))
	}
	return &ScheduleService{
		backend:  backend,
		resolver: resolver,
		grid:     grid,
		days:     timegrid.Days(days),
		metrics:  metrics,
		logger:   logger,
		sections: make(map[string]*sectionState),
	}
}

// Load replaces the section's registry from the registrar backend and
// returns the interactive view. The refresh is all-or-nothing: on any
// failure the previous state stays untouched and no partial grid is shown.
func (s *ScheduleService) Load(ctx context.Context, sectionID string) (*SectionView, error) {
	if err := s.Refresh(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.view(sectionID, s.grid.InteractiveGranMins)
}

// Summary reloads the section and returns the read-only hourly view.
func (s *ScheduleService) Summary(ctx context.Context, sectionID string) (*SectionView, error) {
	if err := s.Refresh(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.view(sectionID, s.grid.SummaryGranMins)
}

// Refresh reloads a section's requirements and slots from the backend.
func (s *ScheduleService) Refresh(ctx context.Context, sectionID string) error {
	start := time.Now()
	sched, err := s.backend.GetSectionSchedule(ctx, sectionID)
	if s.metrics != nil {
		s.metrics.ObserveRegistrarCall("get_section_schedule", time.Since(start))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackendUnreachable.Code, appErrors.ErrBackendUnreachable.Status, "failed to load section schedule")
	}

	slots := flattenSlots(sched.Subjects)

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sections[sectionID]
	if !ok {
		state = &sectionState{registry: registry.New()}
		s.sections[sectionID] = state
	}
	if err := state.registry.Replace(sectionID, slots); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "inconsistent slot set from registrar")
	}
	state.requirements = sched.Subjects
	state.semester = sched.Semester
	return nil
}

// RemoveSlot deletes a slot at the backend, echoes the removal locally and
// then reconciles with a full reload.
func (s *ScheduleService) RemoveSlot(ctx context.Context, sectionID, slotID string) (*SectionView, error) {
	state, err := s.state(sectionID)
	if err != nil {
		return nil, err
	}
	if _, ok := state.registry.Get(slotID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found in section")
	}

	start := time.Now()
	err = s.backend.DeleteSlot(ctx, slotID)
	if s.metrics != nil {
		s.metrics.ObserveRegistrarCall("delete_slot", time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	// Optimistic echo; the reload below is authoritative.
	if err := state.registry.Remove(slotID); err != nil {
		s.logger.Warn("optimistic removal echo failed", zap.String("slot_id", slotID), zap.Error(err))
	}
	if err := s.Refresh(ctx, sectionID); err != nil {
		s.logger.Warn("reload after removal failed, serving optimistic state",
			zap.String("section_id", sectionID), zap.Error(err))
	}
	return s.view(sectionID, s.grid.InteractiveGranMins)
}

// EchoSlot inserts a confirmed slot locally so the grid renders immediately
// while the authoritative reload is in flight.
func (s *ScheduleService) EchoSlot(sectionID string, slot models.Slot) {
	state, err := s.state(sectionID)
	if err != nil {
		return
	}
	if _, ok := state.registry.Get(slot.ID); ok {
		day := slot.Day
		startTime := slot.StartTime
		endTime := slot.EndTime
		patch := models.SlotPatch{Day: &day, StartTime: &startTime, EndTime: &endTime, ProfessorID: slot.ProfessorID, Room: slot.Room}
		if err := state.registry.Update(slot.ID, patch); err != nil {
			s.logger.Warn("optimistic update echo failed", zap.String("slot_id", slot.ID), zap.Error(err))
		}
		return
	}
	if err := state.registry.Add(slot); err != nil {
		s.logger.Warn("optimistic add echo failed", zap.String("slot_id", slot.ID), zap.Error(err))
	}
}

// Requirement finds a section's subject requirement by subject id.
func (s *ScheduleService) Requirement(sectionID, subjectID string) (models.SubjectRequirement, bool) {
	state, err := s.state(sectionID)
	if err != nil {
		return models.SubjectRequirement{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range state.requirements {
		if req.SubjectID == subjectID {
			return req, true
		}
	}
	return models.SubjectRequirement{}, false
}

// SetLinkage records a lazily created section-subject linkage id so repeat
// placements skip the creation round trip.
func (s *ScheduleService) SetLinkage(sectionID, subjectID, linkageID string) {
	state, err := s.state(sectionID)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range state.requirements {
		if state.requirements[i].SubjectID == subjectID {
			state.requirements[i].SectionSubjectID = &linkageID
			return
		}
	}
}

// Slot returns a held slot by id.
func (s *ScheduleService) Slot(sectionID, slotID string) (models.Slot, bool) {
	state, err := s.state(sectionID)
	if err != nil {
		return models.Slot{}, false
	}
	return state.registry.Get(slotID)
}

// Semester returns the loaded term for a section.
func (s *ScheduleService) Semester(sectionID string) models.SemesterInfo {
	state, err := s.state(sectionID)
	if err != nil {
		return models.SemesterInfo{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.semester
}

// View renders the interactive grid from the current in-memory state
// without a backend round trip.
func (s *ScheduleService) View(sectionID string) (*SectionView, error) {
	return s.view(sectionID, s.grid.InteractiveGranMins)
}

func (s *ScheduleService) state(sectionID string) (*sectionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sections[sectionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section schedule not loaded")
	}
	return state, nil
}

func (s *ScheduleService) view(sectionID string, granMins int) (*SectionView, error) {
	state, err := s.state(sectionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	requirements := make([]models.SubjectRequirement, len(state.requirements))
	copy(requirements, state.requirements)
	semester := state.semester
	s.mu.Unlock()

	slots := state.registry.Slots()
	times := timegrid.NewSequence(s.grid.StartHour, s.grid.EndHour, granMins).Collect()
	plan := s.resolver.Resolve(slots, s.days, times, s.grid.StartHour, granMins)
	part := tracker.Compute(requirements, slots)

	return &SectionView{
		SectionID: sectionID,
		Semester:  semester,
		Plan:      plan,
		Slots:     slots,
		Pending:   part.Pending,
		Scheduled: part.Scheduled,
	}, nil
}

// flattenSlots collects the nested schedule_slots of every requirement,
// denormalising subject and professor labels onto each slot for rendering.
func flattenSlots(requirements []models.SubjectRequirement) []models.Slot {
	var slots []models.Slot
	for _, req := range requirements {
		for _, slot := range req.ScheduleSlots {
			if slot.SectionSubjectID == "" && req.Linked() {
				slot.SectionSubjectID = *req.SectionSubjectID
			}
			if slot.SubjectID == "" {
				slot.SubjectID = req.SubjectID
			}
			if slot.SubjectCode == "" {
				slot.SubjectCode = req.SubjectCode
			}
			if slot.ProfessorID == nil {
				slot.ProfessorID = req.ProfessorID
			}
			if slot.ProfessorName == "" {
				slot.ProfessorName = req.ProfessorName
			}
			slots = append(slots, slot)
		}
	}
	return slots
}
