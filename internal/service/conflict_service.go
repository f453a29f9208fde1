package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/client"
	"github.com/campuskit/section-scheduler/internal/models"
)

type conflictBackend interface {
	CheckSectionConflict(ctx context.Context, check client.ConflictCheck) (models.ConflictResult, error)
	CheckProfessorConflict(ctx context.Context, check client.ConflictCheck) (models.ConflictResult, error)
	CheckRoomConflict(ctx context.Context, check client.ConflictCheck) (models.ConflictResult, error)
}

// PlacementCandidate is a proposed day/time for one section subject.
type PlacementCandidate struct {
	SectionID   string
	SemesterID  string
	Day         models.Day
	StartTime   string
	EndTime     string
	ProfessorID *string
	Room        *string
}

// ConflictAssessment is the combined verdict over the three axes.
// A non-nil SectionConflict is a hard block with no override path; Warnings
// are soft conflicts the user may acknowledge and override.
type ConflictAssessment struct {
	SectionConflict *models.ConflictResult   `json:"section_conflict,omitempty"`
	Warnings        []models.ConflictWarning `json:"warnings,omitempty"`
}

// Blocked reports whether the placement is rejected outright.
func (a ConflictAssessment) Blocked() bool {
	return a.SectionConflict != nil
}

// NeedsOverride reports whether explicit user confirmation is required.
func (a ConflictAssessment) NeedsOverride() bool {
	return !a.Blocked() && len(a.Warnings) > 0
}

// ConflictService delegates overlap detection to the registrar backend and
// applies the engine's hard-block and soft-warn semantics on top.
type ConflictService struct {
	backend conflictBackend
	metrics *MetricsService
	logger  *zap.Logger
}

// NewConflictService instantiates ConflictService.
func NewConflictService(backend conflictBackend, metrics *MetricsService, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{backend: backend, metrics: metrics, logger: logger}
}

// Evaluate runs the checks in order: the cheap, decisive section check
// first, and the professor/room checks only when the section axis is clear.
// A transport failure fails closed on the section axis; on the soft axes it
// degrades to an unverified warning the user must acknowledge, since
// blocking all scheduling on a network blip is worse than a rare missed
// warning.
func (s *ConflictService) Evaluate(ctx context.Context, cand PlacementCandidate) ConflictAssessment {
	var assessment ConflictAssessment

	section := s.checkSection(ctx, cand)
	if section.HasConflict {
		assessment.SectionConflict = &section
		return assessment
	}

	if cand.ProfessorID != nil && *cand.ProfessorID != "" {
		if warning := s.checkSoft(ctx, models.DimensionProfessor, cand); warning != nil {
			assessment.Warnings = append(assessment.Warnings, *warning)
		}
	}
	if cand.Room != nil && *cand.Room != "" {
		if warning := s.checkSoft(ctx, models.DimensionRoom, cand); warning != nil {
			assessment.Warnings = append(assessment.Warnings, *warning)
		}
	}

	return assessment
}

func (s *ConflictService) checkSection(ctx context.Context, cand PlacementCandidate) models.ConflictResult {
	start := time.Now()
	result, err := s.backend.CheckSectionConflict(ctx, client.ConflictCheck{
		SectionID: cand.SectionID,
		Day:       string(cand.Day),
		StartTime: cand.StartTime,
		EndTime:   cand.EndTime,
	})
	s.observe("check_section_conflict", start)

	if err != nil {
		// Unknown outcome on the hard axis is treated as a conflict.
		s.logger.Warn("section conflict check failed, failing closed",
			zap.String("section_id", cand.SectionID),
			zap.Error(err))
		s.recordCheck(models.DimensionSection, "unverified")
		return models.ConflictResult{
			Dimension:   models.DimensionSection,
			HasConflict: true,
			Conflict:    "could not verify section availability",
			Verified:    false,
		}
	}

	s.recordCheck(models.DimensionSection, resultLabel(result.HasConflict))
	return result
}

func (s *ConflictService) checkSoft(ctx context.Context, dim models.ConflictDimension, cand PlacementCandidate) *models.ConflictWarning {
	check := client.ConflictCheck{
		Day:       string(cand.Day),
		StartTime: cand.StartTime,
		EndTime:   cand.EndTime,
	}

	var (
		result models.ConflictResult
		err    error
	)
	start := time.Now()
	switch dim {
	case models.DimensionProfessor:
		check.ProfessorID = *cand.ProfessorID
		check.SemesterID = cand.SemesterID
		result, err = s.backend.CheckProfessorConflict(ctx, check)
		s.observe("check_professor_conflict", start)
	default:
		check.Room = *cand.Room
		result, err = s.backend.CheckRoomConflict(ctx, check)
		s.observe("check_room_conflict", start)
	}

	if err != nil {
		s.logger.Warn("soft conflict check failed, degrading to warning",
			zap.String("dimension", string(dim)),
			zap.Error(err))
		s.recordCheck(dim, "unverified")
		return &models.ConflictWarning{
			Dimension: dim,
			Detail:    "availability could not be verified",
			Verified:  false,
		}
	}

	s.recordCheck(dim, resultLabel(result.HasConflict))
	if !result.HasConflict {
		return nil
	}
	return &models.ConflictWarning{Dimension: dim, Detail: result.Conflict, Verified: true}
}

func (s *ConflictService) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRegistrarCall(operation, time.Since(start))
	}
}

func (s *ConflictService) recordCheck(dim models.ConflictDimension, result string) {
	if s.metrics != nil {
		s.metrics.RecordConflictCheck(string(dim), result)
	}
}

func resultLabel(hasConflict bool) string {
	if hasConflict {
		return "conflict"
	}
	return "clear"
}
