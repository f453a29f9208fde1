package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
)

type overlayBackend interface {
	GetProfessorSchedule(ctx context.Context, professorID, semesterID string) ([]models.Slot, error)
}

// OverlayCache abstracts the Redis-backed overlay cache.
type OverlayCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// OverlayService serves a professor's existing commitments so the grid can
// paint their busy cells during drag interactions. Payloads are cached with
// a short TTL and invalidated when a commit touches the professor.
type OverlayService struct {
	backend overlayBackend
	cache   OverlayCache
	ttl     time.Duration
	enabled bool
	metrics *MetricsService
	logger  *zap.Logger
}

// NewOverlayService instantiates OverlayService. cache may be nil.
func NewOverlayService(backend overlayBackend, cache OverlayCache, ttl time.Duration, enabled bool, metrics *MetricsService, logger *zap.Logger) *OverlayService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverlayService{backend: backend, cache: cache, ttl: ttl, enabled: enabled, metrics: metrics, logger: logger}
}

func (s *OverlayService) cacheEnabled() bool {
	return s.enabled && s.cache != nil
}

// Overlay returns a professor's busy cells for a semester.
func (s *OverlayService) Overlay(ctx context.Context, professorID, semesterID string) (*models.ProfessorOverlay, error) {
	key := overlayKey(professorID, semesterID)

	if s.cacheEnabled() {
		var cached models.ProfessorOverlay
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheLookup(true)
			}
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("overlay cache get failed", zap.String("key", key), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(false)
		}
	}

	start := time.Now()
	slots, err := s.backend.GetProfessorSchedule(ctx, professorID, semesterID)
	if s.metrics != nil {
		s.metrics.ObserveRegistrarCall("get_professor_schedule", time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	overlay := &models.ProfessorOverlay{
		ProfessorID: professorID,
		SemesterID:  semesterID,
		BusyCells:   make([]models.BusyCell, 0, len(slots)),
	}
	for _, slot := range slots {
		overlay.BusyCells = append(overlay.BusyCells, models.BusyCell{
			Day:       slot.Day,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Label:     slot.SubjectCode,
		})
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, overlay, s.ttl); err != nil {
			s.logger.Warn("overlay cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return overlay, nil
}

// Invalidate drops cached overlays for a professor across all semesters.
func (s *OverlayService) Invalidate(ctx context.Context, professorID string) {
	if !s.cacheEnabled() {
		return
	}
	pattern := fmt.Sprintf("overlay:%s:*", professorID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("overlay cache invalidation failed", zap.String("professor_id", professorID), zap.Error(err))
	}
}

func overlayKey(professorID, semesterID string) string {
	return fmt.Sprintf("overlay:%s:%s", professorID, semesterID)
}
