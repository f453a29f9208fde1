package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/section-scheduler/internal/models"
)

// AuditRepository persists the local placement audit log. The registrar
// backend stays the system of record for schedules; this table only records
// how placement attempts resolved on this engine.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository builds repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts one resolved placement attempt.
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO placement_audit (id, section_id, subject_id, day, start_time, end_time, outcome, detail, created_at)
VALUES (:id, :section_id, :subject_id, :day, :start_time, :end_time, :outcome, :detail, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert placement audit: %w", err)
	}
	return nil
}

// ListBySection returns the most recent audit entries for a section.
func (r *AuditRepository) ListBySection(ctx context.Context, sectionID string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, section_id, subject_id, day, start_time, end_time, outcome, detail, created_at
FROM placement_audit WHERE section_id = $1 ORDER BY created_at DESC LIMIT $2`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, sectionID, limit); err != nil {
		return nil, fmt.Errorf("list placement audit: %w", err)
	}
	return entries, nil
}
