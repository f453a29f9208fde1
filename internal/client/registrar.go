// Package client implements the REST contract with the registrar backend,
// the institution's system of record. Every schedule read, slot write and
// conflict check is one round trip here; the engine never owns the
// authoritative state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/pkg/config"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
)

// Registrar is an HTTP client for the registrar backend.
type Registrar struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewRegistrar builds a client from configuration.
func NewRegistrar(cfg config.RegistrarConfig, logger *zap.Logger) *Registrar {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Registrar{
		baseURL: cfg.BaseURL,
		token:   cfg.ServiceToken,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ConflictCheck is the wire payload shared by the three conflict endpoints;
// unused fields stay empty per dimension.
type ConflictCheck struct {
	SectionID   string `json:"section_id,omitempty"`
	ProfessorID string `json:"professor_id,omitempty"`
	SemesterID  string `json:"semester_id,omitempty"`
	Room        string `json:"room,omitempty"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type conflictResponse struct {
	HasConflict bool   `json:"has_conflict"`
	Conflict    string `json:"conflict,omitempty"`
}

// LinkageRequest asks the backend to materialise a section-subject binding.
type LinkageRequest struct {
	Section   string  `json:"section"`
	Subject   string  `json:"subject"`
	Professor *string `json:"professor,omitempty"`
	IsTBA     bool    `json:"is_tba"`
}

type linkageResponse struct {
	ID string `json:"id"`
}

// GetSectionSchedule fetches a section's subject requirements with their
// nested schedule slots.
func (r *Registrar) GetSectionSchedule(ctx context.Context, sectionID string) (*models.SectionSchedule, error) {
	var out models.SectionSchedule
	path := fmt.Sprintf("/sections/%s/schedule", url.PathEscape(sectionID))
	if err := r.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	out.SectionID = sectionID
	return &out, nil
}

// SaveSlot creates the slot when it has no id and updates it otherwise.
// An update that targets a slot the backend no longer knows maps to
// STALE_SLOT.
func (r *Registrar) SaveSlot(ctx context.Context, slot models.Slot) (*models.Slot, error) {
	var out models.Slot
	if slot.Saved() {
		path := fmt.Sprintf("/schedule-slots/%s", url.PathEscape(slot.ID))
		if err := r.do(ctx, http.MethodPatch, path, slot, &out); err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
				return nil, appErrors.Clone(appErrors.ErrStaleSlot, "slot was removed by another session")
			}
			return nil, err
		}
		return &out, nil
	}
	if err := r.do(ctx, http.MethodPost, "/schedule-slots", slot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSlot removes a slot permanently.
func (r *Registrar) DeleteSlot(ctx context.Context, slotID string) error {
	path := fmt.Sprintf("/schedule-slots/%s", url.PathEscape(slotID))
	if err := r.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			return appErrors.Clone(appErrors.ErrStaleSlot, "slot was removed by another session")
		}
		return err
	}
	return nil
}

// CheckSectionConflict asks whether the section already has any slot
// overlapping the proposed day/time.
func (r *Registrar) CheckSectionConflict(ctx context.Context, check ConflictCheck) (models.ConflictResult, error) {
	return r.checkConflict(ctx, "/conflicts/section", models.DimensionSection, check)
}

// CheckProfessorConflict asks whether the professor teaches elsewhere at the
// proposed day/time in the given semester.
func (r *Registrar) CheckProfessorConflict(ctx context.Context, check ConflictCheck) (models.ConflictResult, error) {
	return r.checkConflict(ctx, "/conflicts/professor", models.DimensionProfessor, check)
}

// CheckRoomConflict asks whether the room is booked at the proposed
// day/time.
func (r *Registrar) CheckRoomConflict(ctx context.Context, check ConflictCheck) (models.ConflictResult, error) {
	return r.checkConflict(ctx, "/conflicts/room", models.DimensionRoom, check)
}

func (r *Registrar) checkConflict(ctx context.Context, path string, dim models.ConflictDimension, check ConflictCheck) (models.ConflictResult, error) {
	var resp conflictResponse
	if err := r.do(ctx, http.MethodPost, path, check, &resp); err != nil {
		return models.ConflictResult{Dimension: dim}, err
	}
	return models.ConflictResult{
		Dimension:   dim,
		HasConflict: resp.HasConflict,
		Conflict:    resp.Conflict,
		Verified:    true,
	}, nil
}

// CreateSectionSubject materialises the section-subject(-professor) linkage
// and returns its id.
func (r *Registrar) CreateSectionSubject(ctx context.Context, req LinkageRequest) (string, error) {
	var resp linkageResponse
	if err := r.do(ctx, http.MethodPost, "/section-subjects", req, &resp); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrLinkageFailed.Code, appErrors.ErrLinkageFailed.Status, appErrors.ErrLinkageFailed.Message)
	}
	return resp.ID, nil
}

// GetProfessorSchedule returns a professor's existing slots for a semester,
// used to paint busy cells during drag interactions.
func (r *Registrar) GetProfessorSchedule(ctx context.Context, professorID, semesterID string) ([]models.Slot, error) {
	path := fmt.Sprintf("/professors/%s/schedule?semester_id=%s",
		url.PathEscape(professorID), url.QueryEscape(semesterID))
	var out []models.Slot
	if err := r.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registrar) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode registrar request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build registrar request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Warn("registrar request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrBackendUnreachable.Code, appErrors.ErrBackendUnreachable.Status, appErrors.ErrBackendUnreachable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("registrar: %s not found", path))
	case resp.StatusCode >= 500:
		return appErrors.Clone(appErrors.ErrBackendUnreachable, fmt.Sprintf("registrar returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return appErrors.New("REGISTRAR_REJECTED", resp.StatusCode, readErrorMessage(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackendUnreachable.Code, appErrors.ErrBackendUnreachable.Status, "decode registrar response")
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return "registrar rejected the request"
}
