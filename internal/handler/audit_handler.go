package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/section-scheduler/internal/repository"
	"github.com/campuskit/section-scheduler/pkg/response"
)

// AuditHandler exposes the placement audit trail.
type AuditHandler struct {
	repo *repository.AuditRepository
}

// NewAuditHandler constructs handler.
func NewAuditHandler(repo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListBySection godoc
// @Summary Recent placement attempts for a section
// @Tags Audit
// @Produce json
// @Param id path string true "Section ID"
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/audit [get]
func (h *AuditHandler) ListBySection(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	entries, err := h.repo.ListBySection(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}
