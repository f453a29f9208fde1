package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/section-scheduler/internal/service"
	"github.com/campuskit/section-scheduler/pkg/response"
)

// ScheduleHandler serves the section schedule views.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Get godoc
// @Summary Load a section's interactive schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	view, err := h.service.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Summary godoc
// @Summary Read-only hourly summary of a section's schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/schedule/summary [get]
func (h *ScheduleHandler) Summary(c *gin.Context) {
	view, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
