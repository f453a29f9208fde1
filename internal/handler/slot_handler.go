package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/section-scheduler/internal/service"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
	"github.com/campuskit/section-scheduler/pkg/response"
)

// SlotHandler manages direct slot mutations outside a placement session.
type SlotHandler struct {
	schedules  *service.ScheduleService
	placements *service.PlacementService
}

// NewSlotHandler constructs handler.
func NewSlotHandler(schedules *service.ScheduleService, placements *service.PlacementService) *SlotHandler {
	return &SlotHandler{schedules: schedules, placements: placements}
}

// Delete godoc
// @Summary Remove a slot from a section's schedule
// @Tags Slots
// @Produce json
// @Param id path string true "Slot ID"
// @Param section query string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /slots/{id} [delete]
func (h *SlotHandler) Delete(c *gin.Context) {
	sectionID := c.Query("section")
	if sectionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "section query parameter is required"))
		return
	}
	view, err := h.schedules.RemoveSlot(c.Request.Context(), sectionID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Update godoc
// @Summary Edit a slot's day, time, professor or room
// @Tags Slots
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.EditRequest true "Edit payload"
// @Success 200 {object} response.Envelope
// @Router /slots/{id} [patch]
func (h *SlotHandler) Update(c *gin.Context) {
	var req service.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.placements.Edit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
