package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/section-scheduler/internal/service"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
	"github.com/campuskit/section-scheduler/pkg/response"
)

// PlacementHandler drives the interactive placement sessions.
type PlacementHandler struct {
	service *service.PlacementService
}

// NewPlacementHandler constructs handler.
func NewPlacementHandler(svc *service.PlacementService) *PlacementHandler {
	return &PlacementHandler{service: svc}
}

// Open godoc
// @Summary Open a placement session for a section
// @Tags Placements
// @Produce json
// @Param id path string true "Section ID"
// @Success 201 {object} response.Envelope
// @Router /sections/{id}/placements [post]
func (h *PlacementHandler) Open(c *gin.Context) {
	view := h.service.Open(c.Param("id"))
	response.Created(c, view)
}

// Arm godoc
// @Summary Arm a pending subject for click-to-place
// @Tags Placements
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param payload body service.ArmRequest true "Arm payload"
// @Success 200 {object} response.Envelope
// @Router /placements/{sid}/arm [post]
func (h *PlacementHandler) Arm(c *gin.Context) {
	var req service.ArmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.service.Arm(c.Param("sid"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Target godoc
// @Summary Target a grid cell with the armed subject
// @Tags Placements
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param payload body service.TargetRequest true "Target payload"
// @Success 200 {object} response.Envelope
// @Router /placements/{sid}/target [post]
func (h *PlacementHandler) Target(c *gin.Context) {
	var req service.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Target(c.Request.Context(), c.Param("sid"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Drop godoc
// @Summary Place a subject dropped straight onto a grid cell
// @Tags Placements
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param payload body service.DropRequest true "Drop payload"
// @Success 200 {object} response.Envelope
// @Router /placements/{sid}/drop [post]
func (h *PlacementHandler) Drop(c *gin.Context) {
	var req service.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Drop(c.Request.Context(), c.Param("sid"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Confirm godoc
// @Summary Confirm soft conflict warnings and commit
// @Tags Placements
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /placements/{sid}/confirm [post]
func (h *PlacementHandler) Confirm(c *gin.Context) {
	result, err := h.service.Confirm(c.Request.Context(), c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Decline godoc
// @Summary Decline the pending override and abort the placement
// @Tags Placements
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /placements/{sid}/decline [post]
func (h *PlacementHandler) Decline(c *gin.Context) {
	result, err := h.service.Decline(c.Request.Context(), c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Cancel godoc
// @Summary Cancel a placement session
// @Tags Placements
// @Param sid path string true "Session ID"
// @Success 204
// @Router /placements/{sid} [delete]
func (h *PlacementHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("sid")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Get godoc
// @Summary Inspect a live placement session
// @Tags Placements
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /placements/{sid} [get]
func (h *PlacementHandler) Get(c *gin.Context) {
	view, err := h.service.Session(c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
