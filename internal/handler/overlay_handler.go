package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/section-scheduler/internal/service"
	appErrors "github.com/campuskit/section-scheduler/pkg/errors"
	"github.com/campuskit/section-scheduler/pkg/response"
)

// OverlayHandler serves professor busy-cell overlays.
type OverlayHandler struct {
	service *service.OverlayService
}

// NewOverlayHandler constructs handler.
func NewOverlayHandler(svc *service.OverlayService) *OverlayHandler {
	return &OverlayHandler{service: svc}
}

// Get godoc
// @Summary Professor busy cells for a semester
// @Tags Professors
// @Produce json
// @Param id path string true "Professor ID"
// @Param semester query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{id}/overlay [get]
func (h *OverlayHandler) Get(c *gin.Context) {
	semesterID := c.Query("semester")
	if semesterID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester query parameter is required"))
		return
	}
	overlay, err := h.service.Overlay(c.Request.Context(), c.Param("id"), semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overlay)
}
