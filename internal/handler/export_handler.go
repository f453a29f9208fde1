package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/section-scheduler/internal/service"
	"github.com/campuskit/section-scheduler/pkg/response"
)

// ExportHandler serves the printable timetable.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Timetable godoc
// @Summary Download a section's weekly schedule as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param id path string true "Section ID"
// @Success 200 {file} binary
// @Router /sections/{id}/schedule/export [get]
func (h *ExportHandler) Timetable(c *gin.Context) {
	payload, filename, err := h.service.TimetablePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
