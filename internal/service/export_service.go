package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/timegrid"
	"github.com/campuskit/section-scheduler/pkg/export"
)

// ExportService renders a section's weekly grid as a printable PDF from the
// hourly summary plan.
type ExportService struct {
	schedules *ScheduleService
	pdf       *export.TimetablePDF
	logger    *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(schedules *ScheduleService, pdf *export.TimetablePDF, logger *zap.Logger) *ExportService {
	if pdf == nil {
		pdf = export.NewTimetablePDF()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{schedules: schedules, pdf: pdf, logger: logger}
}

// TimetablePDF exports the section timetable and suggests a filename.
func (s *ExportService) TimetablePDF(ctx context.Context, sectionID string) ([]byte, string, error) {
	view, err := s.schedules.Summary(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}

	times := make([]string, len(view.Plan.Times))
	for i, t := range view.Plan.Times {
		times[i] = timegrid.Format12Hour(t)
	}

	columns := make([]export.TimetableColumn, 0, len(view.Plan.Days))
	for _, day := range view.Plan.Days {
		col := export.TimetableColumn{
			Title: string(day),
			Cells: make([]export.TimetableCell, len(view.Plan.Times)),
		}
		for i, cell := range view.Plan.Columns[day] {
			switch cell.Kind {
			case models.CellSpanStart:
				col.Cells[i] = export.TimetableCell{Text: cardText(cell.Slot), Span: cell.RowSpan}
			case models.CellContinuation:
				col.Cells[i] = export.TimetableCell{Span: -1}
			default:
				col.Cells[i] = export.TimetableCell{Span: 0}
			}
		}
		columns = append(columns, col)
	}

	title := fmt.Sprintf("Weekly Schedule - %s", sectionID)
	if view.Semester.Name != "" {
		title = fmt.Sprintf("%s (%s)", title, view.Semester.Name)
	}

	payload, err := s.pdf.Render(title, times, columns)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("schedule-%s.pdf", sectionID)
	return payload, filename, nil
}

func cardText(slot *models.Slot) string {
	if slot == nil {
		return ""
	}
	parts := []string{slot.SubjectCode}
	if slot.HasRoom() {
		parts = append(parts, *slot.Room)
	} else {
		parts = append(parts, "TBA")
	}
	return strings.Join(parts, " / ")
}
