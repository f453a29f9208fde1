package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// TimetableCell is one grid coordinate of a printable timetable. Span >= 1
// draws a card covering that many rows, 0 draws an empty cell and -1 marks
// a continuation already covered by an earlier card.
type TimetableCell struct {
	Text string
	Span int
}

// TimetableColumn is one weekday column.
type TimetableColumn struct {
	Title string
	Cells []TimetableCell
}

// TimetablePDF renders a weekly grid with merged multi-row cards.
type TimetablePDF struct{}

// NewTimetablePDF constructs a timetable exporter.
func NewTimetablePDF() *TimetablePDF {
	return &TimetablePDF{}
}

// Render creates a landscape PDF of the timetable.
func (e *TimetablePDF) Render(title string, times []string, columns []TimetableColumn) ([]byte, error) {
	if len(times) == 0 || len(columns) == 0 {
		return nil, fmt.Errorf("timetable requires times and columns")
	}
	for _, col := range columns {
		if len(col.Cells) != len(times) {
			return nil, fmt.Errorf("column %s has %d cells, want %d", col.Title, len(col.Cells), len(times))
		}
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	pageW, _ := pdf.GetPageSize()
	left := 10.0
	usable := pageW - 20
	timeW := 24.0
	colW := (usable - timeW) / float64(len(columns))

	headerH := 7.0
	rowH := 6.0
	if float64(len(times))*rowH > 180 {
		rowH = 180 / float64(len(times))
	}

	top := pdf.GetY()
	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(left, top)
	pdf.CellFormat(timeW, headerH, "Time", "1", 0, "C", false, 0, "")
	for _, col := range columns {
		pdf.CellFormat(colW, headerH, col.Title, "1", 0, "C", false, 0, "")
	}

	gridTop := top + headerH
	pdf.SetFont("Arial", "", 8)
	for i, t := range times {
		rowY := gridTop + float64(i)*rowH
		pdf.SetXY(left, rowY)
		pdf.CellFormat(timeW, rowH, t, "1", 0, "C", false, 0, "")

		for c, col := range columns {
			x := left + timeW + float64(c)*colW
			cell := col.Cells[i]
			switch {
			case cell.Span >= 1:
				h := rowH * float64(cell.Span)
				pdf.Rect(x, rowY, colW, h, "D")
				pdf.SetXY(x, rowY+h/2-2.5)
				pdf.CellFormat(colW, 5, cell.Text, "", 0, "C", false, 0, "")
			case cell.Span == 0:
				pdf.SetXY(x, rowY)
				pdf.CellFormat(colW, rowH, "", "1", 0, "", false, 0, "")
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render timetable pdf: %w", err)
	}
	return buf.Bytes(), nil
}
