package models

// CellKind classifies a grid coordinate in a render plan.
type CellKind string

const (
	// CellEmpty renders an open cell.
	CellEmpty CellKind = "EMPTY"
	// CellSpanStart renders the slot card with a row span.
	CellSpanStart CellKind = "SPAN_START"
	// CellContinuation is covered by an earlier span start and is skipped.
	CellContinuation CellKind = "CONTINUATION"
)

// Cell is one (day, bucket) coordinate of a render plan.
type Cell struct {
	Day     Day      `json:"day"`
	Bucket  int      `json:"bucket"`
	Time    string   `json:"time"`
	Kind    CellKind `json:"kind"`
	RowSpan int      `json:"row_span,omitempty"`
	Slot    *Slot    `json:"slot,omitempty"`
}

// RenderPlan is the derived weekly grid: for each visible day, one cell per
// time bucket in ascending order.
type RenderPlan struct {
	Days    []Day          `json:"days"`
	Times   []string       `json:"times"`
	Columns map[Day][]Cell `json:"columns"`
}

// BusyCell marks a professor commitment painted as an overlay during drag
// interactions.
type BusyCell struct {
	Day       Day    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label,omitempty"`
}

// ProfessorOverlay is a professor's existing commitments for a semester.
type ProfessorOverlay struct {
	ProfessorID string     `json:"professor_id"`
	SemesterID  string     `json:"semester_id"`
	BusyCells   []BusyCell `json:"busy_cells"`
}
