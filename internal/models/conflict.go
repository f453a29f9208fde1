package models

// ConflictDimension is one of the three independent overlap axes.
type ConflictDimension string

const (
	DimensionSection   ConflictDimension = "SECTION"
	DimensionProfessor ConflictDimension = "PROFESSOR"
	DimensionRoom      ConflictDimension = "ROOM"
)

// ConflictResult is the outcome of one conflict check round trip.
// Verified is false when the check could not be completed (transport
// failure) and the outcome is a conservative guess rather than an answer.
type ConflictResult struct {
	Dimension   ConflictDimension `json:"dimension"`
	HasConflict bool              `json:"has_conflict"`
	Conflict    string            `json:"conflict,omitempty"`
	Verified    bool              `json:"verified"`
}

// ConflictWarning is a soft conflict the user may override.
type ConflictWarning struct {
	Dimension ConflictDimension `json:"dimension"`
	Detail    string            `json:"detail"`
	Verified  bool              `json:"verified"`
}
