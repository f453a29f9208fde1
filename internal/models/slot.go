package models

// Slot is one placed teaching assignment: a subject occupying a day/time for
// a section, optionally bound to a professor and room. An empty ID marks a
// proposed slot that has not been saved by the registrar backend yet.
type Slot struct {
	ID               string  `json:"id,omitempty"`
	SectionSubjectID string  `json:"section_subject_id"`
	SubjectID        string  `json:"subject_id,omitempty"`
	SubjectCode      string  `json:"subject_code,omitempty"`
	Day              Day     `json:"day"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	ProfessorID      *string `json:"professor_id,omitempty"`
	ProfessorName    string  `json:"professor_name,omitempty"`
	Room             *string `json:"room,omitempty"`
}

// Saved reports whether the registrar backend has assigned the slot an id.
func (s Slot) Saved() bool {
	return s.ID != ""
}

// HasProfessor reports whether a professor is assigned (not TBA).
func (s Slot) HasProfessor() bool {
	return s.ProfessorID != nil && *s.ProfessorID != ""
}

// HasRoom reports whether a room is assigned (not TBA).
func (s Slot) HasRoom() bool {
	return s.Room != nil && *s.Room != ""
}

// SlotPatch carries a partial slot edit. Nil fields are left untouched.
type SlotPatch struct {
	Day         *Day    `json:"day,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	ProfessorID *string `json:"professor_id,omitempty"`
	Room        *string `json:"room,omitempty"`
}
