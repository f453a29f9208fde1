package models

// SubjectType distinguishes lecture and laboratory loads.
type SubjectType string

const (
	SubjectLecture SubjectType = "LECTURE"
	SubjectLab     SubjectType = "LAB"
)

// SubjectRequirement is one subject a section must eventually have a slot
// for. SectionSubjectID stays nil until the registrar backend materialises
// the section-subject-professor linkage, which happens lazily on first
// scheduling rather than at section creation.
type SubjectRequirement struct {
	SubjectID        string      `json:"subject_id"`
	SubjectCode      string      `json:"subject_code"`
	SubjectTitle     string      `json:"subject_title"`
	Units            int         `json:"units"`
	SubjectType      SubjectType `json:"subject_type"`
	SectionSubjectID *string     `json:"section_subject_id,omitempty"`
	ProfessorID      *string     `json:"professor_id,omitempty"`
	ProfessorName    string      `json:"professor_name,omitempty"`
	ScheduleSlots    []Slot      `json:"schedule_slots,omitempty"`
}

// Linked reports whether the section-subject linkage exists.
func (r SubjectRequirement) Linked() bool {
	return r.SectionSubjectID != nil && *r.SectionSubjectID != ""
}

// SemesterInfo identifies the academic term a section schedule belongs to.
type SemesterInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SchoolYear string `json:"school_year"`
}

// SectionSchedule is the registrar backend's view of one section: its
// subject requirements with any nested slots, plus term metadata.
type SectionSchedule struct {
	SectionID string               `json:"section_id"`
	Subjects  []SubjectRequirement `json:"subjects"`
	Semester  SemesterInfo         `json:"semester_info"`
}
