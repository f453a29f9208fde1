// Package tracker partitions a section's subject requirements into pending
// (no slot yet) and scheduled (at least one slot), driving the list the
// user picks subjects from. The partition is recomputed from scratch on
// every registry change.
package tracker

import "github.com/campuskit/section-scheduler/internal/models"

// Partition is the derived pending/scheduled split.
type Partition struct {
	Pending   []models.SubjectRequirement `json:"pending"`
	Scheduled []models.SubjectRequirement `json:"scheduled"`
}

// Compute classifies each requirement by whether any slot references its
// section-subject linkage. An unlinked requirement can never be scheduled.
func Compute(requirements []models.SubjectRequirement, slots []models.Slot) Partition {
	placed := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if slot.SectionSubjectID != "" {
			placed[slot.SectionSubjectID] = struct{}{}
		}
	}

	part := Partition{
		Pending:   []models.SubjectRequirement{},
		Scheduled: []models.SubjectRequirement{},
	}
	for _, req := range requirements {
		if req.Linked() {
			if _, ok := placed[*req.SectionSubjectID]; ok {
				part.Scheduled = append(part.Scheduled, req)
				continue
			}
		}
		part.Pending = append(part.Pending, req)
	}
	return part
}

// IsPlaced reports whether one requirement has at least one slot.
func IsPlaced(req models.SubjectRequirement, slots []models.Slot) bool {
	if !req.Linked() {
		return false
	}
	for _, slot := range slots {
		if slot.SectionSubjectID == *req.SectionSubjectID {
			return true
		}
	}
	return false
}
