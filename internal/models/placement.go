package models

import "time"

// PlacementState is the lifecycle of one interactive placement session.
type PlacementState string

const (
	PlacementIdle             PlacementState = "IDLE"
	PlacementSubjectArmed     PlacementState = "SUBJECT_ARMED"
	PlacementValidating       PlacementState = "VALIDATING"
	PlacementAwaitingOverride PlacementState = "AWAITING_OVERRIDE"
	PlacementCommitting       PlacementState = "COMMITTING"
	PlacementRejected         PlacementState = "REJECTED"
)

// IntentKind tags how a placement was initiated. Both entry points converge
// on the same validation path so they cannot drift in behavior.
type IntentKind string

const (
	IntentArmedClick IntentKind = "ARMED_CLICK"
	IntentDragDrop   IntentKind = "DRAG_DROP"
)

// PlacementIntent is the tagged variant feeding the validating transition:
// either a previously armed subject targeting a cell, or a subject dropped
// directly onto one.
type PlacementIntent struct {
	Kind      IntentKind         `json:"kind"`
	Subject   SubjectRequirement `json:"subject"`
	Day       Day                `json:"day"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
	Room      *string            `json:"room,omitempty"`
	EditSlot  string             `json:"edit_slot_id,omitempty"`
}

// PlacementOutcome records how a placement attempt resolved.
type PlacementOutcome string

const (
	OutcomeCommitted PlacementOutcome = "COMMITTED"
	OutcomeRejected  PlacementOutcome = "REJECTED"
	OutcomeDeclined  PlacementOutcome = "DECLINED"
	OutcomeCancelled PlacementOutcome = "CANCELLED"
	OutcomeFailed    PlacementOutcome = "FAILED"
)

// AuditEntry is one row of the local placement audit log.
type AuditEntry struct {
	ID        string           `db:"id" json:"id"`
	SectionID string           `db:"section_id" json:"section_id"`
	SubjectID string           `db:"subject_id" json:"subject_id"`
	Day       string           `db:"day" json:"day"`
	StartTime string           `db:"start_time" json:"start_time"`
	EndTime   string           `db:"end_time" json:"end_time"`
	Outcome   PlacementOutcome `db:"outcome" json:"outcome"`
	Detail    string           `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
