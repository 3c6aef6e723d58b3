package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carewatch/carewatch/internal/domain/scoring"
)

var (
	// ErrNotFound is returned when an alert id does not exist for the agency.
	ErrNotFound = errors.New("alert not found")

	// ErrAlreadyReviewed is returned when reviewing an alert that is no
	// longer open. Review is single-use; there is no reopen.
	ErrAlreadyReviewed = errors.New("alert already reviewed")
)

// ValidationError reports malformed review input. It is returned before any
// state mutation occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ActionTaken is the closed vocabulary of review outcomes.
type ActionTaken string

const (
	ActionMonitor             ActionTaken = "monitor"
	ActionCalledFamily        ActionTaken = "called_family"
	ActionInformedGP          ActionTaken = "informed_gp"
	ActionCommunityNurse      ActionTaken = "community_nurse"
	ActionEmergencyEscalation ActionTaken = "emergency_escalation"
)

// Valid reports whether a is one of the known action codes.
func (a ActionTaken) Valid() bool {
	switch a {
	case ActionMonitor, ActionCalledFamily, ActionInformedGP, ActionCommunityNurse, ActionEmergencyEscalation:
		return true
	}
	return false
}

// Filter selects a subset of an agency's alerts. Filtering never changes
// the sort order.
type Filter string

const (
	FilterUnreviewed Filter = "unreviewed"
	FilterReviewed   Filter = "reviewed"
	FilterAmber      Filter = "amber"
	FilterRed        Filter = "red"
	FilterAll        Filter = "all"
)

// Valid reports whether f is a known filter.
func (f Filter) Valid() bool {
	switch f {
	case FilterUnreviewed, FilterReviewed, FilterAmber, FilterRed, FilterAll:
		return true
	}
	return false
}

// Alert maps to the alert table. Derived from exactly one amber/red visit
// record; its tier is copied at creation time and never recomputed.
type Alert struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	VisitRecordID uuid.UUID    `db:"visit_record_id" json:"visit_record_id"`
	ClientID      uuid.UUID    `db:"client_id" json:"client_id"`
	CarerID       uuid.UUID    `db:"carer_id" json:"carer_id"`
	AgencyID      uuid.UUID    `db:"agency_id" json:"agency_id"`
	Tier          scoring.Tier `db:"tier" json:"tier"`
	IsReviewed    bool         `db:"is_reviewed" json:"is_reviewed"`
	ReviewedBy    *uuid.UUID   `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ActionTaken   *ActionTaken `db:"action_taken" json:"action_taken,omitempty"`
	ManagerNote   *string      `db:"manager_note" json:"manager_note,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}
