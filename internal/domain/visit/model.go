package visit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carewatch/carewatch/internal/domain/scoring"
)

var (
	// ErrNotFound is returned when a visit record does not exist for the agency.
	ErrNotFound = errors.New("visit record not found")

	// ErrClientNotFound is returned when the referenced client does not exist
	// or is not active for the agency.
	ErrClientNotFound = errors.New("client not found")

	// ErrCarerNotFound is returned when the referenced carer does not exist
	// for the agency.
	ErrCarerNotFound = errors.New("carer not found")
)

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// VisitRecord is one carer's structured observation of one client at one
// point in time. Append-only after creation: the only permitted mutation is
// attaching correction notes. Score, tier, and reasons are fixed at creation
// and never recomputed.
type VisitRecord struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	ClientID   uuid.UUID      `db:"client_id" json:"client_id"`
	CarerID    uuid.UUID      `db:"carer_id" json:"carer_id"`
	AgencyID   uuid.UUID      `db:"agency_id" json:"agency_id"`
	SymptomIDs []string       `db:"symptom_ids" json:"symptom_ids"`
	Vitals     scoring.Vitals `db:"-" json:"vitals"`
	Note       *string        `db:"note" json:"note,omitempty"`
	Score      int            `db:"score" json:"score"`
	Tier       scoring.Tier   `db:"tier" json:"tier"`
	Reasons    []string       `db:"reasons" json:"reasons"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`

	// CorrectionNotes is populated on single-record reads.
	CorrectionNotes []*CorrectionNote `db:"-" json:"correction_notes,omitempty"`
}

// CorrectionNote is a carer-authored addendum to an already-submitted visit
// record.
type CorrectionNote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	VisitRecordID uuid.UUID `db:"visit_record_id" json:"visit_record_id"`
	CarerID       uuid.UUID `db:"carer_id" json:"carer_id"`
	Note          string    `db:"note" json:"note"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
