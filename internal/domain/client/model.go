package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a client does not exist for the agency.
	ErrNotFound = errors.New("client not found")

	// ErrNotActive is returned when an operation requires an active client.
	ErrNotActive = errors.New("client is not active")
)

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Status of a client with the agency.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DeactivationReason records why a client left the service.
type DeactivationReason string

const (
	ReasonMovedProvider      DeactivationReason = "moved_to_another_provider"
	ReasonDeceased           DeactivationReason = "deceased"
	ReasonNoLongerReceiving  DeactivationReason = "no_longer_receiving_service"
	ReasonOther              DeactivationReason = "other"
)

func (r DeactivationReason) Valid() bool {
	switch r {
	case ReasonMovedProvider, ReasonDeceased, ReasonNoLongerReceiving, ReasonOther:
		return true
	}
	return false
}

// Client is a person receiving domiciliary care from an agency.
type Client struct {
	ID                 uuid.UUID           `db:"id" json:"id"`
	AgencyID           uuid.UUID           `db:"agency_id" json:"agency_id"`
	DisplayName        string              `db:"display_name" json:"display_name"`
	InternalReference  *string             `db:"internal_reference" json:"internal_reference,omitempty"`
	Status             Status              `db:"status" json:"status"`
	DeactivationReason *DeactivationReason `db:"deactivation_reason" json:"deactivation_reason,omitempty"`
	DeactivationNote   *string             `db:"deactivation_note" json:"deactivation_note,omitempty"`
	DeactivatedAt      *time.Time          `db:"deactivated_at" json:"deactivated_at,omitempty"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
}
