package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a user does not exist for the agency.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when a user with the same email already
	// exists for the agency.
	ErrEmailTaken = errors.New("email already in use")
)

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Role is a closed enum; role checks branch on it exhaustively rather than
// on free-form strings.
type Role string

const (
	RoleManager       Role = "manager"
	RoleCarer         Role = "carer"
	RolePlatformAdmin Role = "platform_admin"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleCarer || r == RolePlatformAdmin
}

// Status of a user account. New carers start pending until a manager
// activates them.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// DeactivationReason records why a carer was deactivated.
type DeactivationReason string

const (
	ReasonLeftOrganisation DeactivationReason = "left_organisation"
	ReasonLongTermLeave    DeactivationReason = "on_long_term_leave"
	ReasonInternalDecision DeactivationReason = "internal_decision"
)

func (r DeactivationReason) Valid() bool {
	switch r {
	case ReasonLeftOrganisation, ReasonLongTermLeave, ReasonInternalDecision:
		return true
	}
	return false
}

// User is a manager or carer belonging to an agency.
type User struct {
	ID                 uuid.UUID           `db:"id" json:"id"`
	AgencyID           uuid.UUID           `db:"agency_id" json:"agency_id"`
	Email              string              `db:"email" json:"email"`
	FullName           string              `db:"full_name" json:"full_name"`
	Role               Role                `db:"role" json:"role"`
	Status             Status              `db:"status" json:"status"`
	DeactivationReason *DeactivationReason `db:"deactivation_reason" json:"deactivation_reason,omitempty"`
	DeactivatedAt      *time.Time          `db:"deactivated_at" json:"deactivated_at,omitempty"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
}
