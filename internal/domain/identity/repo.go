package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository persists agency users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, agencyID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*User, error)
	List(ctx context.Context, agencyID uuid.UUID, role Role, status Status, limit, offset int) ([]*User, int, error)
	Exists(ctx context.Context, agencyID, id uuid.UUID) (bool, error)

	// SetStatus updates a user's status and deactivation details in one
	// write. reason and at are nil unless deactivating.
	SetStatus(ctx context.Context, agencyID, id uuid.UUID, status Status, reason *DeactivationReason, at *time.Time) error
}
