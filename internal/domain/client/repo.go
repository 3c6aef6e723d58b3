package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClientRepository persists clients and their carer assignments.
type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, agencyID, id uuid.UUID) (*Client, error)
	List(ctx context.Context, agencyID uuid.UUID, limit, offset int) ([]*Client, int, error)
	ActiveExists(ctx context.Context, agencyID, id uuid.UUID) (bool, error)

	// SetStatus updates a client's status and deactivation details in one
	// write. reason, note, and at are nil on reactivation.
	SetStatus(ctx context.Context, agencyID, id uuid.UUID, status Status, reason *DeactivationReason, note *string, at *time.Time) error

	// Assign and Unassign maintain the carer-to-client assignment set.
	// Assign is idempotent for an existing pair.
	Assign(ctx context.Context, agencyID, clientID, carerID uuid.UUID) error
	Unassign(ctx context.Context, agencyID, clientID, carerID uuid.UUID) error
	ListForCarer(ctx context.Context, agencyID, carerID uuid.UUID) ([]*Client, error)
}
