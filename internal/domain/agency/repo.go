package agency

import (
	"context"

	"github.com/google/uuid"
)

// AgencyRepository persists agencies.
type AgencyRepository interface {
	Create(ctx context.Context, a *Agency) error
	GetByID(ctx context.Context, id uuid.UUID) (*Agency, error)
}
