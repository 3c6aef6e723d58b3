package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AlertRepository is the persistence boundary for alerts. All queries are
// agency-scoped; lists are sorted by creation time descending.
type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, agencyID, id uuid.UUID) (*Alert, error)
	List(ctx context.Context, agencyID uuid.UUID, filter Filter, limit, offset int) ([]*Alert, int, error)
	CountUnreviewed(ctx context.Context, agencyID uuid.UUID) (int, error)

	// MarkReviewed atomically transitions an open alert to reviewed.
	// Returns ErrNotFound if the alert does not exist for the agency and
	// ErrAlreadyReviewed if it is not open. At most one concurrent caller
	// succeeds per alert id.
	MarkReviewed(ctx context.Context, agencyID, id, reviewerID uuid.UUID, action ActionTaken, note *string, at time.Time) error
}
