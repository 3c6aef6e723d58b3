package visit

import (
	"context"

	"github.com/google/uuid"
)

// VisitRepository persists visit records and their correction notes.
type VisitRepository interface {
	Create(ctx context.Context, v *VisitRecord) error
	GetByID(ctx context.Context, agencyID, id uuid.UUID) (*VisitRecord, error)
	ListByClient(ctx context.Context, agencyID, clientID uuid.UUID, limit, offset int) ([]*VisitRecord, int, error)

	// AddCorrectionNote appends a note to an existing visit record owned by
	// the agency. Returns ErrNotFound when the record does not exist.
	AddCorrectionNote(ctx context.Context, agencyID uuid.UUID, n *CorrectionNote) error
	CorrectionNotes(ctx context.Context, agencyID, visitID uuid.UUID) ([]*CorrectionNote, error)
}
