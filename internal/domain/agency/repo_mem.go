package agency

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type agencyRepoMem struct {
	mu       sync.RWMutex
	agencies map[uuid.UUID]*Agency
}

// NewAgencyRepoMem creates an in-memory AgencyRepository for development and
// tests.
func NewAgencyRepoMem() AgencyRepository {
	return &agencyRepoMem{agencies: make(map[uuid.UUID]*Agency)}
}

func (r *agencyRepoMem) Create(ctx context.Context, a *Agency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *a
	r.agencies[a.ID] = &copied
	return nil
}

func (r *agencyRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agencies[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}
