package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type assignment struct {
	clientID uuid.UUID
	carerID  uuid.UUID
}

// clientRepoMem is an in-memory ClientRepository.
type clientRepoMem struct {
	mu          sync.RWMutex
	clients     map[uuid.UUID]*Client
	assignments map[assignment]bool
}

// NewClientRepoMem creates an in-memory ClientRepository.
func NewClientRepoMem() ClientRepository {
	return &clientRepoMem{
		clients:     make(map[uuid.UUID]*Client),
		assignments: make(map[assignment]bool),
	}
}

func (r *clientRepoMem) Create(_ context.Context, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *clientRepoMem) GetByID(_ context.Context, agencyID, id uuid.UUID) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok || c.AgencyID != agencyID {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *clientRepoMem) List(_ context.Context, agencyID uuid.UUID, limit, offset int) ([]*Client, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Client
	for _, c := range r.clients {
		if c.AgencyID == agencyID {
			cp := *c
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DisplayName < all[j].DisplayName })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *clientRepoMem) ActiveExists(_ context.Context, agencyID, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return ok && c.AgencyID == agencyID && c.Status == StatusActive, nil
}

func (r *clientRepoMem) SetStatus(_ context.Context, agencyID, id uuid.UUID, status Status, reason *DeactivationReason, note *string, at *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok || c.AgencyID != agencyID {
		return ErrNotFound
	}
	c.Status = status
	c.DeactivationReason = reason
	c.DeactivationNote = note
	c.DeactivatedAt = at
	return nil
}

func (r *clientRepoMem) Assign(_ context.Context, agencyID, clientID, carerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok || c.AgencyID != agencyID {
		return ErrNotFound
	}
	r.assignments[assignment{clientID: clientID, carerID: carerID}] = true
	return nil
}

func (r *clientRepoMem) Unassign(_ context.Context, agencyID, clientID, carerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if ok && c.AgencyID == agencyID {
		delete(r.assignments, assignment{clientID: clientID, carerID: carerID})
	}
	return nil
}

func (r *clientRepoMem) ListForCarer(_ context.Context, agencyID, carerID uuid.UUID) ([]*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Client
	for _, c := range r.clients {
		if c.AgencyID != agencyID || c.Status != StatusActive {
			continue
		}
		if r.assignments[assignment{clientID: c.ID, carerID: carerID}] {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}
