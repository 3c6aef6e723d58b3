package alert

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carewatch/carewatch/internal/domain/scoring"
)

// alertRepoMem is an in-memory AlertRepository. Writers hold the lock for
// the whole mutation, so readers always observe a consistent snapshot and
// at most one concurrent review succeeds per alert.
type alertRepoMem struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]*Alert
}

// NewAlertRepoMem creates an in-memory AlertRepository.
func NewAlertRepoMem() AlertRepository {
	return &alertRepoMem{alerts: make(map[uuid.UUID]*Alert)}
}

func (r *alertRepoMem) Create(_ context.Context, a *Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *alertRepoMem) GetByID(_ context.Context, agencyID, id uuid.UUID) (*Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alerts[id]
	if !ok || a.AgencyID != agencyID {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func matches(a *Alert, filter Filter) bool {
	switch filter {
	case FilterUnreviewed:
		return !a.IsReviewed
	case FilterReviewed:
		return a.IsReviewed
	case FilterAmber:
		return a.Tier == scoring.TierAmber
	case FilterRed:
		return a.Tier == scoring.TierRed
	}
	return true
}

func (r *alertRepoMem) List(_ context.Context, agencyID uuid.UUID, filter Filter, limit, offset int) ([]*Alert, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Alert
	for _, a := range r.alerts {
		if a.AgencyID == agencyID && matches(a, filter) {
			cp := *a
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

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

func (r *alertRepoMem) CountUnreviewed(_ context.Context, agencyID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, a := range r.alerts {
		if a.AgencyID == agencyID && !a.IsReviewed {
			n++
		}
	}
	return n, nil
}

func (r *alertRepoMem) MarkReviewed(_ context.Context, agencyID, id, reviewerID uuid.UUID, action ActionTaken, note *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok || a.AgencyID != agencyID {
		return ErrNotFound
	}
	if a.IsReviewed {
		return ErrAlreadyReviewed
	}

	a.IsReviewed = true
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &at
	a.ActionTaken = &action
	a.ManagerNote = note
	return nil
}
