package visit

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// visitRepoMem is an in-memory VisitRepository with the same semantics as
// the Postgres implementation.
type visitRepoMem struct {
	mu     sync.RWMutex
	visits map[uuid.UUID]*VisitRecord
	notes  map[uuid.UUID][]*CorrectionNote
}

// NewVisitRepoMem creates an in-memory VisitRepository.
func NewVisitRepoMem() VisitRepository {
	return &visitRepoMem{
		visits: make(map[uuid.UUID]*VisitRecord),
		notes:  make(map[uuid.UUID][]*CorrectionNote),
	}
}

func copyVisit(v *VisitRecord) *VisitRecord {
	cp := *v
	cp.SymptomIDs = append([]string(nil), v.SymptomIDs...)
	cp.Reasons = append([]string(nil), v.Reasons...)
	cp.CorrectionNotes = nil
	return &cp
}

func (r *visitRepoMem) Create(_ context.Context, v *VisitRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits[v.ID] = copyVisit(v)
	return nil
}

func (r *visitRepoMem) GetByID(_ context.Context, agencyID, id uuid.UUID) (*VisitRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visits[id]
	if !ok || v.AgencyID != agencyID {
		return nil, ErrNotFound
	}
	return copyVisit(v), nil
}

func (r *visitRepoMem) ListByClient(_ context.Context, agencyID, clientID uuid.UUID, limit, offset int) ([]*VisitRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*VisitRecord
	for _, v := range r.visits {
		if v.AgencyID == agencyID && v.ClientID == clientID {
			all = append(all, copyVisit(v))
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

func (r *visitRepoMem) AddCorrectionNote(_ context.Context, agencyID uuid.UUID, n *CorrectionNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visits[n.VisitRecordID]
	if !ok || v.AgencyID != agencyID {
		return ErrNotFound
	}
	cp := *n
	r.notes[n.VisitRecordID] = append(r.notes[n.VisitRecordID], &cp)
	return nil
}

func (r *visitRepoMem) CorrectionNotes(_ context.Context, agencyID, visitID uuid.UUID) ([]*CorrectionNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visits[visitID]
	if !ok || v.AgencyID != agencyID {
		return nil, nil
	}
	var out []*CorrectionNote
	for _, n := range r.notes[visitID] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}
