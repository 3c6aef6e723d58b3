package identity

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type userRepoMem struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

// NewUserRepoMem creates an in-memory UserRepository for development and tests.
func NewUserRepoMem() UserRepository {
	return &userRepoMem{users: make(map[uuid.UUID]*User)}
}

func copyUser(u *User) *User {
	out := *u
	return &out
}

func (r *userRepoMem) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.AgencyID == u.AgencyID && strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r *userRepoMem) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.AgencyID != agencyID {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepoMem) GetByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.AgencyID == agencyID && strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *userRepoMem) List(ctx context.Context, agencyID uuid.UUID, role Role, status Status, limit, offset int) ([]*User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*User
	for _, u := range r.users {
		if u.AgencyID != agencyID {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		matched = append(matched, copyUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FullName < matched[j].FullName
	})

	total := len(matched)
	if offset >= total {
		return []*User{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *userRepoMem) Exists(ctx context.Context, agencyID, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return ok && u.AgencyID == agencyID, nil
}

func (r *userRepoMem) SetStatus(ctx context.Context, agencyID, id uuid.UUID, status Status, reason *DeactivationReason, at *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.AgencyID != agencyID {
		return ErrNotFound
	}
	u.Status = status
	u.DeactivationReason = reason
	u.DeactivatedAt = at
	return nil
}
