package identity

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service implements user account management for an agency. Carers join in a
// pending state and only count as workforce once a manager activates them.
type Service struct {
	repo   UserRepository
	logger zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(repo UserRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "identity").Logger(),
		now:    time.Now,
		newID:  uuid.New,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return email, nil
}

func (s *Service) create(ctx context.Context, agencyID uuid.UUID, email, fullName string, role Role, status Status) (*User, error) {
	if agencyID == uuid.Nil {
		return nil, &ValidationError{Field: "agency_id", Reason: "must be set"}
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Reason: "must not be empty"}
	}

	u := &User{
		ID:        s.newID(),
		AgencyID:  agencyID,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		Status:    status,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", u.ID.String()).
		Str("agency_id", agencyID.String()).
		Str("role", string(role)).
		Str("status", string(status)).
		Msg("user created")
	return u, nil
}

// CreateCarer registers a carer account in the pending state. The carer
// cannot record visits until a manager activates them.
func (s *Service) CreateCarer(ctx context.Context, agencyID uuid.UUID, email, fullName string) (*User, error) {
	return s.create(ctx, agencyID, email, fullName, RoleCarer, StatusPending)
}

// CreateManager registers an active manager account. Used during agency
// registration for the founding manager.
func (s *Service) CreateManager(ctx context.Context, agencyID uuid.UUID, email, fullName string) (*User, error) {
	return s.create(ctx, agencyID, email, fullName, RoleManager, StatusActive)
}

func (s *Service) GetUser(ctx context.Context, agencyID, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, agencyID, id)
}

// ListCarers returns the agency's carers, optionally filtered by status.
// An empty status returns carers in every state.
func (s *Service) ListCarers(ctx context.Context, agencyID uuid.UUID, status Status, limit, offset int) ([]*User, int, error) {
	if status != "" && status != StatusActive && status != StatusInactive && status != StatusPending {
		return nil, 0, &ValidationError{Field: "status", Reason: "unknown status"}
	}
	return s.repo.List(ctx, agencyID, RoleCarer, status, limit, offset)
}

// ActivateCarer moves a pending or deactivated carer into the active state
// and clears any previous deactivation details.
func (s *Service) ActivateCarer(ctx context.Context, agencyID, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleCarer {
		return nil, ErrNotFound
	}
	if err := s.repo.SetStatus(ctx, agencyID, id, StatusActive, nil, nil); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id.String()).Msg("carer activated")
	return s.repo.GetByID(ctx, agencyID, id)
}

// DeactivateCarer marks a carer inactive with the given reason. Deactivated
// carers keep their history but no longer appear in assignment lists.
func (s *Service) DeactivateCarer(ctx context.Context, agencyID, id uuid.UUID, reason DeactivationReason) (*User, error) {
	if !reason.Valid() {
		return nil, &ValidationError{Field: "reason", Reason: "unknown deactivation reason"}
	}
	u, err := s.repo.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleCarer {
		return nil, ErrNotFound
	}
	at := s.now().UTC()
	if err := s.repo.SetStatus(ctx, agencyID, id, StatusInactive, &reason, &at); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", id.String()).
		Str("reason", string(reason)).
		Msg("carer deactivated")
	return s.repo.GetByID(ctx, agencyID, id)
}

// Exists reports whether the user is an active carer of the agency. It backs
// the carer checks in the visit and client services.
func (s *Service) Exists(ctx context.Context, agencyID, id uuid.UUID) (bool, error) {
	u, err := s.repo.GetByID(ctx, agencyID, id)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return u.Role == RoleCarer && u.Status == StatusActive, nil
}
