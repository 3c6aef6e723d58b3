package client

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CarerSource answers whether a carer exists for an agency. Implemented by
// the identity service.
type CarerSource interface {
	Exists(ctx context.Context, agencyID, carerID uuid.UUID) (bool, error)
}

type Service struct {
	repo   ClientRepository
	carers CarerSource
	logger zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(repo ClientRepository, carers CarerSource, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		carers: carers,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
}

// CreateClient registers a new active client with the agency.
func (s *Service) CreateClient(ctx context.Context, agencyID uuid.UUID, displayName string, internalReference *string) (*Client, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, &ValidationError{Field: "display_name", Reason: "is required"}
	}
	if internalReference != nil && strings.TrimSpace(*internalReference) == "" {
		internalReference = nil
	}

	c := &Client{
		ID:                s.newID(),
		AgencyID:          agencyID,
		DisplayName:       displayName,
		InternalReference: internalReference,
		Status:            StatusActive,
		CreatedAt:         s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("client_id", c.ID.String()).Msg("client created")
	return c, nil
}

func (s *Service) GetClient(ctx context.Context, agencyID, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, agencyID, id)
}

func (s *Service) ListClients(ctx context.Context, agencyID uuid.UUID, limit, offset int) ([]*Client, int, error) {
	return s.repo.List(ctx, agencyID, limit, offset)
}

// ActiveExists reports whether the client exists and is active for the
// agency. Used by the visit service before recording an observation.
func (s *Service) ActiveExists(ctx context.Context, agencyID, clientID uuid.UUID) (bool, error) {
	return s.repo.ActiveExists(ctx, agencyID, clientID)
}

// Deactivate marks a client inactive with a documented reason.
func (s *Service) Deactivate(ctx context.Context, agencyID, id uuid.UUID, reason DeactivationReason, note *string) (*Client, error) {
	if !reason.Valid() {
		return nil, &ValidationError{Field: "reason", Reason: "must be one of moved_to_another_provider, deceased, no_longer_receiving_service, other"}
	}
	if note != nil && strings.TrimSpace(*note) == "" {
		note = nil
	}
	at := s.now()
	if err := s.repo.SetStatus(ctx, agencyID, id, StatusInactive, &reason, note, &at); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("client_id", id.String()).
		Str("reason", string(reason)).
		Msg("client deactivated")
	return s.repo.GetByID(ctx, agencyID, id)
}

// Reactivate returns an inactive client to active status and clears the
// deactivation details.
func (s *Service) Reactivate(ctx context.Context, agencyID, id uuid.UUID) (*Client, error) {
	if err := s.repo.SetStatus(ctx, agencyID, id, StatusActive, nil, nil, nil); err != nil {
		return nil, err
	}
	s.logger.Info().Str("client_id", id.String()).Msg("client reactivated")
	return s.repo.GetByID(ctx, agencyID, id)
}

// AssignCarer links a carer to a client so the client appears on the
// carer's visit list.
func (s *Service) AssignCarer(ctx context.Context, agencyID, clientID, carerID uuid.UUID) error {
	ok, err := s.carers.Exists(ctx, agencyID, carerID)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "carer_id", Reason: "unknown carer"}
	}
	return s.repo.Assign(ctx, agencyID, clientID, carerID)
}

func (s *Service) UnassignCarer(ctx context.Context, agencyID, clientID, carerID uuid.UUID) error {
	return s.repo.Unassign(ctx, agencyID, clientID, carerID)
}

// ListClientsForCarer returns the active clients assigned to a carer.
func (s *Service) ListClientsForCarer(ctx context.Context, agencyID, carerID uuid.UUID) ([]*Client, error) {
	return s.repo.ListForCarer(ctx, agencyID, carerID)
}
