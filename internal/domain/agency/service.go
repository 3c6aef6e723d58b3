package agency

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carewatch/carewatch/internal/domain/identity"
	"github.com/carewatch/carewatch/internal/platform/db"
)

// ManagerCreator provisions the founding manager account during agency
// registration. Implemented by identity.Service.
type ManagerCreator interface {
	CreateManager(ctx context.Context, agencyID uuid.UUID, email, fullName string) (*identity.User, error)
}

// Service handles agency registration and lookup.
type Service struct {
	repo     AgencyRepository
	managers ManagerCreator
	tx       db.TxRunner
	logger   zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(repo AgencyRepository, managers ManagerCreator, tx db.TxRunner, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		managers: managers,
		tx:       tx,
		logger:   logger.With().Str("component", "agency").Logger(),
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Registration is the result of registering a new agency: the agency itself
// plus its founding manager account.
type Registration struct {
	Agency  *Agency        `json:"agency"`
	Manager *identity.User `json:"manager"`
}

// Register creates a new agency together with its first manager. Both writes
// happen in one transaction; a failure provisioning the manager rolls back
// the agency.
func (s *Service) Register(ctx context.Context, name, managerEmail, managerName string) (*Registration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	a := &Agency{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}

	var mgr *identity.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		var err error
		mgr, err = s.managers.CreateManager(ctx, a.ID, managerEmail, managerName)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("agency_id", a.ID.String()).
		Str("manager_id", mgr.ID.String()).
		Msg("agency registered")
	return &Registration{Agency: a, Manager: mgr}, nil
}

func (s *Service) GetAgency(ctx context.Context, id uuid.UUID) (*Agency, error) {
	return s.repo.GetByID(ctx, id)
}
