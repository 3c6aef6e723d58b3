package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carewatch/carewatch/internal/domain/scoring"
)

type Service struct {
	repo   AlertRepository
	logger zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(repo AlertRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
}

// OpenForVisit opens an unreviewed alert for a visit whose tier warrants
// manager attention. Called by the visit service inside its transaction.
func (s *Service) OpenForVisit(ctx context.Context, visitID, clientID, carerID, agencyID uuid.UUID, tier scoring.Tier) error {
	if !tier.Alerting() {
		return nil
	}
	a := &Alert{
		ID:            s.newID(),
		VisitRecordID: visitID,
		ClientID:      clientID,
		CarerID:       carerID,
		AgencyID:      agencyID,
		Tier:          tier,
		IsReviewed:    false,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.logger.Info().
		Str("alert_id", a.ID.String()).
		Str("visit_id", visitID.String()).
		Str("tier", string(tier)).
		Msg("alert opened")
	return nil
}

func (s *Service) GetAlert(ctx context.Context, agencyID, id uuid.UUID) (*Alert, error) {
	return s.repo.GetByID(ctx, agencyID, id)
}

func (s *Service) ListAlerts(ctx context.Context, agencyID uuid.UUID, filter Filter, limit, offset int) ([]*Alert, int, error) {
	if filter == "" {
		filter = FilterAll
	}
	if !filter.Valid() {
		return nil, 0, &ValidationError{Field: "filter", Reason: "must be one of unreviewed, reviewed, amber, red, all"}
	}
	return s.repo.List(ctx, agencyID, filter, limit, offset)
}

func (s *Service) CountUnreviewed(ctx context.Context, agencyID uuid.UUID) (int, error) {
	return s.repo.CountUnreviewed(ctx, agencyID)
}

// ReviewAlert marks an alert as reviewed by a manager. An alert can be
// reviewed exactly once; a second attempt returns ErrAlreadyReviewed.
func (s *Service) ReviewAlert(ctx context.Context, agencyID, id, reviewerID uuid.UUID, action ActionTaken, note *string) (*Alert, error) {
	if reviewerID == uuid.Nil {
		return nil, &ValidationError{Field: "reviewer_id", Reason: "is required"}
	}
	if !action.Valid() {
		return nil, &ValidationError{Field: "action_taken", Reason: "must be one of monitor, called_family, informed_gp, community_nurse, emergency_escalation"}
	}
	if note != nil && *note == "" {
		note = nil
	}

	if err := s.repo.MarkReviewed(ctx, agencyID, id, reviewerID, action, note, s.now()); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("alert_id", id.String()).
		Str("reviewed_by", reviewerID.String()).
		Str("action_taken", string(action)).
		Msg("alert reviewed")

	return s.repo.GetByID(ctx, agencyID, id)
}
