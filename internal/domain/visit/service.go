package visit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carewatch/carewatch/internal/domain/scoring"
	"github.com/carewatch/carewatch/internal/platform/db"
)

// RiskScorer computes the score, tier, and reasons for one observation.
type RiskScorer interface {
	Score(selectedSymptomIDs []string, vitals scoring.Vitals) scoring.Result
}

// AlertOpener opens an alert for an elevated visit record. Implemented by
// the alert service.
type AlertOpener interface {
	OpenForVisit(ctx context.Context, visitID, clientID, carerID, agencyID uuid.UUID, tier scoring.Tier) error
}

// ClientSource answers whether a client is active for an agency.
type ClientSource interface {
	ActiveExists(ctx context.Context, agencyID, clientID uuid.UUID) (bool, error)
}

// CarerSource answers whether a carer exists for an agency.
type CarerSource interface {
	Exists(ctx context.Context, agencyID, carerID uuid.UUID) (bool, error)
}

type Service struct {
	repo    VisitRepository
	scorer  RiskScorer
	alerts  AlertOpener
	clients ClientSource
	carers  CarerSource
	tx      db.TxRunner
	logger  zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(repo VisitRepository, scorer RiskScorer, alerts AlertOpener, clients ClientSource, carers CarerSource, tx db.TxRunner, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		scorer:  scorer,
		alerts:  alerts,
		clients: clients,
		carers:  carers,
		tx:      tx,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.New,
	}
}

// Physically plausible bounds for vital-sign readings. Values outside these
// are rejected as entry errors before anything is written.
const (
	minTemperature = 25.0
	maxTemperature = 45.0
	minPulse       = 20
	maxPulse       = 250
	minSystolic    = 50
	maxSystolic    = 260
	minDiastolic   = 30
	maxDiastolic   = 200
	minOxygenSat   = 50
	maxOxygenSat   = 100
	minRespRate    = 4
	maxRespRate    = 60
)

func validateVitals(v scoring.Vitals) *ValidationError {
	if v.Temperature != nil && (*v.Temperature < minTemperature || *v.Temperature > maxTemperature) {
		return &ValidationError{Field: "vitals.temperature", Reason: "outside plausible range"}
	}
	if v.Pulse != nil && (*v.Pulse < minPulse || *v.Pulse > maxPulse) {
		return &ValidationError{Field: "vitals.pulse", Reason: "outside plausible range"}
	}
	if v.SystolicBP != nil && (*v.SystolicBP < minSystolic || *v.SystolicBP > maxSystolic) {
		return &ValidationError{Field: "vitals.systolic_bp", Reason: "outside plausible range"}
	}
	if v.DiastolicBP != nil && (*v.DiastolicBP < minDiastolic || *v.DiastolicBP > maxDiastolic) {
		return &ValidationError{Field: "vitals.diastolic_bp", Reason: "outside plausible range"}
	}
	if v.OxygenSaturation != nil && (*v.OxygenSaturation < minOxygenSat || *v.OxygenSaturation > maxOxygenSat) {
		return &ValidationError{Field: "vitals.oxygen_saturation", Reason: "outside plausible range"}
	}
	if v.RespiratoryRate != nil && (*v.RespiratoryRate < minRespRate || *v.RespiratoryRate > maxRespRate) {
		return &ValidationError{Field: "vitals.respiratory_rate", Reason: "outside plausible range"}
	}
	return nil
}

// RecordVisit scores one observation and persists it. When the tier is
// amber or red an open alert is created for the record inside the same
// transaction; this is the sole alert creation path.
func (s *Service) RecordVisit(ctx context.Context, clientID, carerID, agencyID uuid.UUID, symptomIDs []string, vitals scoring.Vitals, note *string) (*VisitRecord, error) {
	if clientID == uuid.Nil {
		return nil, &ValidationError{Field: "client_id", Reason: "is required"}
	}
	if carerID == uuid.Nil {
		return nil, &ValidationError{Field: "carer_id", Reason: "is required"}
	}
	if agencyID == uuid.Nil {
		return nil, &ValidationError{Field: "agency_id", Reason: "is required"}
	}
	if verr := validateVitals(vitals); verr != nil {
		return nil, verr
	}
	if note != nil && strings.TrimSpace(*note) == "" {
		note = nil
	}

	ok, err := s.clients.ActiveExists(ctx, agencyID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClientNotFound
	}
	ok, err = s.carers.Exists(ctx, agencyID, carerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCarerNotFound
	}

	result := s.scorer.Score(symptomIDs, vitals)

	v := &VisitRecord{
		ID:         s.newID(),
		ClientID:   clientID,
		CarerID:    carerID,
		AgencyID:   agencyID,
		SymptomIDs: symptomIDs,
		Vitals:     vitals,
		Note:       note,
		Score:      result.Score,
		Tier:       result.Tier,
		Reasons:    result.Reasons,
		CreatedAt:  s.now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, v); err != nil {
			return err
		}
		return s.alerts.OpenForVisit(ctx, v.ID, v.ClientID, v.CarerID, v.AgencyID, v.Tier)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("visit_id", v.ID.String()).
		Str("client_id", clientID.String()).
		Int("score", v.Score).
		Str("tier", string(v.Tier)).
		Msg("visit recorded")

	return v, nil
}

// GetVisit returns one visit record with its correction notes.
func (s *Service) GetVisit(ctx context.Context, agencyID, id uuid.UUID) (*VisitRecord, error) {
	v, err := s.repo.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.CorrectionNotes(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	v.CorrectionNotes = notes
	return v, nil
}

// ListVisitsForClient returns a client's visit records, most recent first.
func (s *Service) ListVisitsForClient(ctx context.Context, agencyID, clientID uuid.UUID, limit, offset int) ([]*VisitRecord, int, error) {
	if clientID == uuid.Nil {
		return nil, 0, &ValidationError{Field: "client_id", Reason: "is required"}
	}
	return s.repo.ListByClient(ctx, agencyID, clientID, limit, offset)
}

// AddCorrectionNote appends an addendum to an existing visit record. The
// record's score, tier, and reasons are never touched.
func (s *Service) AddCorrectionNote(ctx context.Context, agencyID, visitID, carerID uuid.UUID, text string) (*CorrectionNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "note", Reason: "is required"}
	}
	if carerID == uuid.Nil {
		return nil, &ValidationError{Field: "carer_id", Reason: "is required"}
	}

	n := &CorrectionNote{
		ID:            s.newID(),
		VisitRecordID: visitID,
		CarerID:       carerID,
		Note:          strings.TrimSpace(text),
		CreatedAt:     s.now(),
	}
	if err := s.repo.AddCorrectionNote(ctx, agencyID, n); err != nil {
		return nil, err
	}
	return n, nil
}
