package client

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockCarers struct {
	known map[uuid.UUID]uuid.UUID // carer id -> agency id
}

func (m *mockCarers) Exists(_ context.Context, agencyID, carerID uuid.UUID) (bool, error) {
	owner, ok := m.known[carerID]
	return ok && owner == agencyID, nil
}

func newTestService(agencyID, carerID uuid.UUID) *Service {
	carers := &mockCarers{known: map[uuid.UUID]uuid.UUID{carerID: agencyID}}
	return NewService(NewClientRepoMem(), carers, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestCreateClient(t *testing.T) {
	agencyID := uuid.New()
	svc := newTestService(agencyID, uuid.New())

	c, err := svc.CreateClient(context.Background(), agencyID, "  Edith Moore  ", strPtr("EM-104"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if c.DisplayName != "Edith Moore" {
		t.Errorf("display_name = %q, want trimmed", c.DisplayName)
	}
	if c.Status != StatusActive {
		t.Errorf("status = %q, want active", c.Status)
	}
	if c.AgencyID != agencyID {
		t.Errorf("agency_id = %s, want %s", c.AgencyID, agencyID)
	}

	got, err := svc.GetClient(context.Background(), agencyID, c.ID)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if got.InternalReference == nil || *got.InternalReference != "EM-104" {
		t.Errorf("internal_reference = %v, want EM-104", got.InternalReference)
	}
}

func TestCreateClient_EmptyNameRejected(t *testing.T) {
	agencyID := uuid.New()
	svc := newTestService(agencyID, uuid.New())

	_, err := svc.CreateClient(context.Background(), agencyID, "   ", nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "display_name" {
		t.Errorf("err = %v, want ValidationError on display_name", err)
	}
}

func TestDeactivateReactivate(t *testing.T) {
	agencyID := uuid.New()
	svc := newTestService(agencyID, uuid.New())

	c, _ := svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)

	got, err := svc.Deactivate(context.Background(), agencyID, c.ID, ReasonMovedProvider, strPtr("family moved to Leeds"))
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if got.Status != StatusInactive {
		t.Errorf("status = %q, want inactive", got.Status)
	}
	if got.DeactivationReason == nil || *got.DeactivationReason != ReasonMovedProvider {
		t.Errorf("reason = %v, want moved_to_another_provider", got.DeactivationReason)
	}
	if got.DeactivatedAt == nil {
		t.Error("deactivated_at should be set")
	}

	active, _ := svc.ActiveExists(context.Background(), agencyID, c.ID)
	if active {
		t.Error("deactivated client must not count as active")
	}

	got, err = svc.Reactivate(context.Background(), agencyID, c.ID)
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if got.Status != StatusActive || got.DeactivationReason != nil || got.DeactivatedAt != nil {
		t.Error("reactivation should clear deactivation details")
	}
}

func TestDeactivate_InvalidReason(t *testing.T) {
	agencyID := uuid.New()
	svc := newTestService(agencyID, uuid.New())

	c, _ := svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)

	_, err := svc.Deactivate(context.Background(), agencyID, c.ID, DeactivationReason("retired"), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "reason" {
		t.Errorf("err = %v, want ValidationError on reason", err)
	}
}

func TestDeactivate_UnknownClient(t *testing.T) {
	agencyID := uuid.New()
	svc := newTestService(agencyID, uuid.New())

	_, err := svc.Deactivate(context.Background(), agencyID, uuid.New(), ReasonDeceased, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAssignCarer(t *testing.T) {
	agencyID := uuid.New()
	carerID := uuid.New()
	svc := newTestService(agencyID, carerID)

	c1, _ := svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	c2, _ := svc.CreateClient(context.Background(), agencyID, "Edith Moore", nil)

	if err := svc.AssignCarer(context.Background(), agencyID, c1.ID, carerID); err != nil {
		t.Fatalf("AssignCarer: %v", err)
	}
	// assigning the same pair twice is a no-op
	if err := svc.AssignCarer(context.Background(), agencyID, c1.ID, carerID); err != nil {
		t.Fatalf("repeat AssignCarer: %v", err)
	}

	clients, err := svc.ListClientsForCarer(context.Background(), agencyID, carerID)
	if err != nil {
		t.Fatalf("ListClientsForCarer: %v", err)
	}
	if len(clients) != 1 || clients[0].ID != c1.ID {
		t.Fatalf("expected only %s assigned, got %d clients", c1.ID, len(clients))
	}
	_ = c2
}

func TestAssignCarer_UnknownCarer(t *testing.T) {
	agencyID := uuid.New()
	svc := newTestService(agencyID, uuid.New())

	c, _ := svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)

	err := svc.AssignCarer(context.Background(), agencyID, c.ID, uuid.New())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "carer_id" {
		t.Errorf("err = %v, want ValidationError on carer_id", err)
	}
}

func TestListClientsForCarer_ExcludesInactive(t *testing.T) {
	agencyID := uuid.New()
	carerID := uuid.New()
	svc := newTestService(agencyID, carerID)

	c, _ := svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	if err := svc.AssignCarer(context.Background(), agencyID, c.ID, carerID); err != nil {
		t.Fatalf("AssignCarer: %v", err)
	}
	if _, err := svc.Deactivate(context.Background(), agencyID, c.ID, ReasonDeceased, nil); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	clients, _ := svc.ListClientsForCarer(context.Background(), agencyID, carerID)
	if len(clients) != 0 {
		t.Errorf("inactive clients must not appear on the carer's list, got %d", len(clients))
	}
}

func TestUnassignCarer(t *testing.T) {
	agencyID := uuid.New()
	carerID := uuid.New()
	svc := newTestService(agencyID, carerID)

	c, _ := svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	if err := svc.AssignCarer(context.Background(), agencyID, c.ID, carerID); err != nil {
		t.Fatalf("AssignCarer: %v", err)
	}
	if err := svc.UnassignCarer(context.Background(), agencyID, c.ID, carerID); err != nil {
		t.Fatalf("UnassignCarer: %v", err)
	}

	clients, _ := svc.ListClientsForCarer(context.Background(), agencyID, carerID)
	if len(clients) != 0 {
		t.Errorf("expected no assigned clients after unassign, got %d", len(clients))
	}
}

func TestClientsScopedToAgency(t *testing.T) {
	agencyA := uuid.New()
	svc := newTestService(agencyA, uuid.New())

	c, _ := svc.CreateClient(context.Background(), agencyA, "Arthur Webb", nil)

	if _, err := svc.GetClient(context.Background(), uuid.New(), c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-agency get err = %v, want ErrNotFound", err)
	}
	_, total, _ := svc.ListClients(context.Background(), uuid.New(), 0, 0)
	if total != 0 {
		t.Errorf("cross-agency list total = %d, want 0", total)
	}
}
