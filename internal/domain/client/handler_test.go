package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carewatch/carewatch/internal/platform/auth"
)

func newTestHandler(agencyID, carerID uuid.UUID) (*Handler, *echo.Echo) {
	return NewHandler(newTestService(agencyID, carerID)), echo.New()
}

func managerContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, agencyID uuid.UUID) echo.Context {
	ctx := req.Context()
	ctx = context.WithValue(ctx, auth.AgencyIDKey, agencyID)
	ctx = context.WithValue(ctx, auth.UserIDKey, uuid.New().String())
	ctx = context.WithValue(ctx, auth.UserRolesKey, []string{"manager"})
	return e.NewContext(req.WithContext(ctx), rec)
}

func carerContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, agencyID, carerID uuid.UUID) echo.Context {
	ctx := req.Context()
	ctx = context.WithValue(ctx, auth.AgencyIDKey, agencyID)
	ctx = context.WithValue(ctx, auth.UserIDKey, carerID.String())
	ctx = context.WithValue(ctx, auth.UserRolesKey, []string{"carer"})
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestHandler_CreateClient(t *testing.T) {
	agencyID := uuid.New()
	h, e := newTestHandler(agencyID, uuid.New())

	body := `{"display_name": "Edith Moore", "internal_reference": "EM-104"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)

	if err := h.CreateClient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var cl Client
	if err := json.Unmarshal(rec.Body.Bytes(), &cl); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if cl.Status != StatusActive {
		t.Errorf("expected active status, got %q", cl.Status)
	}
	if cl.InternalReference == nil || *cl.InternalReference != "EM-104" {
		t.Errorf("internal_reference = %v, want EM-104", cl.InternalReference)
	}
}

func TestHandler_CreateClient_EmptyName(t *testing.T) {
	agencyID := uuid.New()
	h, e := newTestHandler(agencyID, uuid.New())

	body := `{"display_name": "   "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)

	err := h.CreateClient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_DeactivateClient(t *testing.T) {
	agencyID := uuid.New()
	h, e := newTestHandler(agencyID, uuid.New())

	cl, err := h.svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	if err != nil {
		t.Fatalf("seeding client: %v", err)
	}

	body := `{"reason": "deceased"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/"+cl.ID.String()+"/deactivate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)
	c.SetParamNames("id")
	c.SetParamValues(cl.ID.String())

	if err := h.DeactivateClient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Client
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Status != StatusInactive {
		t.Errorf("expected inactive status, got %q", out.Status)
	}
}

func TestHandler_DeactivateClient_BadReason(t *testing.T) {
	agencyID := uuid.New()
	h, e := newTestHandler(agencyID, uuid.New())

	cl, err := h.svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	if err != nil {
		t.Fatalf("seeding client: %v", err)
	}

	body := `{"reason": "retired"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/"+cl.ID.String()+"/deactivate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)
	c.SetParamNames("id")
	c.SetParamValues(cl.ID.String())

	err = h.DeactivateClient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_AssignCarer_UnknownCarer(t *testing.T) {
	agencyID := uuid.New()
	h, e := newTestHandler(agencyID, uuid.New())

	cl, err := h.svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	if err != nil {
		t.Fatalf("seeding client: %v", err)
	}

	body := `{"carer_id": "` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients/"+cl.ID.String()+"/carers", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)
	c.SetParamNames("id")
	c.SetParamValues(cl.ID.String())

	err = h.AssignCarer(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_ListAssignedClients(t *testing.T) {
	agencyID := uuid.New()
	carerID := uuid.New()
	h, e := newTestHandler(agencyID, carerID)

	cl, err := h.svc.CreateClient(context.Background(), agencyID, "Arthur Webb", nil)
	if err != nil {
		t.Fatalf("seeding client: %v", err)
	}
	if err := h.svc.AssignCarer(context.Background(), agencyID, cl.ID, carerID); err != nil {
		t.Fatalf("assigning carer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/assigned", nil)
	rec := httptest.NewRecorder()
	c := carerContext(e, req, rec, agencyID, carerID)

	if err := h.ListAssignedClients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out []*Client
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(out) != 1 || out[0].ID != cl.ID {
		t.Fatalf("expected the assigned client, got %+v", out)
	}
}

func TestHandler_GetClient_NotFound(t *testing.T) {
	agencyID := uuid.New()
	h, e := newTestHandler(agencyID, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetClient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_MissingAgencyContext(t *testing.T) {
	h, e := newTestHandler(uuid.New(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListClients(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
