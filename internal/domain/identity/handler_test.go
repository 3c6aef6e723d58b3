package identity

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

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func managerContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, agencyID uuid.UUID) echo.Context {
	ctx := req.Context()
	ctx = context.WithValue(ctx, auth.AgencyIDKey, agencyID)
	ctx = context.WithValue(ctx, auth.UserIDKey, uuid.New().String())
	ctx = context.WithValue(ctx, auth.UserRolesKey, []string{"manager"})
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestHandler_CreateCarer(t *testing.T) {
	h, e := newTestHandler()
	agencyID := uuid.New()

	body := `{"email": "jo@example.com", "full_name": "Jo Higgins"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carers", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)

	if err := h.CreateCarer(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var u User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if u.Status != StatusPending {
		t.Errorf("expected pending status, got %q", u.Status)
	}
}

func TestHandler_CreateCarer_DuplicateEmail(t *testing.T) {
	h, e := newTestHandler()
	agencyID := uuid.New()

	if _, err := h.svc.CreateCarer(context.Background(), agencyID, "jo@example.com", "Jo Higgins"); err != nil {
		t.Fatalf("seeding carer: %v", err)
	}

	body := `{"email": "jo@example.com", "full_name": "Other Jo"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carers", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)

	err := h.CreateCarer(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandler_CreateCarer_BadEmail(t *testing.T) {
	h, e := newTestHandler()

	body := `{"email": "nope", "full_name": "Jo Higgins"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carers", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, uuid.New())

	err := h.CreateCarer(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_ActivateCarer(t *testing.T) {
	h, e := newTestHandler()
	agencyID := uuid.New()

	u, err := h.svc.CreateCarer(context.Background(), agencyID, "jo@example.com", "Jo Higgins")
	if err != nil {
		t.Fatalf("seeding carer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/carers/"+u.ID.String()+"/activate", nil)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)
	c.SetParamNames("id")
	c.SetParamValues(u.ID.String())

	if err := h.ActivateCarer(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out User
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Status != StatusActive {
		t.Errorf("expected active status, got %q", out.Status)
	}
}

func TestHandler_DeactivateCarer_BadReason(t *testing.T) {
	h, e := newTestHandler()
	agencyID := uuid.New()

	u, err := h.svc.CreateCarer(context.Background(), agencyID, "jo@example.com", "Jo Higgins")
	if err != nil {
		t.Fatalf("seeding carer: %v", err)
	}

	body := `{"reason": "retired"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carers/"+u.ID.String()+"/deactivate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)
	c.SetParamNames("id")
	c.SetParamValues(u.ID.String())

	err = h.DeactivateCarer(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_ListCarers_StatusFilter(t *testing.T) {
	h, e := newTestHandler()
	agencyID := uuid.New()

	a, _ := h.svc.CreateCarer(context.Background(), agencyID, "a@example.com", "Alice Adams")
	if _, err := h.svc.CreateCarer(context.Background(), agencyID, "b@example.com", "Bob Brown"); err != nil {
		t.Fatalf("seeding carer: %v", err)
	}
	if _, err := h.svc.ActivateCarer(context.Background(), agencyID, a.ID); err != nil {
		t.Fatalf("activating carer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carers?status=active", nil)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, agencyID)

	if err := h.ListCarers(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []*User `json:"data"`
		Total int     `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].FullName != "Alice Adams" {
		t.Errorf("expected only the active carer, got %+v", resp.Data)
	}
}

func TestHandler_GetCarer_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carers/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := managerContext(e, req, rec, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetCarer(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
