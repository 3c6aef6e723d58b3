package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_ListSymptoms(t *testing.T) {
	h := NewHandler(Default())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/symptoms", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListSymptoms(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var symptoms []Symptom
	if err := json.Unmarshal(rec.Body.Bytes(), &symptoms); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(symptoms) == 0 {
		t.Fatal("expected symptoms in default catalog")
	}
	for _, s := range symptoms {
		if s.ID == "" || s.Label == "" || s.Points <= 0 {
			t.Errorf("malformed symptom %+v", s)
		}
	}
}

func TestHandler_ListCategories(t *testing.T) {
	h := NewHandler(Default())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListCategories(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var categories []Category
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("expected categories in default catalog")
	}
	for _, cat := range categories {
		if len(cat.Symptoms) == 0 {
			t.Errorf("category %q has no symptoms", cat.ID)
		}
	}
}
