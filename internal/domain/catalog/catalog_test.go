package catalog

import "testing"

func TestDefault_SymptomByID(t *testing.T) {
	c := Default()

	s, ok := c.SymptomByID("gc-2")
	if !ok {
		t.Fatal("expected gc-2 to exist")
	}
	if s.Label != "Increased confusion" {
		t.Errorf("unexpected label: %s", s.Label)
	}
	if s.Points != 2 {
		t.Errorf("expected 2 points, got %d", s.Points)
	}
}

func TestDefault_UnknownSymptom(t *testing.T) {
	c := Default()
	if _, ok := c.SymptomByID("nope"); ok {
		t.Error("expected lookup miss for unknown id")
	}
}

func TestDefault_UniqueIDs(t *testing.T) {
	c := Default()
	seen := make(map[string]bool)
	for _, s := range c.Symptoms() {
		if seen[s.ID] {
			t.Errorf("duplicate symptom id: %s", s.ID)
		}
		seen[s.ID] = true
		if s.Points < 0 {
			t.Errorf("symptom %s has negative points", s.ID)
		}
	}
	if len(seen) != 33 {
		t.Errorf("expected 33 symptoms, got %d", len(seen))
	}
}

func TestCategoryBySymptomID(t *testing.T) {
	c := Default()
	cat, ok := c.CategoryBySymptomID("bc-1")
	if !ok {
		t.Fatal("expected category for bc-1")
	}
	if cat.Name != "Breathing & Circulation" {
		t.Errorf("unexpected category: %s", cat.Name)
	}
	if _, ok := c.CategoryBySymptomID("nope"); ok {
		t.Error("expected miss for unknown symptom id")
	}
}
