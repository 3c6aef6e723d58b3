package scoring

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carewatch/carewatch/internal/domain/catalog"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

// testCatalog gives point-controlled symptoms: one-point (p1-a, p1-b),
// two-point (p2-a, p2-b).
func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Category{
		{
			ID:   "test",
			Name: "Test",
			Symptoms: []catalog.Symptom{
				{ID: "p1-a", Label: "One point A", Points: 1},
				{ID: "p1-b", Label: "One point B", Points: 1},
				{ID: "p2-a", Label: "Two points A", Points: 2},
				{ID: "p2-b", Label: "Two points B", Points: 2},
			},
		},
	})
}

func newTestScorer() *Scorer {
	return NewScorer(testCatalog(), zerolog.Nop())
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer()
	ids := []string{"p2-a", "p1-a"}
	vitals := Vitals{Temperature: fp(38.5), Pulse: ip(110)}

	first := s.Score(ids, vitals)
	for i := 0; i < 5; i++ {
		if got := s.Score(ids, vitals); !reflect.DeepEqual(got, first) {
			t.Fatalf("call %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestScore_TierBoundaries(t *testing.T) {
	s := newTestScorer()
	cases := []struct {
		name string
		ids  []string
		want Tier
	}{
		{"score 0", nil, TierGreen},
		{"score 2", []string{"p2-a"}, TierGreen},
		{"score 3", []string{"p2-a", "p1-a"}, TierAmber},
		{"score 4", []string{"p2-a", "p2-b"}, TierAmber},
		{"score 5", []string{"p2-a", "p2-b", "p1-a"}, TierRed},
		{"score 6", []string{"p2-a", "p2-b", "p1-a", "p1-b"}, TierRed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Score(tc.ids, Vitals{})
			if got.Tier != tc.want {
				t.Errorf("tier = %s, want %s (score %d)", got.Tier, tc.want, got.Score)
			}
		})
	}
}

func TestScore_UnknownSymptomIgnored(t *testing.T) {
	s := newTestScorer()
	got := s.Score([]string{"p1-a", "stale-id", "p1-b"}, Vitals{})
	if got.Score != 2 {
		t.Errorf("score = %d, want 2", got.Score)
	}
	want := []string{"One point A", "One point B"}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Errorf("reasons = %v, want %v", got.Reasons, want)
	}
}

func TestScore_TemperatureBands(t *testing.T) {
	s := newTestScorer()
	cases := []struct {
		temp       float64
		wantScore  int
		wantReason string
	}{
		{37.0, 0, ""},
		{38.0, 2, "High temperature (38°C)"},
		{38.5, 2, "High temperature (38.5°C)"},
		{36.0, 0, ""},
		{35.5, 1, "Low temperature (35.5°C)"},
	}
	for _, tc := range cases {
		got := s.Score(nil, Vitals{Temperature: fp(tc.temp)})
		if got.Score != tc.wantScore {
			t.Errorf("temp %.1f: score = %d, want %d", tc.temp, got.Score, tc.wantScore)
		}
		if tc.wantReason == "" {
			if len(got.Reasons) != 0 {
				t.Errorf("temp %.1f: unexpected reasons %v", tc.temp, got.Reasons)
			}
		} else if len(got.Reasons) != 1 || got.Reasons[0] != tc.wantReason {
			t.Errorf("temp %.1f: reasons = %v, want [%s]", tc.temp, got.Reasons, tc.wantReason)
		}
	}
}

func TestScore_Pulse(t *testing.T) {
	s := newTestScorer()
	for _, tc := range []struct {
		pulse int
		want  int
	}{{96, 0}, {100, 0}, {101, 1}, {50, 0}, {49, 1}} {
		got := s.Score(nil, Vitals{Pulse: ip(tc.pulse)})
		if got.Score != tc.want {
			t.Errorf("pulse %d: score = %d, want %d", tc.pulse, got.Score, tc.want)
		}
	}
}

func TestScore_OxygenSaturation(t *testing.T) {
	s := newTestScorer()
	if got := s.Score(nil, Vitals{OxygenSaturation: ip(95)}); got.Score != 0 {
		t.Errorf("spo2 95: score = %d, want 0", got.Score)
	}
	got := s.Score(nil, Vitals{OxygenSaturation: ip(94)})
	if got.Score != 2 {
		t.Errorf("spo2 94: score = %d, want 2", got.Score)
	}
	if got.Reasons[0] != "Low oxygen saturation (94%)" {
		t.Errorf("unexpected reason: %s", got.Reasons[0])
	}
}

func TestScore_RespiratoryRate(t *testing.T) {
	s := newTestScorer()
	for _, tc := range []struct {
		rate int
		want int
	}{{16, 0}, {20, 0}, {21, 1}, {12, 0}, {11, 1}} {
		got := s.Score(nil, Vitals{RespiratoryRate: ip(tc.rate)})
		if got.Score != tc.want {
			t.Errorf("resp %d: score = %d, want %d", tc.rate, got.Score, tc.want)
		}
	}
}

func TestScore_BloodPressureRequiresBothReadings(t *testing.T) {
	s := newTestScorer()

	if got := s.Score(nil, Vitals{SystolicBP: ip(150)}); got.Score != 0 {
		t.Errorf("systolic alone: score = %d, want 0", got.Score)
	}
	if got := s.Score(nil, Vitals{DiastolicBP: ip(110)}); got.Score != 0 {
		t.Errorf("diastolic alone: score = %d, want 0", got.Score)
	}

	got := s.Score(nil, Vitals{SystolicBP: ip(150), DiastolicBP: ip(80)})
	if got.Score != 1 {
		t.Errorf("150/80: score = %d, want 1", got.Score)
	}
	if got.Reasons[0] != "Abnormal blood pressure (150/80)" {
		t.Errorf("unexpected reason: %s", got.Reasons[0])
	}

	if got := s.Score(nil, Vitals{SystolicBP: ip(120), DiastolicBP: ip(80)}); got.Score != 0 {
		t.Errorf("120/80: score = %d, want 0", got.Score)
	}
	if got := s.Score(nil, Vitals{SystolicBP: ip(89), DiastolicBP: ip(60)}); got.Score != 1 {
		t.Errorf("89/60: score = %d, want 1", got.Score)
	}
}

func TestScore_ReasonOrdering(t *testing.T) {
	s := newTestScorer()
	got := s.Score([]string{"p2-b", "p1-a"}, Vitals{
		Temperature:      fp(38.5),
		Pulse:            ip(110),
		OxygenSaturation: ip(90),
		RespiratoryRate:  ip(24),
		SystolicBP:       ip(150),
		DiastolicBP:      ip(90),
	})
	want := []string{
		"Two points B",
		"One point A",
		"High temperature (38.5°C)",
		"Abnormal pulse (110 bpm)",
		"Low oxygen saturation (90%)",
		"Abnormal respiratory rate (24/min)",
		"Abnormal blood pressure (150/90)",
	}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Errorf("reasons = %v, want %v", got.Reasons, want)
	}
}

func TestScore_EndToEndScenarios(t *testing.T) {
	s := newTestScorer()

	// Two 2-point symptoms, temp 38.5 (+2), pulse 96 (normal) -> 6, red.
	got := s.Score([]string{"p2-a", "p2-b"}, Vitals{Temperature: fp(38.5), Pulse: ip(96)})
	if got.Score != 6 || got.Tier != TierRed {
		t.Errorf("scenario A: got score %d tier %s, want 6 red", got.Score, got.Tier)
	}

	// No symptoms, normal vitals -> 0, green.
	got = s.Score(nil, Vitals{Temperature: fp(37.0), Pulse: ip(70)})
	if got.Score != 0 || got.Tier != TierGreen {
		t.Errorf("scenario B: got score %d tier %s, want 0 green", got.Score, got.Tier)
	}

	// One 1-point symptom, spo2 94 (+2) -> 3, amber.
	got = s.Score([]string{"p1-a"}, Vitals{OxygenSaturation: ip(94)})
	if got.Score != 3 || got.Tier != TierAmber {
		t.Errorf("scenario C: got score %d tier %s, want 3 amber", got.Score, got.Tier)
	}
}

func TestScore_DefaultCatalog(t *testing.T) {
	s := NewScorer(catalog.Default(), zerolog.Nop())
	got := s.Score([]string{"gc-2", "is-1"}, Vitals{})
	if got.Score != 4 || got.Tier != TierAmber {
		t.Errorf("got score %d tier %s, want 4 amber", got.Score, got.Tier)
	}
	want := []string{"Increased confusion", "Feverish / hot to touch"}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Errorf("reasons = %v, want %v", got.Reasons, want)
	}
}
