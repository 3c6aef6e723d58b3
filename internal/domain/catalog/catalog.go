// Package catalog holds the symptom reference data used by the risk scorer.
// The catalog is defined once at process start and never mutated.
package catalog

// Catalog is an immutable, indexed set of symptom categories. Safe for
// concurrent reads.
type Catalog struct {
	categories []Category
	byID       map[string]Symptom
}

// New builds a Catalog from the given categories.
func New(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byID:       make(map[string]Symptom),
	}
	for _, cat := range categories {
		for _, s := range cat.Symptoms {
			c.byID[s.ID] = s
		}
	}
	return c
}

// SymptomByID looks up a symptom by its stable id.
func (c *Catalog) SymptomByID(id string) (Symptom, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Categories returns the categories in definition order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Symptoms returns all symptoms flattened in definition order.
func (c *Catalog) Symptoms() []Symptom {
	var out []Symptom
	for _, cat := range c.categories {
		out = append(out, cat.Symptoms...)
	}
	return out
}

// CategoryBySymptomID returns the category containing the given symptom id.
func (c *Catalog) CategoryBySymptomID(symptomID string) (Category, bool) {
	for _, cat := range c.categories {
		for _, s := range cat.Symptoms {
			if s.ID == symptomID {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// Default returns the built-in domiciliary care symptom catalog.
func Default() *Catalog {
	return New([]Category{
		{
			ID:   "general-condition",
			Name: "General Condition",
			Symptoms: []Symptom{
				{ID: "gc-1", Label: "Client not themselves / unusual behaviour", Points: 1},
				{ID: "gc-2", Label: "Increased confusion", Points: 2},
				{ID: "gc-3", Label: "Reduced alertness / drowsy", Points: 2},
				{ID: "gc-4", Label: "Agitation or restlessness", Points: 1},
				{ID: "gc-5", Label: "Appears weaker than usual", Points: 1},
			},
		},
		{
			ID:   "eating-drinking",
			Name: "Eating & Drinking",
			Symptoms: []Symptom{
				{ID: "ed-1", Label: "Reduced food intake", Points: 1},
				{ID: "ed-2", Label: "Reduced fluid intake", Points: 1},
				{ID: "ed-3", Label: "Refusing meals", Points: 2},
				{ID: "ed-4", Label: "Difficulty swallowing", Points: 2},
			},
		},
		{
			ID:   "mobility-falls",
			Name: "Mobility & Falls",
			Symptoms: []Symptom{
				{ID: "mf-1", Label: "Reduced mobility", Points: 1},
				{ID: "mf-2", Label: "Unsteady on feet", Points: 1},
				{ID: "mf-3", Label: "Recent fall", Points: 2},
				{ID: "mf-4", Label: "New difficulty transferring (bed/chair)", Points: 1},
			},
		},
		{
			ID:   "breathing-circulation",
			Name: "Breathing & Circulation",
			Symptoms: []Symptom{
				{ID: "bc-1", Label: "Shortness of breath", Points: 2},
				{ID: "bc-2", Label: "Cough", Points: 1},
				{ID: "bc-3", Label: "Chest discomfort", Points: 2},
				{ID: "bc-4", Label: "Cold or clammy skin", Points: 2},
			},
		},
		{
			ID:   "pain-discomfort",
			Name: "Pain & Discomfort",
			Symptoms: []Symptom{
				{ID: "pd-1", Label: "Complaining of pain", Points: 1},
				{ID: "pd-2", Label: "Appears in pain", Points: 1},
				{ID: "pd-3", Label: "New or worsening pain", Points: 2},
			},
		},
		{
			ID:   "infection-signs",
			Name: "Infection Signs",
			Symptoms: []Symptom{
				{ID: "is-1", Label: "Feverish / hot to touch", Points: 2},
				{ID: "is-2", Label: "Shivering or chills", Points: 2},
				{ID: "is-3", Label: "New or worsening wound", Points: 1},
				{ID: "is-4", Label: "Signs of infection (general)", Points: 2},
			},
		},
		{
			ID:   "toileting-continence",
			Name: "Toileting & Continence",
			Symptoms: []Symptom{
				{ID: "tc-1", Label: "Reduced urine output", Points: 1},
				{ID: "tc-2", Label: "Dark or strong-smelling urine", Points: 1},
				{ID: "tc-3", Label: "New incontinence", Points: 1},
				{ID: "tc-4", Label: "Constipation", Points: 1},
				{ID: "tc-5", Label: "Diarrhoea", Points: 1},
			},
		},
		{
			ID:   "mental-wellbeing",
			Name: "Mental Wellbeing",
			Symptoms: []Symptom{
				{ID: "mw-1", Label: "Low mood", Points: 1},
				{ID: "mw-2", Label: "Anxiety", Points: 1},
				{ID: "mw-3", Label: "Withdrawal / not engaging", Points: 1},
			},
		},
	})
}
