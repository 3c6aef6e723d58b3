package catalog

// Symptom is an immutable reference entry: a stable id, a display label,
// and the points it contributes to a visit's risk score.
type Symptom struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Category groups symptoms for presentation. Categorization has no effect
// on scoring.
type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Symptoms []Symptom `json:"symptoms"`
}
