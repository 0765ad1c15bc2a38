package college

import "context"

// maxResults caps every repository's answer regardless of strategy.
const maxResults = 10

// Candidate is one retrieved college. Optional numeric fields are pointers so
// "not mentioned" survives extraction. The JSON tags match the extraction
// oracle's output schema. FitScore is the only field mutated after
// construction; the scorer assigns it once per request.
type Candidate struct {
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Ranking        *int     `json:"ranking,omitempty"`
	Tuition        *int     `json:"tuition,omitempty"`
	AcceptanceRate *float64 `json:"acceptance_rate,omitempty"`
	AvgSAT         *int     `json:"avg_sat,omitempty"`
	AvgGPA         *float64 `json:"avg_gpa,omitempty"`
	Majors         []string `json:"majors,omitempty"`
	Description    string   `json:"description,omitempty"`

	FitScore float64 `json:"-"`
}

// Query carries the retrieval constraints derived from a user profile.
// MinTuition is a passthrough for budget ranges: it is recorded but never
// constrains retrieval.
type Query struct {
	Majors     []string
	Locations  []string
	MaxTuition *int
	MinTuition *int
}

// Repository supplies college candidates for a query. Implementations return
// at most 10 candidates in unspecified order and never fail: a degraded
// source (search outage, unparseable extraction) yields an empty list.
type Repository interface {
	Fetch(ctx context.Context, query Query) []*Candidate
}
