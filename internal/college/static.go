package college

import (
	"context"

	"go.uber.org/zap"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func entry(name string, ranking int, location string, tuition int, acceptanceRate float64, avgSAT int, avgGPA float64, majors ...string) *Candidate {
	return &Candidate{
		Name:           name,
		Location:       location,
		Ranking:        intp(ranking),
		Tuition:        intp(tuition),
		AcceptanceRate: floatp(acceptanceRate),
		AvgSAT:         intp(avgSAT),
		AvgGPA:         floatp(avgGPA),
		Majors:         majors,
	}
}

// staticColleges is the built-in candidate table used when live search is
// disabled.
var staticColleges = []*Candidate{
	entry("Harvard University", 1, "Cambridge, MA", 54000, 0.04, 1520, 4.0, "Computer Science", "Business", "Medicine", "Law"),
	entry("Stanford University", 2, "Stanford, CA", 56000, 0.04, 1510, 3.95, "Computer Science", "Engineering", "Business"),
	entry("MIT", 3, "Cambridge, MA", 53000, 0.07, 1540, 4.0, "Computer Science", "Engineering", "Physics"),
	entry("Yale University", 4, "New Haven, CT", 59000, 0.06, 1515, 3.95, "Liberal Arts", "Law", "Medicine", "Business"),
	entry("Princeton University", 5, "Princeton, NJ", 57000, 0.05, 1525, 3.95, "Engineering", "Liberal Arts", "Economics"),
	entry("Carnegie Mellon", 15, "Pittsburgh, PA", 58000, 0.15, 1480, 3.8, "Computer Science", "Engineering", "Business"),
	entry("UC Berkeley", 20, "Berkeley, CA", 45000, 0.16, 1450, 3.9, "Computer Science", "Engineering", "Business"),
	entry("University of Michigan", 25, "Ann Arbor, MI", 50000, 0.23, 1430, 3.85, "Computer Science", "Engineering", "Business"),
	entry("Georgia Tech", 30, "Atlanta, GA", 35000, 0.21, 1460, 3.8, "Computer Science", "Engineering"),
	entry("NYU", 35, "New York, NY", 54000, 0.16, 1420, 3.75, "Business", "Arts", "Computer Science"),
	entry("Purdue University", 40, "West Lafayette, IN", 30000, 0.58, 1350, 3.7, "Computer Science", "Engineering"),
	entry("University of Washington", 45, "Seattle, WA", 38000, 0.48, 1400, 3.75, "Computer Science", "Engineering", "Medicine"),
	entry("Boston University", 50, "Boston, MA", 58000, 0.18, 1440, 3.8, "Business", "Engineering", "Medicine"),
	entry("Virginia Tech", 55, "Blacksburg, VA", 32000, 0.65, 1320, 3.6, "Computer Science", "Engineering"),
	entry("Penn State", 60, "University Park, PA", 35000, 0.55, 1310, 3.6, "Engineering", "Business"),
}

// StaticRepository serves candidates from the built-in table. Deterministic,
// no external calls.
type StaticRepository struct {
	colleges []*Candidate
	filters  []filter
	logger   *zap.Logger
}

// NewStatic creates a repository over the built-in college table.
func NewStatic(logger *zap.Logger) *StaticRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StaticRepository{
		colleges: staticColleges,
		filters:  []filter{majorsFilter{}, locationFilter{}, tuitionFilter{}},
		logger:   logger,
	}
}

// Fetch filters the table by the active query parameters. Candidates are
// copied so concurrent sessions never share the mutable fit score.
func (r *StaticRepository) Fetch(_ context.Context, q Query) []*Candidate {
	matched := runFilters(r.logger, q, r.colleges, r.filters)
	if len(matched) > maxResults {
		matched = matched[:maxResults]
	}

	results := make([]*Candidate, 0, len(matched))
	for _, c := range matched {
		clone := *c
		results = append(results, &clone)
	}

	return results
}
