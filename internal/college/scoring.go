package college

import (
	"math"
	"strings"

	"github.com/uniguide-ai/uniguide/internal/profile"
)

const (
	weightAcademic   = 0.4
	weightMajor      = 0.3
	weightLocation   = 0.2
	weightAcceptance = 0.1

	// DefaultUnscored is returned when no factor applies. A neutral 0.5
	// keeps unscorable candidates out of the very bottom of the ranking.
	DefaultUnscored = 0.5

	gpaScale = 4.0
	satScale = 800.0

	// Acceptance rates at or above this saturate the admission-chance factor.
	acceptanceSaturation = 0.5
)

// Scorer computes fit scores between candidates and profiles. Pure and
// deterministic; the only knob is the default returned when no factor's
// preconditions hold.
type Scorer struct {
	unscored float64
}

// NewScorer creates a scorer with the given no-factor default, clamped to
// [0,1].
func NewScorer(unscored float64) *Scorer {
	unscored = math.Min(1, math.Max(0, unscored))
	return &Scorer{unscored: unscored}
}

// Score returns a fit score in [0,1]. Each factor contributes only when its
// preconditions hold; partial-factor scores are systematically lower than
// full-factor ones and are not re-normalized.
func (s *Scorer) Score(c *Candidate, p *profile.Profile) float64 {
	score := 0.0
	factors := 0

	// Academic fit: how close the candidate's averages sit to the user's
	// own numbers, on the GPA and SAT scales.
	if p.GPA != nil && p.SATScore != nil && c.AvgGPA != nil && c.AvgSAT != nil {
		gpaComponent := math.Max(0, 1-math.Abs(*c.AvgGPA-*p.GPA)/gpaScale)
		satComponent := math.Max(0, 1-math.Abs(float64(*c.AvgSAT-*p.SATScore))/satScale)

		score += (gpaComponent + satComponent) / 2 * weightAcademic
		factors++
	}

	// Major fit: share of preferred majors the candidate covers.
	if len(p.MajorPreference) > 0 && len(c.Majors) > 0 {
		matches := 0
		for _, preferred := range p.MajorPreference {
			if anyContainsFold(c.Majors, preferred) {
				matches++
			}
		}

		score += float64(matches) / float64(len(p.MajorPreference)) * weightMajor
		factors++
	}

	// Location fit: flat bonus when any preferred location matches.
	if len(p.LocationPreference) > 0 && c.Location != "" {
		for _, preferred := range p.LocationPreference {
			if containsFold(c.Location, preferred) {
				score += weightLocation
				break
			}
		}
		factors++
	}

	// Admission chance: higher acceptance rates score better, saturating at
	// 50%.
	if c.AcceptanceRate != nil {
		score += math.Min(1.0, *c.AcceptanceRate/acceptanceSaturation) * weightAcceptance
		factors++
	}

	if factors == 0 {
		return s.unscored
	}

	return score
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// anyContainsFold reports whether any of the candidates contains substr,
// case-insensitively.
func anyContainsFold(candidates []string, substr string) bool {
	for _, candidate := range candidates {
		if containsFold(candidate, substr) {
			return true
		}
	}
	return false
}
