package agent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/uniguide-ai/uniguide/internal/college"
	"github.com/uniguide-ai/uniguide/internal/profile"
)

const (
	maxFormattedMatches = 5
	maxSummaryMajors    = 3
)

// formatMatches renders ranked candidates as a markdown reply. Unknown
// fields are omitted rather than rendered as placeholders.
func formatMatches(p *profile.Profile, candidates []*college.Candidate) string {
	var b strings.Builder
	b.WriteString("## University Recommendations\n\n")
	b.WriteString(profileSummary(p))
	b.WriteString("\n\n")

	shown := candidates
	if len(shown) > maxFormattedMatches {
		shown = shown[:maxFormattedMatches]
	}

	for i, c := range shown {
		pct := int(math.Round(c.FitScore * 100))
		b.WriteString(fmt.Sprintf("**%d. %s** (%d%% match)\n", i+1, c.Name, pct))

		if facts := candidateFacts(c); facts != "" {
			b.WriteString(facts)
			b.WriteString("\n")
		}
		if c.AvgSAT != nil && c.AvgGPA != nil {
			b.WriteString(fmt.Sprintf("Avg SAT: %d | Avg GPA: %g\n", *c.AvgSAT, *c.AvgGPA))
		}
		if len(c.Majors) > 0 {
			majors := c.Majors
			if len(majors) > maxSummaryMajors {
				majors = majors[:maxSummaryMajors]
			}
			b.WriteString("Strong in: " + strings.Join(majors, ", ") + "\n")
		}
		if c.Description != "" {
			b.WriteString(c.Description + "\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// candidateFacts joins the location, tuition and acceptance rate of a
// candidate into a single line, skipping whatever is unknown.
func candidateFacts(c *college.Candidate) string {
	var facts []string
	if c.Location != "" {
		facts = append(facts, c.Location)
	}
	if c.Tuition != nil {
		facts = append(facts, "$"+groupThousands(*c.Tuition)+"/year")
	}
	if c.AcceptanceRate != nil {
		facts = append(facts, fmt.Sprintf("%.1f%% acceptance rate", *c.AcceptanceRate*100))
	}

	return strings.Join(facts, " | ")
}

// profileSummary states what the agent currently knows about the student.
func profileSummary(p *profile.Profile) string {
	var parts []string
	if p.GPA != nil {
		parts = append(parts, fmt.Sprintf("GPA %g", *p.GPA))
	}
	if p.SATScore != nil {
		parts = append(parts, fmt.Sprintf("SAT %d", *p.SATScore))
	}
	if len(p.MajorPreference) > 0 {
		majors := p.MajorPreference
		if len(majors) > maxSummaryMajors {
			majors = majors[:maxSummaryMajors]
		}
		parts = append(parts, "Interests: "+strings.Join(majors, ", "))
	}

	if len(parts) == 0 {
		return "**Your Profile**: still getting to know you"
	}

	return "**Your Profile**: " + strings.Join(parts, ", ")
}

// groupThousands formats n with comma separators.
func groupThousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}

	return sign + b.String()
}
