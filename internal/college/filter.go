package college

import "go.uber.org/zap"

// filter is a single retrieval constraint applied to the static table. A
// filter whose query parameter is absent passes candidates through untouched.
type filter interface {
	Name() string
	Apply(q Query, items []*Candidate) []*Candidate
}

// runFilters executes the filters sequentially, logging one step entry each.
func runFilters(logger *zap.Logger, q Query, items []*Candidate, filters []filter) []*Candidate {
	for _, f := range filters {
		initial := len(items)
		items = f.Apply(q, items)

		if logger != nil {
			logger.Debug("candidate filter step",
				zap.String("name", f.Name()),
				zap.Int("initial", initial),
				zap.Int("dropped", initial-len(items)),
				zap.Int("left", len(items)),
			)
		}
	}

	return items
}

type majorsFilter struct{}

func (majorsFilter) Name() string { return "majors" }

func (majorsFilter) Apply(q Query, items []*Candidate) []*Candidate {
	if len(q.Majors) == 0 {
		return items
	}

	kept := items[:0:0]
	for _, c := range items {
		for _, major := range q.Majors {
			if anyContainsFold(c.Majors, major) {
				kept = append(kept, c)
				break
			}
		}
	}

	return kept
}

type locationFilter struct{}

func (locationFilter) Name() string { return "location" }

func (locationFilter) Apply(q Query, items []*Candidate) []*Candidate {
	if len(q.Locations) == 0 {
		return items
	}

	kept := items[:0:0]
	for _, c := range items {
		for _, location := range q.Locations {
			if containsFold(c.Location, location) {
				kept = append(kept, c)
				break
			}
		}
	}

	return kept
}

type tuitionFilter struct{}

func (tuitionFilter) Name() string { return "tuition" }

func (tuitionFilter) Apply(q Query, items []*Candidate) []*Candidate {
	if q.MaxTuition == nil {
		return items
	}

	kept := items[:0:0]
	for _, c := range items {
		if c.Tuition != nil && *c.Tuition <= *q.MaxTuition {
			kept = append(kept, c)
		}
	}

	return kept
}
