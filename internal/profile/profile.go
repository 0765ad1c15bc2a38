package profile

// Budget kinds. The two fallback kinds record extractions that did not
// produce a clean structured object.
const (
	BudgetUnder          = "under"
	BudgetRange          = "range"
	BudgetUnderFallback  = "under_fallback"
	BudgetStringFallback = "string_fallback"
)

// Budget is the user's tuition constraint as extracted from free text.
type Budget struct {
	Kind             string `mapstructure:"type"`
	MaxAnnualTuition *int   `mapstructure:"max_annual_tuition"`
	MinAnnualTuition *int   `mapstructure:"min_annual_tuition"`
	Description      string `mapstructure:"description"`
}

// Profile accumulates what is known about the user over a conversation
// session. One instance per session, owned by that session's agent. Fields
// are only ever added to or overwritten, never cleared; the preference lists
// are append-only and keep duplicates.
type Profile struct {
	GPA                *float64
	SATScore           *int
	ACTScore           *int
	MajorPreference    []string
	LocationPreference []string
	Budget             *Budget
}

// Update is a partial profile change extracted from a single message. Nil
// scalars and empty lists mean "not mentioned".
type Update struct {
	GPA                *float64
	SATScore           *int
	ACTScore           *int
	Interests          []string
	LocationPreference []string
	Budget             *Budget
}

// Empty reports whether the update carries no fields at all.
func (u *Update) Empty() bool {
	if u == nil {
		return true
	}
	return u.GPA == nil && u.SATScore == nil && u.ACTScore == nil &&
		len(u.Interests) == 0 && len(u.LocationPreference) == 0 && u.Budget == nil
}

// Merge folds an update into the profile. Scalars overwrite, interests and
// location preferences append without deduplication, budget overwrites
// wholesale.
func (p *Profile) Merge(u *Update) {
	if u == nil {
		return
	}

	if u.GPA != nil {
		p.GPA = u.GPA
	}
	if u.SATScore != nil {
		p.SATScore = u.SATScore
	}
	if u.ACTScore != nil {
		p.ACTScore = u.ACTScore
	}

	p.MajorPreference = append(p.MajorPreference, u.Interests...)
	p.LocationPreference = append(p.LocationPreference, u.LocationPreference...)

	if u.Budget != nil {
		p.Budget = u.Budget
	}
}
