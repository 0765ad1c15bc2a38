package profile

import "strings"

// Intent is the closed category describing what the user wants from a single
// message.
type Intent string

const (
	IntentCollegeMatch Intent = "college_match"
	IntentEssayRevise  Intent = "essay_revise"
	IntentSchedulePlan Intent = "schedule_plan"
	IntentGeneralQA    Intent = "general_qa"
)

// ParseIntent maps an oracle label onto the intent set. Classifiers pad their
// answers with whitespace, quotes or punctuation, so the label is normalized
// first. Anything unrecognized falls back to general Q&A.
func ParseIntent(label string) Intent {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.Trim(label, "\"'`.")

	switch Intent(label) {
	case IntentCollegeMatch:
		return IntentCollegeMatch
	case IntentEssayRevise:
		return IntentEssayRevise
	case IntentSchedulePlan:
		return IntentSchedulePlan
	default:
		return IntentGeneralQA
	}
}
