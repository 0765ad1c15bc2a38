package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/uniguide-ai/uniguide/internal/ai"
	"github.com/uniguide-ai/uniguide/internal/college"
	"github.com/uniguide-ai/uniguide/internal/profile"
)

//go:embed qa_prompt.md
var qaPrompt string

const (
	// The transcript is bounded to cap the context sent to the dialogue
	// oracle; only the most recent turns accompany a general question.
	maxTranscriptTurns = 10
	qaContextTurns     = 4

	qaMaxOutputTokens = 500
)

const (
	essayResponse = "**Essay assistance is coming soon!** For now, I recommend focusing on " +
		"your personal story and unique experiences. Would you like college recommendations instead?"

	scheduleResponse = "**Schedule planning is coming soon!** I can help you understand application " +
		"deadlines though. Most early decision deadlines are November 1st, and regular decision " +
		"deadlines are typically January 1st."

	apologyResponse = "I apologize, but I'm having trouble processing your request right now. " +
		"Please try again or ask a different question."
)

type extractor interface {
	DetectIntent(ctx context.Context, message string) profile.Intent
	ExtractFields(ctx context.Context, message string) *profile.Update
}

type dialogue interface {
	Converse(ctx context.Context, system string, turns []ai.Turn, maxOutputTokens int32) (string, error)
}

// Agent processes one conversation session. It owns the session's profile
// and transcript exclusively; create one Agent per session and do not share
// it. Process never fails: every collaborator error degrades to a generic
// or canned reply.
type Agent struct {
	extractor extractor
	repo      college.Repository
	scorer    *college.Scorer
	oracle    dialogue
	logger    *zap.Logger

	profile    *profile.Profile
	transcript []ai.Turn
}

// New creates an agent for a fresh session.
func New(extractor extractor, repo college.Repository, scorer *college.Scorer, oracle dialogue, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		extractor: extractor,
		repo:      repo,
		scorer:    scorer,
		oracle:    oracle,
		logger:    logger,
		profile:   &profile.Profile{},
	}
}

// Process routes one inbound message through intent detection to the
// matching handler and returns the reply. The transcript keeps the 10 most
// recent turns.
func (a *Agent) Process(ctx context.Context, message string) string {
	history := a.recentTurns(qaContextTurns)
	a.remember(ai.RoleUser, message)

	intent := a.extractor.DetectIntent(ctx, message)
	a.logger.Debug("dispatching message", zap.String("intent", string(intent)))

	var response string
	switch intent {
	case profile.IntentCollegeMatch:
		response = a.handleCollegeMatch(ctx, history, message)
	case profile.IntentEssayRevise:
		response = essayResponse
	case profile.IntentSchedulePlan:
		response = scheduleResponse
	default:
		response = a.handleGeneralQA(ctx, history, message)
	}

	a.remember(ai.RoleAssistant, response)

	return response
}

// handleCollegeMatch runs the recommendation pipeline: extract profile
// fields, merge them, fetch candidates, score, sort and format.
func (a *Agent) handleCollegeMatch(ctx context.Context, history []ai.Turn, message string) string {
	update := a.extractor.ExtractFields(ctx, message)
	a.profile.Merge(update)

	query := a.buildQuery()
	candidates := a.repo.Fetch(ctx, query)

	for _, c := range candidates {
		c.FitScore = a.scorer.Score(c, a.profile)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FitScore > candidates[j].FitScore
	})

	a.logger.Info("college match pipeline completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("known_majors", len(a.profile.MajorPreference)),
	)

	if len(candidates) == 0 {
		return a.emptyMatchFallback(ctx, history)
	}

	return formatMatches(a.profile, candidates)
}

// emptyMatchFallback still acknowledges the profile when retrieval came back
// empty, then asks the dialogue oracle for general guidance instead.
func (a *Agent) emptyMatchFallback(ctx context.Context, history []ai.Turn) string {
	var b strings.Builder
	b.WriteString("## University Recommendations\n\n")
	b.WriteString(profileSummary(a.profile))
	b.WriteString("\n\n")
	b.WriteString("**Note**: I searched current university data but found limited results. " +
		"Let me provide some general guidance based on your profile instead.\n\n")
	b.WriteString(a.handleGeneralQA(ctx, history, a.synthesizeProfilePrompt()))

	return b.String()
}

// synthesizeProfilePrompt turns the known profile into a question for the
// dialogue oracle.
func (a *Agent) synthesizeProfilePrompt() string {
	parts := []string{"I'm looking for college recommendations"}
	if a.profile.GPA != nil {
		parts = append(parts, fmt.Sprintf("with GPA %g", *a.profile.GPA))
	}
	if a.profile.SATScore != nil {
		parts = append(parts, fmt.Sprintf("SAT %d", *a.profile.SATScore))
	}
	if len(a.profile.MajorPreference) > 0 {
		parts = append(parts, "interested in "+strings.Join(a.profile.MajorPreference, ", "))
	}

	return strings.Join(parts, " ")
}

// handleGeneralQA sends the recent history plus the new message to the
// dialogue oracle. Oracle failure yields a fixed apology.
func (a *Agent) handleGeneralQA(ctx context.Context, history []ai.Turn, message string) string {
	turns := make([]ai.Turn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, ai.Turn{Role: ai.RoleUser, Content: message})

	reply, err := a.oracle.Converse(ctx, qaPrompt, turns, qaMaxOutputTokens)
	if err != nil {
		a.logger.Warn("general qa failed", zap.Error(err))
		return apologyResponse
	}

	return reply
}

// buildQuery derives retrieval constraints from the accumulated profile.
func (a *Agent) buildQuery() college.Query {
	query := college.Query{
		Majors:    a.profile.MajorPreference,
		Locations: a.profile.LocationPreference,
	}

	if budget := a.profile.Budget; budget != nil {
		query.MaxTuition = budget.MaxAnnualTuition
		query.MinTuition = budget.MinAnnualTuition
	}

	return query
}

func (a *Agent) remember(role, content string) {
	a.transcript = append(a.transcript, ai.Turn{Role: role, Content: content})
	if len(a.transcript) > maxTranscriptTurns {
		a.transcript = a.transcript[len(a.transcript)-maxTranscriptTurns:]
	}
}

func (a *Agent) recentTurns(n int) []ai.Turn {
	start := len(a.transcript) - n
	if start < 0 {
		start = 0
	}

	turns := make([]ai.Turn, len(a.transcript)-start)
	copy(turns, a.transcript[start:])

	return turns
}

// Profile exposes the accumulated session profile for inspection.
func (a *Agent) Profile() *profile.Profile {
	return a.profile
}
