package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniguide-ai/uniguide/internal/ai"
	"github.com/uniguide-ai/uniguide/internal/college"
	"github.com/uniguide-ai/uniguide/internal/profile"
)

type stubExtractor struct {
	intent profile.Intent
	update *profile.Update
}

func (s *stubExtractor) DetectIntent(_ context.Context, _ string) profile.Intent {
	return s.intent
}

func (s *stubExtractor) ExtractFields(_ context.Context, _ string) *profile.Update {
	if s.update == nil {
		return &profile.Update{}
	}
	return s.update
}

type stubDialogue struct {
	reply     string
	err       error
	lastTurns []ai.Turn
}

func (s *stubDialogue) Converse(_ context.Context, _ string, turns []ai.Turn, _ int32) (string, error) {
	s.lastTurns = turns
	return s.reply, s.err
}

type stubRepo struct {
	candidates []*college.Candidate
	lastQuery  college.Query
}

func (s *stubRepo) Fetch(_ context.Context, q college.Query) []*college.Candidate {
	s.lastQuery = q
	return s.candidates
}

func newTestAgent(ext *stubExtractor, repo college.Repository, oracle dialogue) *Agent {
	return New(ext, repo, college.NewScorer(0.5), oracle, zap.NewNop())
}

func TestProcessCannedResponses(t *testing.T) {
	oracle := &stubDialogue{reply: "unused"}

	for intent, want := range map[profile.Intent]string{
		profile.IntentEssayRevise:  essayResponse,
		profile.IntentSchedulePlan: scheduleResponse,
	} {
		agent := newTestAgent(&stubExtractor{intent: intent}, &stubRepo{}, oracle)
		got := agent.Process(context.Background(), "help me")
		assert.Equal(t, want, got, "intent %s", intent)
	}
}

func TestProcessGeneralQAUsesRecentHistory(t *testing.T) {
	oracle := &stubDialogue{reply: "an answer"}
	agent := newTestAgent(&stubExtractor{intent: profile.IntentGeneralQA}, &stubRepo{}, oracle)

	for i := 0; i < 4; i++ {
		agent.Process(context.Background(), fmt.Sprintf("question %d", i))
	}

	got := agent.Process(context.Background(), "final question")
	assert.Equal(t, "an answer", got)

	// Last four transcript turns plus the new message.
	require.Len(t, oracle.lastTurns, 5)
	assert.Equal(t, ai.Turn{Role: ai.RoleUser, Content: "final question"}, oracle.lastTurns[4])
	assert.Equal(t, ai.RoleAssistant, oracle.lastTurns[3].Role)
	assert.Equal(t, "an answer", oracle.lastTurns[3].Content)
	assert.Equal(t, "question 3", oracle.lastTurns[2].Content)
}

func TestProcessDoesNotDuplicateNewMessage(t *testing.T) {
	oracle := &stubDialogue{reply: "ok"}
	agent := newTestAgent(&stubExtractor{intent: profile.IntentGeneralQA}, &stubRepo{}, oracle)

	agent.Process(context.Background(), "only question")

	require.Len(t, oracle.lastTurns, 1)
	assert.Equal(t, "only question", oracle.lastTurns[0].Content)
}

func TestProcessApologizesOnOracleFailure(t *testing.T) {
	oracle := &stubDialogue{err: errors.New("quota exceeded")}
	agent := newTestAgent(&stubExtractor{intent: profile.IntentGeneralQA}, &stubRepo{}, oracle)

	got := agent.Process(context.Background(), "anything")
	assert.Equal(t, apologyResponse, got)
}

func TestTranscriptBounded(t *testing.T) {
	oracle := &stubDialogue{reply: "reply"}
	agent := newTestAgent(&stubExtractor{intent: profile.IntentGeneralQA}, &stubRepo{}, oracle)

	for i := 0; i < 8; i++ {
		agent.Process(context.Background(), fmt.Sprintf("message %d", i))
	}

	require.Len(t, agent.transcript, maxTranscriptTurns)
	// Oldest surviving turn is the assistant reply to message 2.
	assert.Equal(t, ai.RoleAssistant, agent.transcript[0].Role)
	assert.Equal(t, "message 3", agent.transcript[1].Content)
	assert.Equal(t, "reply", agent.transcript[len(agent.transcript)-1].Content)
}

func TestCollegeMatchScoresAndFormats(t *testing.T) {
	gpa := 3.9
	sat := 1500
	update := &profile.Update{
		GPA:       &gpa,
		SATScore:  &sat,
		Interests: []string{"Computer Science"},
	}

	avgSAT := 1450
	avgGPA := 3.8
	rate := 0.2
	tuition := 30000
	repo := &stubRepo{candidates: []*college.Candidate{
		{
			Name:           "Weak Fit",
			Majors:         []string{"Art History"},
			AvgSAT:         &avgSAT,
			AvgGPA:         &avgGPA,
			AcceptanceRate: &rate,
		},
		{
			Name:           "Strong Fit",
			Location:       "Austin, TX",
			Tuition:        &tuition,
			Majors:         []string{"Computer Science", "Engineering"},
			AvgSAT:         &avgSAT,
			AvgGPA:         &avgGPA,
			AcceptanceRate: &rate,
		},
	}}

	agent := newTestAgent(&stubExtractor{intent: profile.IntentCollegeMatch, update: update}, repo, &stubDialogue{})
	got := agent.Process(context.Background(), "find me a school")

	assert.Contains(t, got, "## University Recommendations")
	assert.Contains(t, got, "GPA 3.9")
	assert.Contains(t, got, "SAT 1500")
	assert.Contains(t, got, "$30,000/year")

	// Higher scoring candidate comes first.
	strong := repo.candidates[0]
	weak := repo.candidates[1]
	if strong.Name != "Strong Fit" {
		strong, weak = weak, strong
	}
	assert.Greater(t, strong.FitScore, weak.FitScore)
	assert.Regexp(t, `\*\*1\. Strong Fit\*\*`, got)
}

func TestCollegeMatchBuildsQueryFromProfile(t *testing.T) {
	maxTuition := 45000
	update := &profile.Update{
		Interests:          []string{"Biology"},
		LocationPreference: []string{"California"},
		Budget:             &profile.Budget{Kind: profile.BudgetUnder, MaxAnnualTuition: &maxTuition},
	}
	repo := &stubRepo{candidates: []*college.Candidate{{Name: "Somewhere"}}}

	agent := newTestAgent(&stubExtractor{intent: profile.IntentCollegeMatch, update: update}, repo, &stubDialogue{})
	agent.Process(context.Background(), "schools in california under 45k")

	assert.Equal(t, []string{"Biology"}, repo.lastQuery.Majors)
	assert.Equal(t, []string{"California"}, repo.lastQuery.Locations)
	require.NotNil(t, repo.lastQuery.MaxTuition)
	assert.Equal(t, 45000, *repo.lastQuery.MaxTuition)
	assert.Nil(t, repo.lastQuery.MinTuition)
}

func TestCollegeMatchEmptyFallback(t *testing.T) {
	gpa := 3.5
	update := &profile.Update{GPA: &gpa, Interests: []string{"Physics"}}
	oracle := &stubDialogue{reply: "general guidance here"}

	agent := newTestAgent(&stubExtractor{intent: profile.IntentCollegeMatch, update: update}, &stubRepo{}, oracle)
	got := agent.Process(context.Background(), "find physics schools")

	assert.Contains(t, got, "found limited results")
	assert.Contains(t, got, "GPA 3.5")
	assert.Contains(t, got, "general guidance here")

	// The fallback question carries the profile to the oracle.
	require.NotEmpty(t, oracle.lastTurns)
	last := oracle.lastTurns[len(oracle.lastTurns)-1]
	assert.Contains(t, last.Content, "GPA 3.5")
	assert.Contains(t, last.Content, "Physics")
}

func TestProfileAccumulatesAcrossTurns(t *testing.T) {
	gpa := 3.7
	ext := &stubExtractor{intent: profile.IntentCollegeMatch, update: &profile.Update{GPA: &gpa}}
	repo := &stubRepo{candidates: []*college.Candidate{{Name: "Anywhere"}}}
	agent := newTestAgent(ext, repo, &stubDialogue{})

	agent.Process(context.Background(), "my gpa is 3.7")

	sat := 1400
	ext.update = &profile.Update{SATScore: &sat}
	agent.Process(context.Background(), "i scored 1400 on the sat")

	p := agent.Profile()
	require.NotNil(t, p.GPA)
	require.NotNil(t, p.SATScore)
	assert.Equal(t, 3.7, *p.GPA)
	assert.Equal(t, 1400, *p.SATScore)
}
