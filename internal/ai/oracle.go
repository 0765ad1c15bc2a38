package ai

import "context"

// Turn roles as stored in a conversation transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single conversation exchange entry.
type Turn struct {
	Role    string
	Content string
}

// Oracle is a text-completion service consulted over the network. All of the
// pipeline's LLM interactions (intent classification, structured extraction
// and open dialogue) go through this contract so fakes can stand in during
// tests.
type Oracle interface {
	// Complete sends a system instruction plus a single user message and
	// returns the generated text.
	Complete(ctx context.Context, system, user string) (string, error)

	// Converse sends a system instruction plus an ordered conversation
	// history and returns the generated reply, bounded by maxOutputTokens
	// when positive.
	Converse(ctx context.Context, system string, turns []Turn, maxOutputTokens int32) (string, error)
}
