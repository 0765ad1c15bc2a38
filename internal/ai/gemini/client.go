package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/uniguide-ai/uniguide/internal/ai"
	"github.com/uniguide-ai/uniguide/internal/util"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 10 * time.Second

	// Classification and extraction calls want near-deterministic output;
	// open dialogue wants a conversational temperature.
	completeTemperature = 0.1
	converseTemperature = 0.7

	defaultMaxLogLength = 200
)

// Generator wraps the Google GenAI client and implements ai.Oracle.
type Generator struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

// NewGenerator creates a Generator configured for the Gemini API backend.
// Every outbound call runs under timeout; zero selects the default of 10s.
func NewGenerator(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:    client,
		modelName: model,
		timeout:   timeout,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}, nil
}

// Complete sends a system instruction plus one user message to Gemini and
// returns the first textual response.
func (g *Generator) Complete(ctx context.Context, system, user string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	user = strings.TrimSpace(user)
	if user == "" {
		return "", errors.New("message must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](completeTemperature),
	}
	if system = strings.TrimSpace(system); system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	return g.generate(ctx, genai.Text(user), cfg)
}

// Converse sends a system instruction plus an ordered conversation history to
// Gemini. maxOutputTokens bounds the reply length when positive.
func (g *Generator) Converse(ctx context.Context, system string, turns []ai.Turn, maxOutputTokens int32) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		text := strings.TrimSpace(turn.Content)
		if text == "" {
			continue
		}

		var role genai.Role = genai.RoleUser
		if turn.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}

	if len(contents) == 0 {
		return "", errors.New("conversation must contain at least one turn")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](converseTemperature),
	}
	if system = strings.TrimSpace(system); system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if maxOutputTokens > 0 {
		cfg.MaxOutputTokens = maxOutputTokens
	}

	return g.generate(ctx, contents, cfg)
}

func (g *Generator) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := collectText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", util.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}

// collectText joins the non-empty text parts of all candidates.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// Model reports the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
