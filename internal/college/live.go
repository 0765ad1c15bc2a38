package college

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/uniguide-ai/uniguide/internal/search"
	"github.com/uniguide-ai/uniguide/internal/util"
)

//go:embed extract_prompt.md
var extractPrompt string

// Only the first few search hits carry signal; the rest just inflate the
// extraction prompt.
const maxSerializedResults = 8

const liveMaxLogLength = 200

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LiveRepository retrieves candidates by searching the web and asking an
// extraction oracle to structure the results. Search and oracle failures
// degrade to an empty candidate list; nothing propagates to the caller.
type LiveRepository struct {
	search    search.Provider
	oracle    completer
	logger    *zap.Logger
	maxLogLen int
}

// NewLive creates a repository backed by the given search provider and
// extraction oracle.
func NewLive(provider search.Provider, oracle completer, logger *zap.Logger) *LiveRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LiveRepository{
		search:    provider,
		oracle:    oracle,
		logger:    logger,
		maxLogLen: liveMaxLogLength,
	}
}

// Fetch searches the web for the query and extracts structured candidates
// from the results.
func (r *LiveRepository) Fetch(ctx context.Context, q Query) []*Candidate {
	query := buildSearchQuery(q)
	r.logger.Debug("searching for colleges", zap.String("query", query))

	results, err := r.search.Search(ctx, query)
	if err != nil {
		r.logger.Warn("college search failed", zap.Error(err))
		return nil
	}
	if len(results) == 0 {
		r.logger.Debug("college search returned no results")
		return nil
	}

	block := serializeResults(results)

	raw, err := r.oracle.Complete(ctx, extractPrompt,
		fmt.Sprintf("Extract university data from these search results:\n\n%s", block))
	if err != nil {
		r.logger.Warn("college extraction failed", zap.Error(err))
		return nil
	}

	var candidates []*Candidate
	if err := util.DecodeOracleJSON(raw, &candidates); err != nil {
		r.logger.Warn("college extraction returned malformed output",
			zap.Error(err),
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", util.TruncateForLog(raw, r.maxLogLen)),
		)
		return nil
	}

	kept := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		kept = append(kept, c)
		if len(kept) == maxResults {
			break
		}
	}

	r.logger.Debug("extracted college candidates",
		zap.Int("search_results", len(results)),
		zap.Int("candidates", len(kept)),
	)

	return kept
}

// buildSearchQuery assembles the free-text web query from the structured
// constraints.
func buildSearchQuery(q Query) string {
	parts := []string{"universities colleges"}

	if len(q.Majors) > 0 {
		parts = append(parts, strings.Join(q.Majors, " ")+" programs")
	}
	if len(q.Locations) > 0 {
		parts = append(parts, "in "+strings.Join(q.Locations, " "))
	}

	parts = append(parts, "admission requirements tuition ranking")

	return strings.Join(parts, " ")
}

// serializeResults renders the first few search hits into the text block the
// extraction oracle reads.
func serializeResults(results []search.Result) string {
	if len(results) > maxSerializedResults {
		results = results[:maxSerializedResults]
	}

	var builder strings.Builder
	for _, result := range results {
		fmt.Fprintf(&builder, "Title: %s\n", result.Title)
		fmt.Fprintf(&builder, "Description: %s\n", result.Snippet)
		fmt.Fprintf(&builder, "URL: %s\n\n", result.URL)
	}

	return builder.String()
}
