package profile

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/uniguide-ai/uniguide/internal/util"
)

//go:embed intent_prompt.md
var intentPrompt string

//go:embed extract_prompt.md
var extractPrompt string

const defaultMaxLogLength = 200

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Extractor classifies message intent and pulls structured profile fields out
// of free text, both via an oracle. Oracle failures never escape: intent
// detection falls back to general Q&A and field extraction to an empty
// update.
type Extractor struct {
	oracle    completer
	logger    *zap.Logger
	maxLogLen int
}

// NewExtractor creates an extractor backed by the given oracle.
func NewExtractor(oracle completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		oracle:    oracle,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

// DetectIntent classifies the message. Never fails; anything the oracle
// cannot classify comes back as IntentGeneralQA.
func (e *Extractor) DetectIntent(ctx context.Context, message string) Intent {
	raw, err := e.oracle.Complete(ctx, intentPrompt, message)
	if err != nil {
		e.logger.Warn("intent classification failed, falling back to general qa", zap.Error(err))
		return IntentGeneralQA
	}

	intent := ParseIntent(raw)
	e.logger.Debug("detected intent",
		zap.String("intent", string(intent)),
		zap.String("oracle_label", util.TruncateForLog(raw, e.maxLogLen)),
	)

	return intent
}

// ExtractFields pulls profile fields out of the message. Never fails; oracle
// errors and unparseable output yield an empty update.
func (e *Extractor) ExtractFields(ctx context.Context, message string) *Update {
	raw, err := e.oracle.Complete(ctx, extractPrompt, message)
	if err != nil {
		e.logger.Warn("profile extraction failed", zap.Error(err))
		return &Update{}
	}

	var fields map[string]any
	if err := util.DecodeOracleJSON(raw, &fields); err != nil {
		e.logger.Warn("profile extraction returned malformed output",
			zap.Error(err),
			zap.String("output_preview", util.TruncateForLog(raw, e.maxLogLen)),
		)
		return &Update{}
	}

	return e.decodeUpdate(fields)
}

// rawUpdate mirrors the oracle's extraction schema. Budget stays untyped
// because less disciplined oracles return it as a bare string or number.
type rawUpdate struct {
	GPA                *float64 `mapstructure:"gpa"`
	SATScore           *int     `mapstructure:"sat_score"`
	ACTScore           *int     `mapstructure:"act_score"`
	Interests          []string `mapstructure:"interests"`
	LocationPreference []string `mapstructure:"location_preference"`
	Budget             any      `mapstructure:"budget"`
}

func (e *Extractor) decodeUpdate(fields map[string]any) *Update {
	var raw rawUpdate
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return &Update{}
	}

	if err := decoder.Decode(fields); err != nil {
		e.logger.Warn("decoding extracted fields failed", zap.Error(err))
		return &Update{}
	}

	return &Update{
		GPA:                raw.GPA,
		SATScore:           raw.SATScore,
		ACTScore:           raw.ACTScore,
		Interests:          raw.Interests,
		LocationPreference: raw.LocationPreference,
		Budget:             e.normalizeBudget(raw.Budget),
	}
}

// normalizeBudget accepts the budget in whatever shape the oracle produced:
// a structured object, a bare number, a JSON string, or a free-text string.
// Free text with a recognizable integer becomes an under_fallback budget; the
// rest is kept verbatim under string_fallback.
func (e *Extractor) normalizeBudget(value any) *Budget {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		return e.decodeBudgetObject(v)
	case float64:
		max := int(v)
		return &Budget{Kind: BudgetUnder, MaxAnnualTuition: &max}
	case int:
		max := v
		return &Budget{Kind: BudgetUnder, MaxAnnualTuition: &max}
	case string:
		return e.budgetFromString(v)
	default:
		return nil
	}
}

func (e *Extractor) decodeBudgetObject(fields map[string]any) *Budget {
	var budget Budget
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &budget,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil
	}
	if err := decoder.Decode(fields); err != nil {
		e.logger.Warn("decoding budget object failed", zap.Error(err))
		return nil
	}

	if budget.Kind == "" {
		switch {
		case budget.MinAnnualTuition != nil && budget.MaxAnnualTuition != nil:
			budget.Kind = BudgetRange
		case budget.MaxAnnualTuition != nil:
			budget.Kind = BudgetUnder
		}
	}

	return &budget
}

func (e *Extractor) budgetFromString(value string) *Budget {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err == nil {
		return e.decodeBudgetObject(fields)
	}

	if amount, ok := extractInteger(value); ok {
		return &Budget{Kind: BudgetUnderFallback, MaxAnnualTuition: &amount}
	}

	e.logger.Warn("could not parse budget string, keeping it verbatim",
		zap.String("budget", util.TruncateForLog(value, e.maxLogLen)),
	)

	return &Budget{Kind: BudgetStringFallback, Description: value}
}

// extractInteger concatenates all digits in the string into one number, the
// same way the pipeline has always mined "$50,000 a year" down to 50000.
func extractInteger(s string) (int, bool) {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, false
	}

	value, err := strconv.Atoi(digits.String())
	if err != nil || value <= 0 {
		return 0, false
	}

	return value, true
}
