package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the oracle provider name.
	FieldProvider = "oracle_provider"
	// FieldModel is the structured log field key for the oracle model identifier.
	FieldModel = "oracle_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger defaults to a no-op logger so callers never have to guard.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// OracleFields returns standard zap fields describing the oracle provider and
// model. Empty values are ignored to keep log entries compact.
func OracleFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithOracleFields attaches the common oracle fields to the provided logger.
func WithOracleFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, OracleFields(provider, model)...)
}
