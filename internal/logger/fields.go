package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldUser is the structured log field key for the user id.
	FieldUser = "user_id"
	// FieldCandidate is the structured log field key for the candidate id.
	FieldCandidate = "candidate_id"
	// FieldTier is the structured log field key for the assigned tier.
	FieldTier = "tier"
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
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// UserFields returns the field identifying the user a run belongs to.
func UserFields(userID string) []zap.Field {
	return StringFields(StringField{Key: FieldUser, Value: userID})
}

// CandidateFields returns the fields describing a ranked candidate. Empty
// values are ignored.
func CandidateFields(candidateID, tier string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidate, Value: candidateID},
		StringField{Key: FieldTier, Value: tier},
	)
}

// WithUser attaches the user field to the provided logger.
// If the logger is nil, a no-op logger is created to avoid panics.
func WithUser(logger *zap.Logger, userID string) *zap.Logger {
	return WithFields(logger, UserFields(userID)...)
}
