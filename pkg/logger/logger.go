// Package logger defines the structured logging interface for the
// authentication core. The concrete zap-backed implementation lives in
// internal/infrastructure/monitoring; this package only carries the contract,
// the field helpers and the sensitive-value redaction rules so that token
// material never reaches a log sink in the clear.
package logger

import (
	"context"
	"strings"
	"time"

	"github.com/linegroup/authcore/pkg/constants"
)

// ================================================================================
// Logger Interface
// ================================================================================

// Logger defines the interface for structured logging.
type Logger interface {
	// Debug logs a debug message.
	Debug(ctx context.Context, message string, fields ...Field)

	// Info logs an informational message.
	Info(ctx context.Context, message string, fields ...Field)

	// Warn logs a warning message.
	Warn(ctx context.Context, message string, fields ...Field)

	// Error logs an error message.
	Error(ctx context.Context, message string, err error, fields ...Field)

	// Fatal logs a fatal message and exits the application.
	Fatal(ctx context.Context, message string, err error, fields ...Field)

	// WithFields creates a new logger with additional base fields.
	WithFields(fields ...Field) Logger

	// WithComponent creates a new logger scoped to a component name.
	WithComponent(component string) Logger

	// SetLevel adjusts the minimum enabled level at runtime.
	SetLevel(level constants.LogLevel)
}

// ================================================================================
// Field Type for Structured Logging
// ================================================================================

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Time creates an RFC 3339 time field.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value.Format(time.RFC3339)}
}

// Any creates a field with any value type.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// ================================================================================
// Sensitive Value Redaction
// ================================================================================

// sensitiveKeys are field-name fragments whose values must be masked before
// they reach any log sink.
var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"private_key",
	"credential",
}

// Sanitize masks the value when the field key names sensitive material.
// Implementations must route every field through it.
func Sanitize(key string, value any) any {
	keyLower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(keyLower, sensitive) {
			if str, ok := value.(string); ok && str != "" {
				return maskString(str)
			}
			return "***REDACTED***"
		}
	}
	return value
}

// maskString keeps only the first and last four characters of a long value.
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
