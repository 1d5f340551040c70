package log

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields is an alias for logrus.Fields.
type Fields = logrus.Fields

type contextKey string

// CorrelationIDKey stores the per-request correlation id in the context.
const CorrelationIDKey contextKey = "correlation_id"

const correlationIDField = "correlation_id"

// Setup configures the process-wide logrus formatter and level.
func Setup(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid log level %q, falling back to info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// WithCorrelationID attaches a fresh correlation id to the context.
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	correlationID := uuid.New().String()
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

// GetCorrelationID reads the correlation id back from the context, if any.
func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

// ForContext returns a logrus entry carrying the context's correlation id.
func ForContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if ctx == nil {
		return entry
	}

	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		entry = entry.WithField(correlationIDField, correlationID)
	}

	return entry
}
