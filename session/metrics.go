package session

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kbukum/scribe/session"

// sessionMetrics records session outcomes through the global meter
// provider. Without a configured provider the instruments are no-ops.
type sessionMetrics struct {
	sessions metric.Int64Counter
	duration metric.Float64Histogram
}

func newSessionMetrics() *sessionMetrics {
	meter := otel.Meter(meterName)
	sessions, _ := meter.Int64Counter("scribe.sessions.total",
		metric.WithDescription("Number of sessions by terminal state."))
	duration, _ := meter.Float64Histogram("scribe.recording.duration",
		metric.WithDescription("Recorded audio duration per session, pauses excluded."),
		metric.WithUnit("s"))
	return &sessionMetrics{sessions: sessions, duration: duration}
}

func (m *sessionMetrics) sessionEnded(ctx context.Context, state State) {
	m.sessions.Add(ctx, 1, metric.WithAttributes(attribute.String("state", string(state))))
}

func (m *sessionMetrics) recordingStopped(ctx context.Context, d time.Duration) {
	m.duration.Record(ctx, d.Seconds())
}
