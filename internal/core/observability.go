package core

import (
	"context"
	"time"
)

// MetricsRecorder observes the outcome and latency of service operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer opens a span per service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is closed exactly once with the operation error, if any.
type TraceSpan interface {
	End(err error)
}

// AuditStatus is the outcome recorded for an operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one completed service operation.
type AuditEntry struct {
	ID         string        `json:"id"`
	Operation  string        `json:"operation"`
	Status     AuditStatus   `json:"status"`
	EntityID   string        `json:"entity_id,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// AuditRecorder receives audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

type fanoutMetrics []MetricsRecorder

func (f fanoutMetrics) Observe(ctx context.Context, op string, success bool, d time.Duration) {
	for _, rec := range f {
		rec.Observe(ctx, op, success, d)
	}
}

// FanoutMetrics forwards observations to every non-nil recorder.
func FanoutMetrics(recorders ...MetricsRecorder) MetricsRecorder {
	out := make(fanoutMetrics, 0, len(recorders))
	for _, rec := range recorders {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
