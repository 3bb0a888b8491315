package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"onboardflow/internal/notify"
)

// recordEmitter is the subset of otellog.Logger used by the sink.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewNotificationSink returns a notify.Sink that sends notifications as OTel log records via the
// given LoggerProvider. If provider is nil, returns a no-op sink.
func NewNotificationSink(provider *sdklog.LoggerProvider) notify.Sink {
	if provider == nil {
		return notify.Nop{}
	}
	return &logSink{logger: provider.Logger("onboardflow.notify")}
}

// NewNotificationSinkWithLogger returns a sink that emits to logger directly.
func NewNotificationSinkWithLogger(logger recordEmitter) notify.Sink {
	if logger == nil {
		return notify.Nop{}
	}
	return &logSink{logger: logger}
}

type logSink struct {
	logger recordEmitter
}

func severityOf(s notify.Severity) otellog.Severity {
	switch s {
	case notify.SeverityCritical:
		return otellog.SeverityError
	case notify.SeverityWarning:
		return otellog.SeverityWarn
	default:
		return otellog.SeverityInfo
	}
}

// Notify converts the notification to an OTel log record and emits it.
func (s *logSink) Notify(ctx context.Context, n notify.Notification) error {
	rec := otellog.Record{}
	if !n.CreatedAt.IsZero() {
		rec.SetTimestamp(n.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetSeverity(severityOf(n.Severity))
	rec.SetSeverityText(string(n.Severity))
	if n.Message != "" {
		rec.SetBody(otellog.StringValue(n.Message))
	}
	if n.Kind != "" {
		rec.AddAttributes(otellog.String("kind", n.Kind))
	}
	if n.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", n.UserID))
	}
	if n.Subject != "" {
		rec.AddAttributes(otellog.String("subject", n.Subject))
	}
	s.logger.Emit(ctx, rec)
	return nil
}
