package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder holds one counter and one latency histogram per pipeline step.
// Each step attempted emits exactly once; skipped steps emit nothing.
type Recorder struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram

	authFailures       metric.Int64Counter
	validationFailures metric.Int64Counter

	transcriptionTotal    metric.Int64Counter
	transcriptionDuration metric.Float64Histogram

	mailTotal    metric.Int64Counter
	mailDuration metric.Float64Histogram
}

// NewRecorder creates the pipeline metric instruments on the given meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	r := &Recorder{}
	var err error

	if r.requestTotal, err = meter.Int64Counter("voice_request.total",
		metric.WithDescription("Voice capture requests by outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating voice_request.total: %w", err)
	}
	if r.requestDuration, err = meter.Float64Histogram("voice_request.duration",
		metric.WithDescription("Voice capture request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating voice_request.duration: %w", err)
	}
	if r.authFailures, err = meter.Int64Counter("auth_failure.total",
		metric.WithDescription("Rejected credentials by reason"),
	); err != nil {
		return nil, fmt.Errorf("creating auth_failure.total: %w", err)
	}
	if r.validationFailures, err = meter.Int64Counter("validation_failure.total",
		metric.WithDescription("Rejected uploads by reason"),
	); err != nil {
		return nil, fmt.Errorf("creating validation_failure.total: %w", err)
	}
	if r.transcriptionTotal, err = meter.Int64Counter("transcription.total",
		metric.WithDescription("Transcription calls by status and error code"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.total: %w", err)
	}
	if r.transcriptionDuration, err = meter.Float64Histogram("transcription.duration",
		metric.WithDescription("Transcription call duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.duration: %w", err)
	}
	if r.mailTotal, err = meter.Int64Counter("mail_send.total",
		metric.WithDescription("Mail sends by status and error code"),
	); err != nil {
		return nil, fmt.Errorf("creating mail_send.total: %w", err)
	}
	if r.mailDuration, err = meter.Float64Histogram("mail_send.duration",
		metric.WithDescription("Mail send duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating mail_send.duration: %w", err)
	}

	return r, nil
}

// RecordAuthFailure records a rejected credential. The reason stays in the
// side channel; callers only ever see a generic 401.
func (r *Recorder) RecordAuthFailure(ctx context.Context, reason string) {
	r.authFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordValidationFailure records a rejected upload.
func (r *Recorder) RecordValidationFailure(ctx context.Context, reason string) {
	r.validationFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordTranscription records one transcription attempt. Code is empty on
// success and the classified error code otherwise.
func (r *Recorder) RecordTranscription(ctx context.Context, code string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("status", statusFromCode(code)),
		attribute.String("error_code", code),
	)
	r.transcriptionTotal.Add(ctx, 1, attrs)
	r.transcriptionDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordMailSend records one mail delivery attempt. Code is empty on success
// and the classified error code otherwise.
func (r *Recorder) RecordMailSend(ctx context.Context, code string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("status", statusFromCode(code)),
		attribute.String("error_code", code),
	)
	r.mailTotal.Add(ctx, 1, attrs)
	r.mailDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordRequest records the overall request outcome. ErrorType is empty on
// success.
func (r *Recorder) RecordRequest(ctx context.Context, errorType string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("outcome", statusFromCode(errorType)),
		attribute.String("error_type", errorType),
	)
	r.requestTotal.Add(ctx, 1, attrs)
	r.requestDuration.Record(ctx, d.Seconds(), attrs)
}

func statusFromCode(code string) string {
	if code == "" {
		return "success"
	}
	return "error"
}
