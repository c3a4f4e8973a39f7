package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewRecorder(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	r, err := NewRecorder(meter)
	if err != nil {
		t.Fatalf("unexpected error creating recorder: %v", err)
	}
	if r == nil {
		t.Fatal("expected non-nil recorder")
	}

	// Recording against a noop meter must not panic.
	ctx := context.Background()
	r.RecordAuthFailure(ctx, "invalid_token")
	r.RecordValidationFailure(ctx, "empty_file")
	r.RecordTranscription(ctx, "", 120*time.Millisecond)
	r.RecordTranscription(ctx, "TIMEOUT", 30*time.Second)
	r.RecordMailSend(ctx, "SMTP_CONNECTION_FAILED", 5*time.Millisecond)
	r.RecordRequest(ctx, "", 200*time.Millisecond)
}

func TestInitMeterDisabledWithoutEndpoint(t *testing.T) {
	mp, err := InitMeter(context.Background(), MeterConfig{ServiceName: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mp != nil {
		t.Fatal("expected nil provider when no endpoint configured")
	}
}

func TestStatusFromCode(t *testing.T) {
	if statusFromCode("") != "success" {
		t.Error("empty code must map to success")
	}
	if statusFromCode("TIMEOUT") != "error" {
		t.Error("non-empty code must map to error")
	}
}
