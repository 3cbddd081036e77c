package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetup_Disabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(false, "price-service", &buf)
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSetup_ExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	shutdown, err := Setup(true, "price-service", &buf)
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "apply-update")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
	if !strings.Contains(buf.String(), "apply-update") {
		t.Errorf("expected exported span in output, got %q", buf.String())
	}
}
