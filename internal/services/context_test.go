package services_test

import (
	"context"
	"testing"

	"leadradar/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithSignalID(ctx, "sig_1")
	ctx = services.WithSource(ctx, "borme")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if id, ok := services.SignalIDFromContext(ctx); !ok || id != "sig_1" {
		t.Fatalf("unexpected signal id: %v %v", id, ok)
	}
	if source, ok := services.SourceFromContext(ctx); !ok || source != "borme" {
		t.Fatalf("unexpected source: %v %v", source, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSource(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.SourceFromContext(ctx); ok {
		t.Fatal("expected no source value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}
