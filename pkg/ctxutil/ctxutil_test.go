package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithUserID_And_UserIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "65f1c0ffee")

	got, ok := UserIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for a set user ID")
	}
	if got != "65f1c0ffee" {
		t.Fatalf("expected %s, got %s", "65f1c0ffee", got)
	}
}

func TestUserIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := UserIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestUserIDFromCtx_EmptyID(t *testing.T) {
	t.Parallel()

	_, ok := UserIDFromCtx(WithUserID(context.Background(), ""))
	if ok {
		t.Fatal("expected ok=false for empty ID")
	}
}

func TestUserIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("user_id"), 42)

	_, ok := UserIDFromCtx(ctx)
	if ok {
		t.Fatal("expected ok=false for wrong type")
	}
}

func TestWithRequestID_And_RequestIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-abc-123")

	got := RequestIDFromCtx(ctx)
	if got != "req-abc-123" {
		t.Fatalf("expected %s, got %s", "req-abc-123", got)
	}
}

func TestRequestIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got := RequestIDFromCtx(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestRequestIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), ctxKey("request_id"), 12345)

	got := RequestIDFromCtx(ctx)
	if got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestEnsureRequestID(t *testing.T) {
	t.Parallel()

	ctx, id := EnsureRequestID(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected generated UUID, got %q", id)
	}
	if got := RequestIDFromCtx(ctx); got != id {
		t.Fatalf("expected %s on context, got %s", id, got)
	}

	same, again := EnsureRequestID(ctx)
	if again != id || same != ctx {
		t.Fatal("expected existing request ID to be kept")
	}
}
