package logger

import (
	"bytes"
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")
	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestSessionID(t *testing.T) {
	ctx := context.Background()
	if got := SessionIDFromContext(ctx); got != "" {
		t.Errorf("SessionIDFromContext() = %q, want empty", got)
	}

	ctx = WithSessionID(ctx, "01HZX")
	if got := SessionIDFromContext(ctx); got != "01HZX" {
		t.Errorf("SessionIDFromContext() = %q, want %q", got, "01HZX")
	}
}

func TestL_AddsSessionID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithSessionID(WithLogger(context.Background(), l), "01HZX")
	L(ctx).Info("client connected")

	entry := decodeEntry(t, buf.Bytes())
	if entry["session_id"] != "01HZX" {
		t.Errorf("session_id = %v, want 01HZX", entry["session_id"])
	}
}
