package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "test message", String("k", "v"), Int("n", 3))

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Errorf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "k=v") || !strings.Contains(out, "n=3") {
		t.Errorf("missing fields in output: %q", out)
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	named := Named("geek")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(context.Background(), "fetching", String("endpoint", "plays"))
	if !strings.Contains(buf.String(), "geek.endpoint=plays") {
		t.Errorf("named group missing from output: %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", "DEBUG"} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("unexpected error for level %q: %v", level, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}

	// Debug lines are dropped above debug level.
	if err := SetLevelString("error"); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	Get().Debug(context.Background(), "quiet")
	if buf.Len() != 0 {
		t.Errorf("debug output leaked at error level: %q", buf.String())
	}
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Error(context.Background(), "failed", Error(errors.New("boom")))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("error value missing from output: %q", buf.String())
	}
}
