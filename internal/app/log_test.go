package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlmHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		op      string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			op:      "Serve",
			level:   slog.LevelInfo,
			message: "annotation saved",
			want:    "2024-06-15T14:30:45Z\tINFO\tServe\tannotation saved\n",
		},
		{
			name:    "debug level",
			op:      "Stats",
			level:   slog.LevelDebug,
			message: "scanning prefix",
			want:    "2024-06-15T14:30:45Z\tDEBUG\tStats\tscanning prefix\n",
		},
		{
			name:    "with record attrs",
			op:      "Serve",
			level:   slog.LevelWarn,
			message: "identifier rewritten",
			attrs:   []slog.Attr{slog.String("field", "userId"), slog.Int("changes", 2)},
			want:    "2024-06-15T14:30:45Z\tWARN\tServe\tidentifier rewritten\tfield=userId\tchanges=2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &slmHandler{w: &buf, op: tt.op}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestSlmHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &slmHandler{w: &buf, op: "Serve"}

	// Add pre-set attrs
	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "store")}).(*slmHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "saved", 0)
	r.AddAttrs(slog.String("key", "annotations/alice/s1.json"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=store") {
		t.Errorf("expected pre-set attr component=store, got: %q", got)
	}
	if !strings.Contains(got, "key=annotations/alice/s1.json") {
		t.Errorf("expected record attr, got: %q", got)
	}
}

func TestSlmHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &slmHandler{w: &buf, op: "Serve", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*slmHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestSlmHandler_Enabled(t *testing.T) {
	h := &slmHandler{}
	// All levels should be enabled
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "Serve")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
}
