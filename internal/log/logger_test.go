package log

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupFormats(t *testing.T) {
	for _, format := range []string{"text", "json", "pretty"} {
		logger := Setup("info", format)
		if logger == nil {
			t.Fatalf("Setup(%q) returned nil", format)
		}
		if !logger.Enabled(context.Background(), slog.LevelInfo) {
			t.Errorf("Setup(%q) should enable info", format)
		}
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			t.Errorf("Setup(%q) should not enable debug", format)
		}
	}
}
