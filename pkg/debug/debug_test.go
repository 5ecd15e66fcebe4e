package debug

import (
	"log/slog"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		input string
		check string
		want  bool
	}{
		{"", "dispatch", false},
		{"dispatch", "dispatch", true},
		{"router, dispatch", "dispatch", true},
		{"ROUTER", "router", true},
		{"router", "dispatch", false},
	}

	for _, tt := range tests {
		cats := parseCategories(tt.input)
		if got := cats[tt.check]; got != tt.want {
			t.Errorf("parseCategories(%q)[%q] = %v, want %v", tt.input, tt.check, got, tt.want)
		}
	}
}

func TestEnabledAll(t *testing.T) {
	old := categories
	defer func() { categories = old }()

	categories = parseCategories("all")
	if !Enabled("anything") {
		t.Error("Enabled(anything) = false with all enabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
