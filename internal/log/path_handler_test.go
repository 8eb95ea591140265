package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, home string) *slog.Logger {
	return slog.New(NewPathHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}), home))
}

// TestPathHandler_ShortensHome tests that home directory prefixes become "~".
func TestPathHandler_ShortensHome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    string
		notWant string
	}{
		{
			name:    "path under home is shortened",
			value:   "/home/alice/src/a.py",
			want:    "~/src/a.py",
			notWant: "/home/alice",
		},
		{
			name:    "home itself is shortened",
			value:   "/home/alice",
			want:    "path=~",
			notWant: "/home/alice",
		},
		{
			name:  "sibling directory with common prefix is kept",
			value: "/home/alice2/a.py",
			want:  "/home/alice2/a.py",
		},
		{
			name:  "path outside home is kept",
			value: "/srv/code/a.py",
			want:  "/srv/code/a.py",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			newTestLogger(&buf, "/home/alice").Info("analyzed", "path", tt.value)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
			if tt.notWant != "" && strings.Contains(out, tt.notWant) {
				t.Errorf("output %q still contains %q", out, tt.notWant)
			}
		})
	}
}

func TestPathHandler_MessageGroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestLogger(&buf, "/home/alice").
		With("root", "/home/alice/project").
		WithGroup("file")
	logger.Info("processing /home/alice/project/a.py", slog.Group("paths", slog.String("backup", "/home/alice/project/a.py_backup")))

	out := buf.String()
	if strings.Contains(out, "/home/alice") {
		t.Errorf("output still contains the home directory: %s", out)
	}
	for _, want := range []string{"~/project/a.py", "root=~/project", "~/project/a.py_backup"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestPathHandler_EmptyHomeDisablesRewrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newTestLogger(&buf, "").Info("x", "path", "/home/alice/a.py")
	if !strings.Contains(buf.String(), "/home/alice/a.py") {
		t.Errorf("output %q was rewritten without a home directory", buf.String())
	}
}

// TestNewLogger_Levels tests that the verbose flag controls the level.
func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		level      slog.Level
		shouldShow bool
	}{
		{name: "debug hidden by default", verbose: false, level: slog.LevelDebug, shouldShow: false},
		{name: "info hidden by default", verbose: false, level: slog.LevelInfo, shouldShow: false},
		{name: "warn shown by default", verbose: false, level: slog.LevelWarn, shouldShow: true},
		{name: "debug shown when verbose", verbose: true, level: slog.LevelDebug, shouldShow: true},
		{name: "error shown when verbose", verbose: true, level: slog.LevelError, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.verbose)
			msg := "level_filter_message"
			logger.Log(context.Background(), tt.level, msg)

			if got := strings.Contains(buf.String(), msg); got != tt.shouldShow {
				t.Errorf("message shown = %v, want %v (output %q)", got, tt.shouldShow, buf.String())
			}
		})
	}
}
