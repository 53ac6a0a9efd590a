package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		logAt     func(l *log.Logger)
		wantLine  string
		wantEmpty bool
	}{
		{
			name:     "info passes at info level",
			level:    log.InfoLevel,
			logAt:    func(l *log.Logger) { l.Info("rendered scene") },
			wantLine: "rendered scene",
		},
		{
			name:      "debug filtered at info level",
			level:     log.InfoLevel,
			logAt:     func(l *log.Logger) { l.Debug("cache key computed") },
			wantEmpty: true,
		},
		{
			name:     "debug passes at debug level",
			level:    log.DebugLevel,
			logAt:    func(l *log.Logger) { l.Debug("cache key computed") },
			wantLine: "cache key computed",
		},
		{
			name:     "warn passes at info level",
			level:    log.InfoLevel,
			logAt:    func(l *log.Logger) { l.Warn("patches rejected") },
			wantLine: "patches rejected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logAt(newLogger(&buf, tt.level))

			out := buf.String()
			if tt.wantEmpty {
				if out != "" {
					t.Errorf("output = %q, want nothing", out)
				}
				return
			}
			if !strings.Contains(out, tt.wantLine) {
				t.Errorf("output = %q, want %q", out, tt.wantLine)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(t.Context(), logger)
	loggerFromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("output = %q", buf.String())
	}

	// A bare context falls back to a usable default.
	if loggerFromContext(t.Context()) == nil {
		t.Error("loggerFromContext should never return nil")
	}
}
