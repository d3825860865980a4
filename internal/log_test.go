package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(LogLevelWarn)

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	logger.Error("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message leaked at WARN level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") || !strings.Contains(out, "[ERROR] shown 3") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"error":   LogLevelError,
		"WARN":    LogLevelWarn,
		"warning": LogLevelWarn,
		" debug ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for input, want := range cases {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(LogLevelError)
	logger.SetLevel(LogLevelDebug)
	logger.Debug("now visible")

	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Errorf("expected debug line after SetLevel, got %q", buf.String())
	}
	if logger.GetLevel() != LogLevelDebug {
		t.Errorf("GetLevel = %s, want DEBUG", logger.GetLevel())
	}
}
