package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"
)

func TestParseLevel(t *testing.T) {
	for s, l := range map[string]log.Lvl{
		"debug": log.DEBUG, "INFO": log.INFO, "": log.INFO,
		"warn": log.WARN, "error": log.ERROR, "off": log.OFF,
	} {
		if got := ParseLevel(s); got != l {
			t.Errorf("%q: got level %d, expected %d", s, got, l)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter("synth", "warn", &buf)
	lg.Info("hidden")
	lg.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "synth") {
		t.Errorf("expected warn message with prefix, got %q", out)
	}
}
