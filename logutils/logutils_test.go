package logutils

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", "json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("loud", "json", nil); err == nil {
		t.Error("unknown level should fail")
	}
	if _, err := New("info", "xml", nil); err == nil {
		t.Error("unknown format should fail")
	}
}
