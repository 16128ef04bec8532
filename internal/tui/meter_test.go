package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestMeter_RendersLevel(t *testing.T) {
	var buf bytes.Buffer
	meter := NewMeter(&buf)

	meter.Update(0.5)

	out := buf.String()
	if !strings.HasPrefix(out, "\r") {
		t.Error("expected the meter to redraw in place with a carriage return")
	}
	if !strings.Contains(out, "50%") {
		t.Errorf("expected 50%% in output, got %q", out)
	}
	if !strings.Contains(out, "█") {
		t.Errorf("expected a filled bar segment, got %q", out)
	}
}

func TestMeter_ClampsOutOfRangeLevels(t *testing.T) {
	var buf bytes.Buffer
	meter := NewMeter(&buf)

	meter.Update(1.5)
	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("expected clamp to 100%%, got %q", buf.String())
	}

	buf.Reset()
	meter.Update(-0.2)
	if !strings.Contains(buf.String(), "  0%") {
		t.Errorf("expected clamp to 0%%, got %q", buf.String())
	}
}

func TestMeter_ClearBlanksTheLine(t *testing.T) {
	var buf bytes.Buffer
	meter := NewMeter(&buf)

	meter.Update(0.8)
	buf.Reset()
	meter.Clear()

	out := buf.String()
	if !strings.HasPrefix(out, "\r") || !strings.HasSuffix(out, "\r") {
		t.Errorf("expected clear to return to line start, got %q", out)
	}
	if strings.ContainsRune(out, '█') {
		t.Error("expected no bar segments after clear")
	}
}
