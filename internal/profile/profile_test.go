package profile

import (
	"errors"
	"strings"
	"testing"
)

func TestParseProfile_ValidResponse(t *testing.T) {
	raw := `{"candidateName":"Dana","summary":"Backend engineer.","topics":["APIs","databases"],"technicalSkills":["Go","SQL"]}`
	p, err := ParseProfile(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CandidateName != "Dana" {
		t.Errorf("expected candidate Dana, got %q", p.CandidateName)
	}
	if p.Summary != "Backend engineer." {
		t.Errorf("expected summary, got %q", p.Summary)
	}
	if len(p.Topics) != 2 || p.Topics[0] != "APIs" || p.Topics[1] != "databases" {
		t.Errorf("expected topics [APIs databases], got %v", p.Topics)
	}
	if len(p.TechnicalSkills) != 2 || p.TechnicalSkills[0] != "Go" {
		t.Errorf("expected skills [Go SQL], got %v", p.TechnicalSkills)
	}
}

func TestParseProfile_ToleratesMarkdownFences(t *testing.T) {
	raw := "```json\n{\"candidateName\":\"Dana\",\"summary\":\"s\",\"topics\":[],\"technicalSkills\":[]}\n```"
	p, err := ParseProfile(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CandidateName != "Dana" {
		t.Errorf("expected candidate Dana, got %q", p.CandidateName)
	}
}

func TestParseProfile_MissingFieldsFail(t *testing.T) {
	cases := map[string]string{
		"no name":    `{"summary":"s","topics":[],"technicalSkills":[]}`,
		"empty name": `{"candidateName":"  ","summary":"s","topics":[],"technicalSkills":[]}`,
		"no summary": `{"candidateName":"Dana","topics":[],"technicalSkills":[]}`,
		"no topics":  `{"candidateName":"Dana","summary":"s","technicalSkills":[]}`,
		"no skills":  `{"candidateName":"Dana","summary":"s","topics":[]}`,
		"not json":   `the candidate looks great`,
	}
	for name, raw := range cases {
		if _, err := ParseProfile(raw); !errors.Is(err, ErrAnalysisFailed) {
			t.Errorf("%s: expected ErrAnalysisFailed, got %v", name, err)
		}
	}
}

func TestTruncateText_CapsAtRuneLimit(t *testing.T) {
	short := "hello"
	if got := TruncateText(short); got != short {
		t.Errorf("expected short text unchanged, got %q", got)
	}

	long := strings.Repeat("é", MaxTextChars+5)
	got := TruncateText(long)
	if runeCount := len([]rune(got)); runeCount != MaxTextChars {
		t.Errorf("expected %d runes, got %d", MaxTextChars, runeCount)
	}
	if !strings.HasSuffix(got, "é") {
		t.Error("expected truncation on a rune boundary")
	}
}

func TestDocument_IsBinary(t *testing.T) {
	if (Document{Text: "resume"}).IsBinary() {
		t.Error("expected text document to not be binary")
	}
	if !(Document{Data: []byte{0x25, 0x50}, MIME: "application/pdf"}).IsBinary() {
		t.Error("expected data document to be binary")
	}
}
