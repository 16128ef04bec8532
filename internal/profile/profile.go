package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxTextChars bounds how much raw candidate text is sent for analysis.
const MaxTextChars = 20000

// ErrAnalysisFailed marks analyzer output that could not be turned into a
// usable profile.
var ErrAnalysisFailed = errors.New("profile analysis failed")

// Profile is the structured candidate summary the interviewer is briefed
// with before the session starts.
type Profile struct {
	CandidateName   string   `json:"candidateName"`
	Summary         string   `json:"summary"`
	Topics          []string `json:"topics"`
	TechnicalSkills []string `json:"technicalSkills"`
}

// Document is raw candidate material: plain text, or a binary upload with
// its media type.
type Document struct {
	Text string
	Data []byte
	MIME string
}

func (d Document) IsBinary() bool {
	return len(d.Data) > 0
}

// TruncateText caps text at MaxTextChars runes.
func TruncateText(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextChars {
		return text
	}
	return string(runes[:MaxTextChars])
}

// ParseProfile validates a model response into a Profile. Markdown fences
// around the JSON are tolerated; any missing field fails the analysis.
func ParseProfile(raw string) (*Profile, error) {
	var aux struct {
		CandidateName   *string   `json:"candidateName"`
		Summary         *string   `json:"summary"`
		Topics          *[]string `json:"topics"`
		TechnicalSkills *[]string `json:"technicalSkills"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &aux); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if aux.CandidateName == nil || strings.TrimSpace(*aux.CandidateName) == "" {
		return nil, fmt.Errorf("%w: missing candidateName", ErrAnalysisFailed)
	}
	if aux.Summary == nil {
		return nil, fmt.Errorf("%w: missing summary", ErrAnalysisFailed)
	}
	if aux.Topics == nil {
		return nil, fmt.Errorf("%w: missing topics", ErrAnalysisFailed)
	}
	if aux.TechnicalSkills == nil {
		return nil, fmt.Errorf("%w: missing technicalSkills", ErrAnalysisFailed)
	}
	return &Profile{
		CandidateName:   *aux.CandidateName,
		Summary:         *aux.Summary,
		Topics:          *aux.Topics,
		TechnicalSkills: *aux.TechnicalSkills,
	}, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
