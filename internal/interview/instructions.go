package interview

import (
	"fmt"
	"strings"

	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

// BuildInstructions renders the interviewer briefing for a candidate
// profile. The text names the candidate and lists every planned topic.
func BuildInstructions(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a friendly, professional technical interviewer conducting a spoken screening interview with %s.\n\n", p.CandidateName)
	if p.Summary != "" {
		fmt.Fprintf(&b, "Candidate background: %s\n\n", p.Summary)
	}
	if len(p.Topics) > 0 {
		b.WriteString("Cover each of these topics in order:\n")
		for i, topic := range p.Topics {
			fmt.Fprintf(&b, "%d. %s\n", i+1, topic)
		}
		b.WriteString("\n")
	}
	if len(p.TechnicalSkills) > 0 {
		fmt.Fprintf(&b, "Probe their claimed skills: %s.\n\n", strings.Join(p.TechnicalSkills, ", "))
	}
	b.WriteString("Keep questions short and conversational. Ask one question at a time and follow up on vague answers. Begin by greeting the candidate by name and introducing the interview.")
	return b.String()
}
