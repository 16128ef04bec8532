package profile

import "context"

// Analyzer turns candidate material into an interview Profile.
type Analyzer interface {
	Analyze(ctx context.Context, doc Document) (*Profile, error)
}

const analysisPrompt = `You are an expert technical recruiter. Analyze the candidate material and produce a JSON object with exactly these fields:
- "candidateName": the candidate's full name as written
- "summary": two or three sentences describing their background
- "topics": interview topics worth probing, as an array of short strings
- "technicalSkills": concrete technologies the candidate claims, as an array of short strings
Respond with JSON only.`
