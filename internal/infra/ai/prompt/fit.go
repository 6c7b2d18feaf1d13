package prompt

import "fmt"

// FitAnalysis builds the user prompt for scoring a resume against a role
// list. The roles string is embedded exactly as the client sent it, valid
// JSON or not.
func FitAnalysis(resumeText, roles string) string {
	return fmt.Sprintf(`You are an expert HR AI assistant.

Given the CV text below and a list of internships, analyze how well the candidate fits each one.

For each internship, return:
- Match score (0-100%%)
- Matching skills
- Missing skills
- Short reasoning (max 3 sentences)

CV:
%s

Internships:
%s
`, resumeText, roles)
}
