package skillgap

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/usecase/scoring"
)

const maxContext = 3000

func buildPrompt(p *profile.Profile, j *job.Job, m scoring.Result) string {
	missing := 100 - m.Overall

	var b strings.Builder
	b.WriteString("You are a technical recruiter analyzing a candidate.\n\n")
	b.WriteString("SYSTEM DATA (TRUTH):\n")
	fmt.Fprintf(&b, "The matching engine has calculated a verified match score of %d%%.\n", m.Overall)
	fmt.Fprintf(&b, "Breakdown: skills %d%%, experience %d%%, role %d%%.\n\n", m.Skills, m.Experience, m.Role)
	b.WriteString("YOUR TASK:\n")
	fmt.Fprintf(&b, "1. Accept the %d%% score as the absolute truth. Do not calculate your own score.\n", m.Overall)
	fmt.Fprintf(&b, "2. Explain why the score is %d%% and not 100%%.\n", m.Overall)
	fmt.Fprintf(&b, "3. Identify the specific gaps that account for the missing %d%%.\n\n", missing)
	b.WriteString("JOB DETAILS:\n")
	b.WriteString(truncate(jobContext(j), maxContext))
	b.WriteString("\n\nCANDIDATE PROFILE:\n")
	b.WriteString(truncate(profileContext(p), maxContext))
	b.WriteString("\n\nOUTPUT SCHEMA (JSON ONLY):\n")
	fmt.Fprintf(&b, `{
  "score": %d,
  "analysis": "Two sentence summary explaining the %d%% fit.",
  "gapReasoning": "Explain the missing %d%%.",
  "missingSkills": [{"name": "Skill", "category": "Framework/Tool", "importance": "High/Medium"}],
  "learningPath": [{"title": "Action", "description": "Specific resource.", "link": "https://..."}]
}`, m.Overall, m.Overall, missing)
	return b.String()
}

func jobContext(j *job.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "JOB TITLE: %s\n", j.Title)
	fmt.Fprintf(&b, "DESCRIPTION: %s\n", j.Description)
	fmt.Fprintf(&b, "REQUIREMENTS: %s\n", strings.Join(j.Requirements, "; "))
	fmt.Fprintf(&b, "DESIRED SKILLS: %s", strings.Join(j.Skills, ", "))
	return b.String()
}

func profileContext(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CANDIDATE SKILLS: %s\n", strings.Join(p.Skills, ", "))
	b.WriteString("EXPERIENCE:\n")
	for _, e := range p.Experience {
		fmt.Fprintf(&b, "%s at %s (%s): %s\n", e.Role, e.Company, e.Duration.OrElse(""), e.Description.OrElse(""))
	}
	b.WriteString("PROJECTS:\n")
	for _, pr := range p.Projects {
		fmt.Fprintf(&b, "%s: %s [%s]\n", pr.Title, pr.Description.OrElse(""), strings.Join(pr.Technologies, ", "))
	}
	fmt.Fprintf(&b, "BIO: %s", p.Bio.OrElse(""))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
