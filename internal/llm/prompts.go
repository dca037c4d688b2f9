package llm

import "fmt"

// RewritePrompt builds the single user message for the rewrite operation.
// The job description is embedded verbatim, unescaped.
func RewritePrompt(jobDescription string) string {
	return fmt.Sprintf(`Rewrite the following job description into an ATS-optimized resume job history entry. Your output must *strictly* follow this format:
Role Title: [Role Name]
Dates of Employment: [Start Date] – [End Date] (e.g., 'Jan 2020 – Dec 2023')
- [Quantifiable bullet point 1]
- [Quantifiable bullet point 2]
- [Quantifiable bullet point 3]
...

Focus on quantifiable results relevant to the job description. Do not include any additional text, explanations, or conversational elements.

Job Description:
%s

Rewritten Job Description:`, jobDescription)
}

// AnalyzePrompt builds the single user message for the analyze operation.
// Resume and job description are embedded verbatim; the rubric and the
// required JSON schema are fixed.
func AnalyzePrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) resume reviewer. Analyze the resume below against the job description and score it in each of these five categories, 0-100:

content:
- Relevant skills and experience matching the job description
- Quantifiable achievements and impact statements
- Appropriate depth for the target role
format:
- Clean, ATS-parseable structure (no tables, columns, or images)
- Consistent section headings and date formats
- Appropriate length
optimization:
- Keywords from the job description present in the resume
- Industry-standard terminology
- Role title alignment
bestPractices:
- Active voice and strong action verbs
- No typos, personal pronouns, or outdated conventions
- Contact details and section ordering
applicationReady:
- Overall readiness to submit for this specific job
- Tailoring to this employer and role

Respond with ONLY a JSON object, no other text, in exactly this format:
{
  "summary": "1-4 sentence overall assessment",
  "overallScore": number,
  "categoryScores": {
    "content": number,
    "format": number,
    "optimization": number,
    "bestPractices": number,
    "applicationReady": number
  },
  "recommendations": {
    "content": ["short actionable recommendation", ...],
    "format": [...],
    "optimization": [...],
    "bestPractices": [...],
    "applicationReady": [...]
  }
}

Resume:
%s

Job Description:
%s`, resumeText, jobDescription)
}
