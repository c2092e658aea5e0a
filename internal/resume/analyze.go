package resume

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/careerbridge/careerbridge/internal/llm"
)

//go:embed analysis_schema.json
var analysisSchema string

// Analysis is the structured summary of a resume against a job posting.
type Analysis struct {
	CandidateSummary string   `json:"candidate_summary"`
	KeySkills        []string `json:"key_skills"`
	JobFit           JobFit   `json:"job_fit"`
}

// JobFit scores the candidate against one job.
type JobFit struct {
	Score      float64  `json:"score"`
	Assessment string   `json:"assessment"`
	Strengths  []string `json:"strengths,omitempty"`
	Gaps       []string `json:"gaps,omitempty"`
}

// JobContext is the job posting the resume is analyzed against.
type JobContext struct {
	Title            string
	CompanyName      string
	Description      string
	MinCGPA          float64
	EligibleBranches []string
}

// Analyzer produces analyses via a generative model.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer wraps an LLM client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

const maxResumeChars = 20000

// Analyze summarizes the resume text for the recruiter reviewing an
// application. The model reply is validated against the embedded schema
// before it is trusted.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string, job *JobContext) (*Analysis, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is empty")
	}
	if len(resumeText) > maxResumeChars {
		resumeText = resumeText[:maxResumeChars]
	}

	raw, err := a.client.GenerateJSON(ctx, buildPrompt(resumeText, job), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	if err := validateAnalysis(raw); err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &analysis, nil
}

func buildPrompt(resumeText string, job *JobContext) string {
	var b strings.Builder
	b.WriteString("You are a campus placement assistant. Analyze the resume below against the job posting.\n")
	b.WriteString("Respond with a single JSON object with this shape:\n")
	b.WriteString(`{"candidate_summary": "2-3 sentence summary", "key_skills": ["skill"], "job_fit": {"score": 0-10, "assessment": "short assessment", "strengths": ["..."], "gaps": ["..."]}}`)
	b.WriteString("\n\nJob posting:\n")
	fmt.Fprintf(&b, "Title: %s\nCompany: %s\n", job.Title, job.CompanyName)
	if job.MinCGPA > 0 {
		fmt.Fprintf(&b, "Minimum CGPA: %.2f\n", job.MinCGPA)
	}
	if len(job.EligibleBranches) > 0 {
		fmt.Fprintf(&b, "Eligible branches: %s\n", strings.Join(job.EligibleBranches, ", "))
	}
	fmt.Fprintf(&b, "Description:\n%s\n", job.Description)
	fmt.Fprintf(&b, "\nResume:\n%s\n", resumeText)
	return b.String()
}

func validateAnalysis(raw string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(analysisSchema),
		gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate analysis: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("model returned invalid analysis: %s", strings.Join(msgs, "; "))
	}
	return nil
}
