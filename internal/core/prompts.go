package core

// prompts.go holds the instruction template sent to the completion service.
// Bump PromptVersion whenever the wording changes.

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"
)

// PromptVersion identifies the current wording of the pediatric prompt.
const PromptVersion = "pediatric-2024.2"

const pediatricPrompt = `You are Rhea, a friendly pediatrician with access to the following patient information:
{{.PatientInfo}}
Based on this information, please answer the following question about pediatric care: {{.Question}}

Guidelines:
- Give a short, very concise, informative and very child-friendly answer.
- Consider the patient's age, medical history, current medications and any relevant pediatric guidelines.
- Where it is safe, suggest home remedies or local tips to try before going to the doctor, and say when a doctor should be seen.
{{- if .SensitiveTopic}}
- The question raises sexual topics. If the patient is under 18, make it completely clear that sexual activity is not appropriate at their age. If the patient is 18, give only tips on how to protect themselves and stay safe.
{{- else}}
- Do not bring up sexual topics.
{{- end}}
`

// sensitiveTopic matches questions that explicitly raise sexual content.
// Only those questions get the age-check clause.
var sensitiveTopic = regexp.MustCompile(`(?i)\b(sex|sexual(ly)?|sexy|intercourse|condoms?|contracepti\w*|birth control|pregnan\w*|stds?|stis?|porn\w*|masturbat\w*|virgin(ity)?)\b`)

// CompletionRequest is the input of one completion call.  The question must
// already be in English.
type CompletionRequest struct {
	PatientInfo string
	Question    string
}

// RaisesSensitiveTopic reports whether the question mentions sexual content.
func (r CompletionRequest) RaisesSensitiveTopic() bool {
	return sensitiveTopic.MatchString(r.Question)
}

// PromptTemplate is a parsed, versioned prompt with the named slots
// PatientInfo, Question and SensitiveTopic.
type PromptTemplate struct {
	Version string
	tmpl    *template.Template
}

type promptSlots struct {
	PatientInfo    string
	Question       string
	SensitiveTopic bool
}

// NewPromptTemplate parses body as a text/template.
func NewPromptTemplate(version, body string) (*PromptTemplate, error) {
	tmpl, err := template.New(version).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", version, err)
	}
	return &PromptTemplate{Version: version, tmpl: tmpl}, nil
}

// DefaultPrompt returns the built-in pediatric prompt.
func DefaultPrompt() *PromptTemplate {
	p, err := NewPromptTemplate(PromptVersion, pediatricPrompt)
	if err != nil {
		panic(err)
	}
	return p
}

// Render fills the template for req.
func (p *PromptTemplate) Render(req CompletionRequest) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, promptSlots{
		PatientInfo:    req.PatientInfo,
		Question:       req.Question,
		SensitiveTopic: req.RaisesSensitiveTopic(),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt %s: %w", p.Version, err)
	}
	return buf.String(), nil
}
