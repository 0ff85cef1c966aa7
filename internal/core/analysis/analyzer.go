package analysis

import (
	"context"
	"fmt"

	"noticeflow/internal/core"
	"noticeflow/internal/models"
)

const summarySystemPrompt = "You are a helpful assistant that summarizes documents. " +
	"Write in a professional tone suitable for direct communication to a user."

const summaryUserPrompt = `Summarize the following text extracted from a PDF document
into a clear, concise version in bullet-point format:

%s`

const departmentSystemPrompt = "You are an assistant that extracts department names and " +
	"email addresses from documents. Always return a JSON array of objects with a " +
	"\"name\" (string) and \"email\" (string or null) field. Return an empty array " +
	"when no departments are mentioned."

const departmentUserPrompt = `Identify all departments or organizational units mentioned
in the following text and extract their associated email addresses, if available.
Each entry must include the department name and its email; use null when no email
is provided. Keep the order in which they appear.

Return strictly a JSON array:
[
  {"name": "<department_name>", "email": "<department_email_or_null>"},
  ...
]

Text:
%s`

// Analyzer derives the summary and the department/contact list from
// extracted text, using the language-model capability twice with
// independent prompts.
type Analyzer struct {
	llm core.LLMProvider
}

func NewAnalyzer(llm core.LLMProvider) *Analyzer {
	return &Analyzer{llm: llm}
}

// Summarize returns a bullet-style summary of text.
func (a *Analyzer) Summarize(ctx context.Context, text string) (string, error) {
	out, err := a.llm.Generate(ctx, summarySystemPrompt, fmt.Sprintf(summaryUserPrompt, text))
	if err != nil {
		return "", core.NewFailure(core.KindSummarizationFailed, "summarize document", err)
	}
	return out, nil
}

// DetectDepartments extracts the ordered (name, optional email) list from
// text. Any shape mismatch in the model's response is a detection failure,
// never passed downstream.
func (a *Analyzer) DetectDepartments(ctx context.Context, text string) ([]models.Department, error) {
	raw, err := a.llm.GenerateJSON(ctx, departmentSystemPrompt, fmt.Sprintf(departmentUserPrompt, text))
	if err != nil {
		return nil, core.NewFailure(core.KindDetectionFailed, "detect departments", err)
	}

	departments, err := ParseDepartments(raw)
	if err != nil {
		return nil, core.NewFailure(core.KindDetectionFailed, "parse department response", err)
	}
	return departments, nil
}
