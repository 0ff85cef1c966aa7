package chat

import (
	"context"
	"fmt"
	"strings"

	"noticeflow/internal/core"
)

const answerSystemPrompt = "You are a helpful assistant. Answer questions based on the " +
	"provided document summary and text in 20-30 words."

const answerUserPrompt = `Using the following document summary and extracted text, answer
the question in 20-30 words:

Summary: %s

Extracted Text: %s

Question: %s

Provide a clear, concise answer (20-30 words) in plain text.`

// maxAnswerWords caps overlong model answers; shorter answers pass through.
const maxAnswerWords = 30

// Engine answers free-form questions about a stored document. It rebuilds
// the model context entirely from the persisted record, so extraction is
// never re-run.
type Engine struct {
	store core.DocumentStore
	llm   core.LLMProvider

	// contextChars bounds how much extracted text goes into the prompt.
	// Longer documents are truncated to their first contextChars
	// characters rather than failing the question.
	contextChars int
}

func NewEngine(store core.DocumentStore, llm core.LLMProvider, contextChars int) *Engine {
	return &Engine{store: store, llm: llm, contextChars: contextChars}
}

// Answer looks up the document by id and asks the model the question over
// its persisted text. Lookups never mutate the record.
func (e *Engine) Answer(ctx context.Context, id, question string) (string, error) {
	doc, err := e.store.GetDocumentByID(ctx, id)
	if err != nil {
		return "", err
	}

	text := truncate(doc.ExtractedText, e.contextChars)
	prompt := fmt.Sprintf(answerUserPrompt, doc.Summary, text, question)

	answer, err := e.llm.Generate(ctx, answerSystemPrompt, prompt)
	if err != nil {
		return "", core.NewFailure(core.KindAnswerFailed, "generate answer", err)
	}
	return clampWords(strings.TrimSpace(answer), maxAnswerWords), nil
}

// truncate keeps the first limit characters so early content stays
// answerable even for oversized documents.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}

func clampWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}
