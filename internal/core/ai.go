package core

import "context"

// LLMProvider abstracts the language-model capability. It is used three
// ways: summary generation, department/email extraction, and short-answer
// chat.
type LLMProvider interface {
	// Generate returns the model's plain-text completion.
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)

	// GenerateJSON requests a completion constrained to a JSON response.
	// The raw response is returned untrusted; callers must parse-or-fail.
	GenerateJSON(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// TextExtractor abstracts the OCR capability: raw document bytes plus a
// declared media type in, plain text out. An empty string with a nil error
// means the document genuinely contained no text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mediaType string) (string, error)
}
