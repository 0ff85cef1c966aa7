package core

import (
	"errors"
	"fmt"
)

// FailureKind identifies which stage or lookup produced an error, so callers
// can tell "your file is unreadable" apart from "try again later".
type FailureKind string

const (
	KindInvalidInput        FailureKind = "invalid_input"
	KindExtractionFailed    FailureKind = "extraction_failed"
	KindSummarizationFailed FailureKind = "summarization_failed"
	KindDetectionFailed     FailureKind = "detection_failed"
	KindStorageFailed       FailureKind = "storage_failed"
	KindInvalidID           FailureKind = "invalid_id"
	KindDocumentNotFound    FailureKind = "document_not_found"
	KindAnswerFailed        FailureKind = "answer_generation_failed"
	KindDispatchFailed      FailureKind = "dispatch_failed"
)

// Failure carries a kind alongside the underlying cause.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure wraps err with a kind and message.
func NewFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// KindOf reports the failure kind of err, or "" for untyped errors.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind FailureKind) bool {
	return KindOf(err) == kind
}
