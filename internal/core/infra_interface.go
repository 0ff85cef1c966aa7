package core

import (
	"context"

	"noticeflow/internal/models"
)

// DocumentStore defines all persistence operations the services need.
// It abstracts MongoDB so higher layers never depend on a specific store,
// and tests can substitute an in-memory fake.
type DocumentStore interface {
	// InsertDocument persists doc and returns the store-generated id.
	// The store assigns CreatedAt at insertion time.
	InsertDocument(ctx context.Context, doc *models.Document) (string, error)

	// GetDocumentByID fetches one record. A malformed id yields a
	// KindInvalidID failure, a missing record KindDocumentNotFound;
	// the two are never conflated.
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)

	// ListDocuments scans records ordered by created_at descending and
	// returns the slice plus the total record count.
	ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error)

	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}

// MailSender abstracts the SMTP capability behind the dispatcher.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier schedules a notification for detached delivery. Ok is false when
// the notification could not be queued; the caller never blocks or fails on
// it either way.
type Notifier interface {
	Enqueue(n models.Notification) (ok bool)
}
