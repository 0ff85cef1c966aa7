package services

import (
	"context"

	"noticeflow/internal/core"
	"noticeflow/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 50
)

// DocumentService exposes the read paths over stored documents.
type DocumentService struct {
	store core.DocumentStore
}

func NewDocumentService(store core.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns one page of documents, most recent first, with a pagination
// envelope. Out-of-range parameters are clamped, never rejected: page below
// 1 becomes 1, limit below 1 becomes 1, limit above MaxLimit becomes
// MaxLimit. A page past the end returns empty data with a valid envelope.
func (s *DocumentService) List(ctx context.Context, page, limit int) (*models.DocumentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	skip := int64(page-1) * int64(limit)
	docs, total, err := s.store.ListDocuments(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &models.DocumentPage{
		Data: docs,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// Get fetches a single document by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.store.GetDocumentByID(ctx, id)
}
