package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noticeflow/internal/core"
	"noticeflow/internal/core/analysis"
	"noticeflow/internal/core/chat"
	"noticeflow/internal/core/pipeline"
	"noticeflow/internal/models"
	"noticeflow/internal/services"
)

type fakeStore struct {
	docs    []models.Document
	pingErr error
}

func (s *fakeStore) InsertDocument(ctx context.Context, doc *models.Document) (string, error) {
	doc.ID = primitive.NewObjectID()
	s.docs = append([]models.Document{*doc}, s.docs...)
	return doc.ID.Hex(), nil
}

func (s *fakeStore) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, core.NewFailure(core.KindInvalidID, "malformed document id", err)
	}
	for i := range s.docs {
		if s.docs[i].ID.Hex() == id {
			return &s.docs[i], nil
		}
	}
	return nil, core.NewFailure(core.KindDocumentNotFound, "no such document", nil)
}

func (s *fakeStore) ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error) {
	total := int64(len(s.docs))
	if skip >= total {
		return []models.Document{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return s.docs[skip:end], total, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }

func (s *fakeStore) Close(ctx context.Context) error { return nil }

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) ExtractText(ctx context.Context, data []byte, mediaType string) (string, error) {
	return e.text, e.err
}

type fakeLLM struct {
	text    string
	textErr error
	json    string
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.text, f.textErr
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.json, nil
}

type fakeNotifier struct {
	queued []models.Notification
}

func (n *fakeNotifier) Enqueue(notification models.Notification) bool {
	n.queued = append(n.queued, notification)
	return true
}

func multipartPDF(t *testing.T, filename string, body []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newDocumentHandler(store *fakeStore, ext *fakeExtractor, llm *fakeLLM, notifier *fakeNotifier) *DocumentHandler {
	p := pipeline.NewPipeline(store, ext, analysis.NewAnalyzer(llm), notifier, zerolog.Nop())
	return NewDocumentHandler(p, services.NewDocumentService(store), zerolog.Nop())
}

func TestUpload(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	h := newDocumentHandler(store,
		&fakeExtractor{text: "Policy update. Contact HR at hr@co.com."},
		&fakeLLM{text: "- Policy update", json: `[{"name":"HR","email":"hr@co.com"}]`},
		notifier)

	body, contentType := multipartPDF(t, "notice.pdf", []byte("%PDF-1.7 data"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SummaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "notice.pdf", resp.Filename)
	assert.NotEmpty(t, resp.MongoID)
	require.Len(t, resp.Departments, 1)
	assert.Len(t, notifier.queued, 1)
}

func TestUploadErrors(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		h := newDocumentHandler(&fakeStore{}, &fakeExtractor{}, &fakeLLM{json: "[]"}, &fakeNotifier{})

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		h.Upload(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty file", func(t *testing.T) {
		store := &fakeStore{}
		h := newDocumentHandler(store, &fakeExtractor{}, &fakeLLM{json: "[]"}, &fakeNotifier{})

		body, contentType := multipartPDF(t, "notice.pdf", nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Upload(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, store.docs)
	})

	t.Run("extraction failure is a gateway error", func(t *testing.T) {
		store := &fakeStore{}
		h := newDocumentHandler(store, &fakeExtractor{err: errors.New("ocr down")}, &fakeLLM{json: "[]"}, &fakeNotifier{})

		body, contentType := multipartPDF(t, "notice.pdf", []byte("%PDF-1.7 data"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Upload(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Empty(t, store.docs)

		var errResp struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
		assert.Equal(t, string(core.KindExtractionFailed), errResp.Kind)
	})
}

func TestListDefaults(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 7; i++ {
		_, err := store.InsertDocument(context.Background(), &models.Document{Filename: "n.pdf"})
		require.NoError(t, err)
	}
	h := newDocumentHandler(store, &fakeExtractor{}, &fakeLLM{json: "[]"}, &fakeNotifier{})

	req := httptest.NewRequest(http.MethodGet, "/all", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.DocumentPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 5, page.Pagination.Limit)
	assert.Equal(t, int64(7), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
}

func TestListClampsParams(t *testing.T) {
	h := newDocumentHandler(&fakeStore{}, &fakeExtractor{}, &fakeLLM{json: "[]"}, &fakeNotifier{})

	req := httptest.NewRequest(http.MethodGet, "/all?page=-3&limit=900", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.DocumentPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, services.MaxLimit, page.Pagination.Limit)
}

func newChatHandler(store *fakeStore, llm *fakeLLM) *ChatHandler {
	return NewChatHandler(chat.NewEngine(store, llm, 20000), zerolog.Nop())
}

func TestChat(t *testing.T) {
	store := &fakeStore{}
	id, err := store.InsertDocument(context.Background(), &models.Document{
		Filename:      "notice.pdf",
		ExtractedText: "Policy update effective Jan 2024.",
		Summary:       "- Policy update",
	})
	require.NoError(t, err)

	h := newChatHandler(store, &fakeLLM{text: "The policy update takes effect in January 2024."})

	body, _ := json.Marshal(models.ChatRequest{MongoID: id, Question: "When?"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Answer, "January 2024")
}

func TestUploadThenChat(t *testing.T) {
	// Read-after-write: the id returned by upload answers an immediate
	// chat request against the same store.
	store := &fakeStore{}
	llm := &fakeLLM{text: "The policy takes effect in January 2024.", json: `[{"name":"HR","email":"hr@co.com"}]`}
	docHandler := newDocumentHandler(store, &fakeExtractor{text: "Policy update effective Jan 2024."}, llm, &fakeNotifier{})

	body, contentType := multipartPDF(t, "notice.pdf", []byte("%PDF-1.7 data"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	docHandler.Upload(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded models.SummaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&uploaded))

	chatHandler := newChatHandler(store, llm)
	chatBody, _ := json.Marshal(models.ChatRequest{MongoID: uploaded.MongoID, Question: "When does it take effect?"})
	chatReq := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(chatBody))
	chatRec := httptest.NewRecorder()
	chatHandler.Ask(chatRec, chatReq)

	require.Equal(t, http.StatusOK, chatRec.Code)
}

func TestChatErrorStatuses(t *testing.T) {
	h := newChatHandler(&fakeStore{}, &fakeLLM{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", "{not json", http.StatusBadRequest},
		{"missing fields", `{"mongo_id":"","question":""}`, http.StatusBadRequest},
		{"malformed id", `{"mongo_id":"zzz","question":"q"}`, http.StatusBadRequest},
		{"missing document", `{"mongo_id":"` + primitive.NewObjectID().Hex() + `","question":"q"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Ask(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(&fakeStore{})
		rec := httptest.NewRecorder()
		h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store unreachable", func(t *testing.T) {
		h := NewHealthHandler(&fakeStore{pingErr: errors.New("no reachable servers")})
		rec := httptest.NewRecorder()
		h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
