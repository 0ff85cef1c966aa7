package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"noticeflow/internal/core"
	"noticeflow/internal/core/pipeline"
	"noticeflow/internal/services"
)

const maxUploadBytes = 32 << 20 // 32 MB

type DocumentHandler struct {
	pipeline *pipeline.Pipeline
	docs     *services.DocumentService
	log      zerolog.Logger
}

func NewDocumentHandler(p *pipeline.Pipeline, docs *services.DocumentService, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{pipeline: p, docs: docs, log: log.With().Str("component", "document_handler").Logger()}
}

// Upload receives a multipart PDF and drives it through the ingestion
// pipeline. The client is suspended until the record is persisted and gets
// its id back; notification delivery continues in the background.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeFailure(w, core.NewFailure(core.KindInvalidInput, "invalid multipart body", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, core.NewFailure(core.KindInvalidInput, "missing file field", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeFailure(w, core.NewFailure(core.KindInvalidInput, "read upload", err))
		return
	}

	// Strip any path components the client sent along.
	filename := filepath.Base(header.Filename)

	resp, err := h.pipeline.Process(r.Context(), data, filename)
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("upload failed")
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List returns a page of stored documents. Query params page and limit
// default to 1 and 5; out-of-range values are clamped by the service.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", services.DefaultPage)
	limit := queryInt(r, "limit", services.DefaultLimit)

	docPage, err := h.docs.List(r.Context(), page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list documents failed")
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, docPage)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
