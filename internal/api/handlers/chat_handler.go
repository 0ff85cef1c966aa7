package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"noticeflow/internal/core"
	"noticeflow/internal/core/chat"
	"noticeflow/internal/models"
)

type ChatHandler struct {
	engine *chat.Engine
	log    zerolog.Logger
}

func NewChatHandler(engine *chat.Engine, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{engine: engine, log: log.With().Str("component", "chat_handler").Logger()}
}

// Ask answers a question about a previously ingested document.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, core.NewFailure(core.KindInvalidInput, "invalid request body", err))
		return
	}
	if strings.TrimSpace(req.MongoID) == "" || strings.TrimSpace(req.Question) == "" {
		writeFailure(w, core.NewFailure(core.KindInvalidInput, "mongo_id and question are required", nil))
		return
	}

	answer, err := h.engine.Answer(r.Context(), req.MongoID, req.Question)
	if err != nil {
		h.log.Error().Err(err).Str("doc_id", req.MongoID).Msg("chat failed")
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Answer: answer})
}
