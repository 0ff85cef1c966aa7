package handlers

import (
	"encoding/json"
	"net/http"

	"noticeflow/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeFailure maps a failure kind to an HTTP status. Malformed ids are bad
// requests while missing documents are 404s, so clients can always tell the
// two apart; pipeline stage failures keep their kind in the body so clients
// can tell an unreadable file from a flaky backend.
func writeFailure(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)

	var status int
	switch kind {
	case core.KindInvalidInput, core.KindInvalidID:
		status = http.StatusBadRequest
	case core.KindDocumentNotFound:
		status = http.StatusNotFound
	case core.KindExtractionFailed, core.KindSummarizationFailed,
		core.KindDetectionFailed, core.KindAnswerFailed:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}
