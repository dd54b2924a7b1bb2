package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytshift/internal/batch"
)

// ActionHandler exposes the batch action protocol over HTTP. POST /actions
// runs one action document and answers with the same JSON the stdio loop
// prints, except that failures use their mapped HTTP status instead of an
// exit code. GET /health runs the status action without a payload.
type ActionHandler struct {
	batch  *batch.Handler
	logger *log.Logger
}

// NewActionHandler wraps a batch handler for HTTP serving.
func NewActionHandler(b *batch.Handler, logger *log.Logger) *ActionHandler {
	return &ActionHandler{batch: b, logger: logger}
}

// Routes returns the path patterns this handler serves.
func (h *ActionHandler) Routes() []string {
	return []string{"/actions", "/health"}
}

// ServeHTTP dispatches to the action or health endpoint.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/actions":
		h.actions(w, r)
	case "/health":
		h.health(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ActionHandler) actions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, &batch.Error{
			Message: "Missing migration payload.",
			Code:    batch.CodeInvalidInput,
			Status:  http.StatusBadRequest,
		})
		return
	}

	response, dispatchErr := h.batch.DispatchRaw(r.Context(), raw)
	if dispatchErr != nil {
		h.writeError(w, dispatchErr)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *ActionHandler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response, dispatchErr := h.batch.Dispatch(r.Context(), map[string]any{"action": "status"})
	if dispatchErr != nil {
		h.writeError(w, dispatchErr)
		return
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *ActionHandler) writeError(w http.ResponseWriter, e *batch.Error) {
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, e.Envelope())
}

func (h *ActionHandler) writeJSON(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
