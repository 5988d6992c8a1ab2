package handlers

import (
	"context"
	"net/http"
	"strconv"

	"vinylchat/internal/contextutil"
	"vinylchat/internal/storage"
)

// ChatHistory reads recent chat log entries. Implemented by storage.ChatLogRepo.
type ChatHistory interface {
	Recent(ctx context.Context, limit int) ([]storage.ChatLogEntry, error)
}

// HistoryHandler serves the chat audit log.
type HistoryHandler struct {
	history ChatHistory
}

// NewHistoryHandler creates a HistoryHandler. A nil history disables the endpoint.
func NewHistoryHandler(history ChatHistory) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ServeHTTP handles GET /api/history?limit=N.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.history == nil {
		writeError(w, http.StatusNotFound, "Chat history is disabled")
		return
	}

	limit := storage.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read chat history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read chat history")
		return
	}
	writeJSON(ctx, w, http.StatusOK, entries)
}
