package handlers

import (
	"context"
	"net/http"
	"time"

	"vinylchat/internal/catalog"
	"vinylchat/internal/contextutil"
	"vinylchat/internal/service"
)

// CatalogReloader refetches the collection. Implemented by catalog.Provider.
type CatalogReloader interface {
	Reload(ctx context.Context) (*catalog.Engine, error)
}

// ReloadHandler replaces the cached collection with a fresh copy.
type ReloadHandler struct {
	reloader CatalogReloader
}

// NewReloadHandler creates a ReloadHandler.
func NewReloadHandler(reloader CatalogReloader) *ReloadHandler {
	return &ReloadHandler{reloader: reloader}
}

// ReloadResponse reports the collection now being served.
type ReloadResponse struct {
	Status   string `json:"status"`
	Records  int    `json:"records"`
	LoadedAt string `json:"loadedAt"`
}

// ServeHTTP handles POST /api/reload. On failure the previous collection
// keeps being served and the response is 502.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	engine, err := h.reloader.Reload(ctx)
	if err != nil {
		handleServiceError(ctx, w, service.WrapError(service.ErrExternalService, err.Error()), "Failed to reload collection")
		return
	}

	logger.InfoContext(ctx, "collection reloaded", "records", engine.Store().Len())
	writeJSON(ctx, w, http.StatusOK, ReloadResponse{
		Status:   "reloaded",
		Records:  engine.Store().Len(),
		LoadedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
