package handlers

import (
	"context"
	"net/http"
	"time"

	"vinylchat/internal/catalog"
	"vinylchat/internal/contextutil"
)

// CatalogChecker reports on the catalog load. Implemented by catalog.Provider.
type CatalogChecker interface {
	Engine(ctx context.Context) (*catalog.Engine, error)
	Status() catalog.ProviderStatus
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	catalog            CatalogChecker
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker CatalogChecker) *HealthHandler {
	return &HealthHandler{
		catalog:            checker,
		healthCheckTimeout: 10 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Number of records in the loaded catalog
	Records int `json:"records"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP loads the catalog if needed and reports its state. It returns
// 503 when no catalog could be loaded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]string{"catalog": "ok"},
	}
	httpStatus := http.StatusOK

	if _, err := h.catalog.Engine(checkCtx); err != nil {
		logger.WarnContext(ctx, "catalog health check failed", "error", err)
		response.Status = "unhealthy"
		response.Checks["catalog"] = "error"
		response.Issues = append(response.Issues, "catalog_unavailable")
		httpStatus = http.StatusServiceUnavailable
	}

	status := h.catalog.Status()
	response.Records = status.Records
	if httpStatus == http.StatusOK && status.LastError != nil {
		// A reload failed; the previous catalog is still served.
		response.Status = "degraded"
		response.Issues = append(response.Issues, "catalog_reload_failed")
	}

	writeJSON(ctx, w, httpStatus, response)
}
