package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vinylchat/internal/contextutil"
	"vinylchat/internal/service"
	"vinylchat/internal/tools"
)

// ToolsHandler lists tools and runs them directly.
type ToolsHandler struct {
	chatService service.ChatService
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(chatService service.ChatService) *ToolsHandler {
	return &ToolsHandler{chatService: chatService}
}

// ToolCallResponse is the result of POST /api/tools/{name}.
type ToolCallResponse struct {
	Tool   string       `json:"tool"`
	Output tools.Output `json:"output"`
	Answer string       `json:"answer"`
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	descriptors := h.chatService.ListTools(ctx)
	if descriptors == nil {
		descriptors = []tools.Descriptor{}
	}
	writeJSON(ctx, w, http.StatusOK, descriptors)
}

// Call handles POST /api/tools/{name}. The body is the tool's argument
// object; an empty body means no arguments.
func (h *ToolsHandler) Call(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	name := chi.URLParam(r, "name")

	var args map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid tool arguments body", "tool", name, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.chatService.CallTool(ctx, name, args)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to run tool")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ToolCallResponse{
		Tool:   name,
		Output: out,
		Answer: service.FormatOutput(out),
	})
}
