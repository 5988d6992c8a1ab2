package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/yuin/goldmark"

	"vinylchat/internal/catalog"
	"vinylchat/internal/contextutil"
	"vinylchat/internal/service"
)

// maxBodyBytes bounds request bodies read by the JSON handlers.
const maxBodyBytes = 64 << 10

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
	markdown    goldmark.Markdown
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		markdown:    goldmark.New(),
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message   string `json:"message"`
	Mode      string `json:"mode,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Answer      string         `json:"answer"`
	AnswerHTML  string         `json:"answerHtml"`
	ToolUsed    bool           `json:"toolUsed"`
	ToolName    string         `json:"toolName,omitempty"`
	ToolArgs    map[string]any `json:"toolArgs,omitempty"`
	ToolResults []string       `json:"toolResults"`
	Stats       *catalog.Stats `json:"stats,omitempty"`
	RequestID   string         `json:"requestId"`
	Model       string         `json:"model,omitempty"`
	Confidence  float64        `json:"confidence"`
	Intent      string         `json:"intent"`
	RoutedBy    string         `json:"routedBy"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, service.ChatRequest{
		Message:   req.Message,
		Mode:      req.Mode,
		SessionID: req.SessionID,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	resp := ChatResponse{
		Answer:     svcResp.Answer,
		AnswerHTML: h.render(r, svcResp.Answer),
		ToolUsed:   svcResp.ToolUsed,
		ToolName:   svcResp.ToolName,
		ToolArgs:   svcResp.ToolArgs,
		RequestID:  svcResp.RequestID,
		Model:      svcResp.Model,
		Confidence: svcResp.Confidence,
		Intent:     svcResp.Intent,
		RoutedBy:   svcResp.RoutedBy,
	}
	if out := svcResp.ToolResults; out != nil {
		resp.ToolResults = out.Lines
		if resp.ToolResults == nil {
			resp.ToolResults = []string{}
		}
		resp.Stats = out.Stats
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

// render converts a Markdown answer to HTML. Raw HTML in the answer is escaped.
func (h *ChatHandler) render(r *http.Request, answer string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(answer), &buf); err != nil {
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to render answer", "error", err)
		return ""
	}
	return buf.String()
}
