package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_tool_dispatcher.go -package=mocks vinylchat/internal/service ToolDispatcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_tool_selector.go -package=mocks vinylchat/internal/service ToolSelector
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_log_store.go -package=mocks vinylchat/internal/service ChatLogStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService vinylchat/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"vinylchat/internal/catalog"
	"vinylchat/internal/contextutil"
	"vinylchat/internal/router"
	"vinylchat/internal/storage"
	"vinylchat/internal/tools"
)

// Routing modes accepted in ChatRequest.Mode.
const (
	ModeAuto          = "auto"
	ModeDeterministic = "deterministic"
	ModeLLM           = "llm"
)

// Values of ChatResponse.RoutedBy.
const (
	RoutedByRouter = "router"
	RoutedByLLM    = "llm"
)

// ToolDispatcher runs named tools. Implemented by tools.Registry.
type ToolDispatcher interface {
	List() []tools.Descriptor
	Call(ctx context.Context, name string, args map[string]any) (tools.Output, error)
}

// ToolSelector asks a language model which tool answers a message.
type ToolSelector interface {
	SelectTool(ctx context.Context, message string, descriptors []tools.Descriptor) (router.Call, error)
	Model() string
}

// ChatLogStore persists an audit entry per routed chat.
type ChatLogStore interface {
	Insert(ctx context.Context, entry storage.ChatLogEntry) error
}

// ChatObserver is notified once per answered chat.
type ChatObserver interface {
	ObserveChat(intent, routedBy string)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message   string `validate:"required,max=2000"`
	Mode      string `validate:"omitempty,oneof=auto deterministic llm"`
	SessionID string `validate:"max=128"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Answer      string
	ToolUsed    bool
	ToolName    string
	ToolArgs    map[string]any
	ToolResults *tools.Output
	RequestID   string
	Model       string
	Confidence  float64
	Intent      string
	RoutedBy    string
}

// ChatService answers collection questions and exposes the tool layer.
type ChatService interface {
	// ProcessChat routes a message to a tool and formats its answer.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// ListTools returns the tool descriptors.
	ListTools(ctx context.Context) []tools.Descriptor
	// CallTool runs a tool directly with caller supplied arguments.
	CallTool(ctx context.Context, name string, args map[string]any) (tools.Output, error)
}

// Option configures the chat service.
type Option func(*chatService)

// WithToolSelector enables LLM tool selection.
func WithToolSelector(selector ToolSelector) Option {
	return func(s *chatService) {
		s.selector = selector
	}
}

// WithChatLog records every chat in store.
func WithChatLog(store ChatLogStore) Option {
	return func(s *chatService) {
		s.chatLog = store
	}
}

// WithChatObserver sets the observer notified per chat.
func WithChatObserver(observer ChatObserver) Option {
	return func(s *chatService) {
		s.observer = observer
	}
}

// chatService implements ChatService.
type chatService struct {
	router     *router.Router
	dispatcher ToolDispatcher
	selector   ToolSelector
	chatLog    ChatLogStore
	observer   ChatObserver
	validate   *validator.Validate
	now        func() time.Time
}

// NewChatService creates a new ChatService.
func NewChatService(r *router.Router, dispatcher ToolDispatcher, opts ...Option) ChatService {
	s := &chatService{
		router:     r,
		dispatcher: dispatcher,
		validate:   validator.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Message = strings.TrimSpace(req.Message)
	if err := s.validateRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		return ChatResponse{}, err
	}

	resp := ChatResponse{RequestID: uuid.NewString()}
	logger = logger.With("chat_request_id", resp.RequestID)

	call := s.selectWithLLM(ctx, req)
	if call != nil {
		resp.RoutedBy = RoutedByLLM
		resp.Intent = call.Tool
		resp.Model = s.selector.Model()
	} else {
		result := s.router.Route(req.Message)
		resp.RoutedBy = RoutedByRouter
		resp.Intent = string(result.Family)
		resp.Confidence = result.Confidence
		logger.DebugContext(ctx, "message routed", "family", result.Family, "confidence", result.Confidence)
		if !result.Matched() {
			resp.Answer = result.Fallback
			s.record(ctx, req, resp)
			return resp, nil
		}
		call = result.Call
	}

	out, err := s.dispatcher.Call(ctx, call.Tool, call.Args)
	var argErr *tools.ArgumentError
	if err != nil && resp.RoutedBy == RoutedByLLM && errors.As(err, &argErr) {
		// The model picked a tool but produced arguments outside its contract.
		logger.WarnContext(ctx, "llm arguments rejected, using router", "tool", call.Tool, "error", err)
		return s.reroute(ctx, req, resp.RequestID)
	}
	if err != nil {
		logger.ErrorContext(ctx, "tool call failed", "tool", call.Tool, "error", err)
		return ChatResponse{}, mapToolError(err)
	}

	resp.ToolUsed = true
	resp.ToolName = call.Tool
	resp.ToolArgs = call.Args
	resp.ToolResults = &out
	resp.Answer = FormatOutput(out)

	s.record(ctx, req, resp)
	logger.InfoContext(ctx, "chat request processed successfully",
		"tool", resp.ToolName, "routed_by", resp.RoutedBy, "results", out.Count())
	return resp, nil
}

// reroute answers req with the deterministic router only.
func (s *chatService) reroute(ctx context.Context, req ChatRequest, requestID string) (ChatResponse, error) {
	req.Mode = ModeDeterministic
	resp, err := s.ProcessChat(ctx, req)
	if err != nil {
		return resp, err
	}
	resp.RequestID = requestID
	return resp, nil
}

// selectWithLLM returns the model's tool choice, or nil when the router should
// decide. Selector failures are never fatal.
func (s *chatService) selectWithLLM(ctx context.Context, req ChatRequest) *router.Call {
	if s.selector == nil {
		return nil
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if mode == ModeDeterministic {
		return nil
	}

	call, err := s.selector.SelectTool(ctx, req.Message, s.dispatcher.List())
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "llm tool selection failed, using router", "error", err)
		return nil
	}
	return &call
}

func (s *chatService) validateRequest(req ChatRequest) error {
	if req.Mode == ModeLLM && s.selector == nil {
		return &ValidationError{Field: "mode", Message: "llm tool selection is not enabled"}
	}
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: strings.ToLower(fe.Field()), Message: formatFieldError(fe)}
	}
	return WrapError(ErrInvalidInput, err.Error())
}

// record writes the chat log entry and notifies the observer. A failing chat
// log never fails the request.
func (s *chatService) record(ctx context.Context, req ChatRequest, resp ChatResponse) {
	if s.observer != nil {
		s.observer.ObserveChat(resp.Intent, resp.RoutedBy)
	}
	if s.chatLog == nil {
		return
	}

	entry := storage.ChatLogEntry{
		RequestID:  resp.RequestID,
		SessionID:  req.SessionID,
		Message:    req.Message,
		Intent:     resp.Intent,
		ToolName:   resp.ToolName,
		ToolArgs:   resp.ToolArgs,
		Confidence: resp.Confidence,
		RoutedBy:   resp.RoutedBy,
		CreatedAt:  s.now().UTC(),
	}
	if resp.ToolResults != nil {
		entry.ResultCount = resp.ToolResults.Count()
	}
	if err := s.chatLog.Insert(ctx, entry); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to write chat log", "error", err)
	}
}

// ListTools returns the tool descriptors.
func (s *chatService) ListTools(ctx context.Context) []tools.Descriptor {
	return s.dispatcher.List()
}

// CallTool runs a tool directly.
func (s *chatService) CallTool(ctx context.Context, name string, args map[string]any) (tools.Output, error) {
	out, err := s.dispatcher.Call(ctx, name, args)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "direct tool call failed", "tool", name, "error", err)
		return tools.Output{}, mapToolError(err)
	}
	return out, nil
}

// mapToolError translates tool layer errors into service errors.
func mapToolError(err error) error {
	var argErr *tools.ArgumentError
	switch {
	case errors.As(err, &argErr):
		field := argErr.Field
		if field == "" {
			field = "args"
		}
		return &ValidationError{Field: field, Message: argErr.Message}
	case errors.Is(err, tools.ErrUnknownTool):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, catalog.ErrMalformed), errors.Is(err, catalog.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	default:
		return WrapError(err, "failed to run tool")
	}
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "cannot be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return "is invalid"
	}
}
