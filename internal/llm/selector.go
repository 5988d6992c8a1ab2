package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"vinylchat/internal/contextutil"
	"vinylchat/internal/router"
	"vinylchat/internal/tools"
)

// ErrNoTool is returned when the model declines to pick a tool or picks one
// that is not on offer.
var ErrNoTool = errors.New("llm selected no tool")

// Completer sends a conversation to a chat model. Implemented by Client.
type Completer interface {
	ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error)
}

// ToolSelector asks a chat model to choose one tool and its arguments.
type ToolSelector struct {
	completer Completer
	model     string
}

// NewToolSelector creates a selector. model is reported in chat responses.
func NewToolSelector(completer Completer, model string) *ToolSelector {
	return &ToolSelector{completer: completer, model: model}
}

// Model returns the model name used for selection.
func (s *ToolSelector) Model() string {
	return s.model
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

type selection struct {
	Tool *string        `json:"tool"`
	Args map[string]any `json:"args"`
}

// SelectTool returns the tool call chosen by the model for message.
func (s *ToolSelector) SelectTool(ctx context.Context, message string, descriptors []tools.Descriptor) (router.Call, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt, err := systemPrompt(descriptors)
	if err != nil {
		return router.Call{}, err
	}

	reply, err := s.completer.ChatWithMessages(ctx, []Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: message},
	}, ChatParams{MaxTokens: 256})
	if err != nil {
		return router.Call{}, fmt.Errorf("tool selection request failed: %w", err)
	}

	call, err := parseSelection(reply, descriptors)
	if err != nil {
		logger.DebugContext(ctx, "unusable tool selection", "reply", reply, "error", err)
		return router.Call{}, err
	}
	logger.DebugContext(ctx, "llm selected tool", "tool", call.Tool)
	return call, nil
}

// parseSelection extracts {"tool": ..., "args": {...}} from reply. The object
// may be wrapped in a Markdown code fence or surrounded by prose.
func parseSelection(reply string, descriptors []tools.Descriptor) (router.Call, error) {
	text := strings.TrimSpace(reply)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var sel selection
	if err := json.Unmarshal([]byte(text), &sel); err != nil {
		return router.Call{}, fmt.Errorf("%w: reply is not a JSON object: %v", ErrNoTool, err)
	}
	if sel.Tool == nil || *sel.Tool == "" {
		return router.Call{}, ErrNoTool
	}
	for _, d := range descriptors {
		if d.Name == *sel.Tool {
			if sel.Args == nil {
				sel.Args = map[string]any{}
			}
			return router.Call{Tool: d.Name, Args: sel.Args}, nil
		}
	}
	return router.Call{}, fmt.Errorf("%w: unknown tool %q", ErrNoTool, *sel.Tool)
}

func systemPrompt(descriptors []tools.Descriptor) (string, error) {
	catalogJSON, err := json.MarshalIndent(descriptors, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tool descriptors: %w", err)
	}

	var b strings.Builder
	b.WriteString("You route questions about a personal vinyl record collection to exactly one tool.\n")
	b.WriteString("Available tools (JSON schema of each input):\n")
	b.Write(catalogJSON)
	b.WriteString("\n\nReply with a single JSON object and nothing else, in the form ")
	b.WriteString(`{"tool": "<tool name>", "args": {...}}`)
	b.WriteString(". If no tool fits the question reply with ")
	b.WriteString(`{"tool": null}`)
	b.WriteString(".")
	return b.String(), nil
}
