// Package tools exposes the catalog operations as named tools with fixed JSON
// input contracts. Both the deterministic router and the LLM selector dispatch
// through the same Registry.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"vinylchat/internal/catalog"
	"vinylchat/internal/contextutil"
)

// EngineProvider hands out the loaded query engine.
type EngineProvider interface {
	Engine(ctx context.Context) (*catalog.Engine, error)
}

// CallObserver is notified after every tool invocation.
type CallObserver interface {
	ObserveToolCall(tool, status string, duration time.Duration)
}

// Descriptor describes a tool to clients and to the LLM selector.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Output is the result of a tool call. List tools fill Lines; stats_summary
// fills Stats.
type Output struct {
	Lines []string       `json:"lines,omitempty"`
	Stats *catalog.Stats `json:"stats,omitempty"`
}

// Count is the number of result lines, or 1 for a stats summary.
func (o Output) Count() int {
	if o.Stats != nil {
		return 1
	}
	return len(o.Lines)
}

type tool struct {
	descriptor Descriptor
	// newArgs returns a pointer to a fresh argument struct.
	newArgs func() any
	run     func(engine *catalog.Engine, args any) Output
}

// Registry holds the tool table.
type Registry struct {
	provider EngineProvider
	observer CallObserver
	tools    map[string]tool
}

// Option configures a Registry.
type Option func(*Registry)

// WithCallObserver sets the observer notified after each call.
func WithCallObserver(o CallObserver) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// NewRegistry creates a registry over the engine supplied by provider.
func NewRegistry(provider EngineProvider, opts ...Option) *Registry {
	r := &Registry{provider: provider, tools: make(map[string]tool)}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range builtinTools() {
		r.tools[t.descriptor.Name] = t
	}
	return r
}

// List returns the tool descriptors sorted by name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Has reports whether name is a registered tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Call decodes and validates args for the named tool, then runs it against
// the current engine.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (Output, error) {
	start := time.Now()
	out, err := r.call(ctx, name, args)
	if r.observer != nil {
		r.observer.ObserveToolCall(name, callStatus(err), time.Since(start))
	}
	return out, err
}

func (r *Registry) call(ctx context.Context, name string, args map[string]any) (Output, error) {
	logger := contextutil.LoggerFromContext(ctx)

	t, ok := r.tools[name]
	if !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	parsed := t.newArgs()
	if err := decodeArgs(args, parsed); err != nil {
		return Output{}, &ArgumentError{Tool: name, Message: err.Error()}
	}
	if err := validateArgs(name, parsed); err != nil {
		logger.WarnContext(ctx, "rejected tool arguments", "tool", name, "error", err)
		return Output{}, err
	}

	engine, err := r.provider.Engine(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("load catalog: %w", err)
	}

	out := t.run(engine, parsed)
	logger.DebugContext(ctx, "tool call completed", "tool", name, "results", out.Count())
	return out, nil
}

// decodeArgs round-trips args through JSON so that the same contract applies
// to router, LLM and HTTP callers. Unknown fields are rejected.
func decodeArgs(args map[string]any, dst any) error {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func callStatus(err error) string {
	var argErr *ArgumentError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &argErr):
		return "invalid_arguments"
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	default:
		return "error"
	}
}
