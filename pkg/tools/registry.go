package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/driveline-ai/driveline/pkg/models"
)

// Registry collects tools under unique names. Registration happens at
// startup; lookups and invocations are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate name returns an error —
// tool names are the dispatch key the model sees.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// MustRegister registers a tool and panics on duplicate names. Intended
// for startup wiring where a duplicate is a programming error.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether the named tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Subset returns a new registry containing only the named tools. Names not
// present are skipped — skill tables are validated separately at startup.
func (r *Registry) Subset(names ...string) *Registry {
	sub := NewRegistry()
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			sub.tools[name] = t
		}
	}
	return sub
}

// Invoke executes the tool named in the request with validated arguments.
// Every failure mode — unknown tool, unparseable or invalid arguments, a
// returned error, a panic in the wrapped function — is captured as a
// FAILURE ToolResult; Invoke never returns an error and never panics.
func (r *Registry) Invoke(ctx context.Context, req models.ToolCallRequest) models.ToolResult {
	result := models.ToolResult{
		ID:       req.ID,
		Name:     req.Name,
		Input:    req.Input,
		RawInput: req.RawInput,
		Status:   models.ToolStatusFailure,
		Metadata: map[string]any{},
	}

	t, ok := r.Get(req.Name)
	if !ok {
		result.Output = fmt.Sprintf("unknown tool %q", req.Name)
		return result
	}

	raw := req.Input
	if raw == nil {
		if req.RawInput != "" {
			if err := json.Unmarshal([]byte(req.RawInput), &raw); err != nil {
				result.Output = fmt.Sprintf("invalid arguments for %q: %v", req.Name, err)
				return result
			}
		} else {
			raw = map[string]any{}
		}
	}

	args, err := buildArgs(t.Params(), raw)
	if err != nil {
		result.Output = fmt.Sprintf("invalid arguments for %q: %v", req.Name, err)
		return result
	}

	start := time.Now()
	output, err := safeCall(ctx, t, args)
	result.Metadata["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		result.Output = err.Error()
		return result
	}
	result.Output = output
	result.Status = models.ToolStatusSuccess
	return result
}

// safeCall runs the tool function inside a recover boundary so a panicking
// tool degrades to a failed call instead of crashing the turn.
func safeCall(ctx context.Context, t Tool, args Args) (output string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %q panicked: %v", t.Name(), rec)
		}
	}()
	return t.fn(ctx, args)
}
