package tool

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is the process-wide catalogue and sole execution gateway for
// tools. It holds at most one Tool per name; readers proceed concurrently
// while the check-then-insert of Register is serialized, so a registration
// race has exactly one winner and the loser observes a DUPLICATE_TOOL error.
//
// Construct one Registry at process start and inject it into every front
// end; both the CLI and the protocol server must route through the same
// instance so tool identity and concurrency guarantees hold uniformly.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	observer Observer
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithObserver attaches an observer that receives one observation per
// invocation flowing through Execute.
func WithObserver(observer Observer) Option {
	return func(r *Registry) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tools:    make(map[string]Tool),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts a tool under its name. It fails with DUPLICATE_TOOL if the
// name is already taken, without mutating state. Nil tools and empty names
// are rejected.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return Errorf("", CodeInvalidArgs, "tool cannot be nil")
	}
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return Errorf("", CodeInvalidArgs, "tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return Errorf(name, CodeDuplicateTool, "tool %q is already registered", name)
	}
	r.tools[name] = t
	return nil
}

// Unregister removes a tool by name, reporting whether a removal occurred.
// Absence is not an error. An in-flight Execute that already resolved the
// tool is allowed to finish.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; !ok {
		return false
	}
	delete(r.tools, name)
	return true
}

// Lookup returns the tool registered under name. It never fails; absence is
// reported through the boolean.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns registered tool names in deterministic order. The slice is an
// independent snapshot, unaffected by later registry mutations.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tools returns a point-in-time snapshot of registered tools, ordered by
// name.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}

// Size returns the number of registered tools.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Clear removes every registration. It exists for test isolation, not for
// production use.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.tools)
}

// Execute resolves a tool by name, validates the arguments, and runs it.
// This is the only path by which a tool is ever invoked. Every failure
// crossing this boundary is a *ToolError: unknown names yield
// TOOL_NOT_FOUND, validation failures yield INVALID_ARGS before any side
// effect, and untyped execution failures (panics included) are translated to
// EXECUTION_FAILED. A successful call returns the tool's Result unchanged,
// including failed Results.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (Result, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Result{}, Errorf("", CodeToolNotFound, "tool not found: %s", name)
	}

	if err := t.ValidateArgs(args); err != nil {
		err = r.coerceToolError(name, CodeInvalidArgs, err)
		r.observe(name, 0, false, ErrorCode(err))
		return Result{}, err
	}

	start := time.Now()
	result, err := r.executeGuarded(ctx, t, name, args)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		err = r.coerceToolError(name, CodeExecutionFailed, err)
		r.observe(name, elapsed, false, ErrorCode(err))
		return Result{}, err
	}

	r.observe(name, elapsed, result.Success, "")
	return result, nil
}

// executeGuarded runs the tool and converts a panic into an error so a
// misbehaving tool can never take down callers of the registry.
func (r *Registry) executeGuarded(ctx context.Context, t Tool, name string, args map[string]any) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = Errorf(name, CodeExecutionFailed, "tool panicked: %v", rec)
		}
	}()
	return t.Execute(ctx, args)
}

// coerceToolError guarantees that no untyped failure crosses the registry
// boundary.
func (r *Registry) coerceToolError(name, fallbackCode string, err error) error {
	if toolErr, ok := AsToolError(err); ok {
		if strings.TrimSpace(toolErr.ToolName) == "" && fallbackCode != CodeToolNotFound {
			toolErr.ToolName = name
		}
		return toolErr
	}
	return WrapError(name, fallbackCode, fmt.Sprintf("tool %s failed", name), err)
}

func (r *Registry) observe(name string, durationMS int64, success bool, errorCode string) {
	r.observer.ObserveInvoke(InvokeObservation{
		InvocationID: uuid.New().String(),
		ToolName:     name,
		DurationMS:   durationMS,
		Success:      success,
		ErrorCode:    errorCode,
	})
}
