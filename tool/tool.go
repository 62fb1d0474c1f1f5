package tool

import "context"

// Tool is the uniform surface every pluggable capability exposes. A Tool is
// constructed once at process start, registered under its stable name, and
// keeps no invocation-local state between calls.
type Tool interface {
	// Name returns the stable, non-empty identifier used for lookup and
	// protocol routing. Uniqueness is enforced by the Registry, not here.
	Name() string

	// Description returns free text used for discovery listings.
	Description() string

	// InputSchema declares the accepted parameters. Consumers render it
	// without invoking the tool.
	InputSchema() Schema

	// ValidateArgs rejects invalid input with a ToolError before any side
	// effect. At minimum a nil argument map must be rejected.
	ValidateArgs(args map[string]any) error

	// Execute performs the capability's work. Business-level problems come
	// back as a failed Result; contract-level failures as a ToolError. The
	// contract makes no idempotence promise.
	Execute(ctx context.Context, args map[string]any) (Result, error)
}
