// Package remodern provides a concurrency-safe tool registry and a
// line-delimited JSON-RPC server for invoking registered tools.
//
// This file provides convenience re-exports for the most commonly used types
// and constructors from the tool subpackage. For new code, consider importing
// subpackages directly for clearer dependencies:
//
//	import "github.com/remodern-labs/remodern/tool"
//	import "github.com/remodern-labs/remodern/mcp"
//	import "github.com/remodern-labs/remodern/tools"
package remodern

import (
	"github.com/remodern-labs/remodern/tool"
)

// Type aliases from the tool package.
type (
	// Tool is the contract every registered tool implements.
	Tool = tool.Tool

	// Registry is the process-wide tool registry and execution gateway.
	Registry = tool.Registry

	// Result is the business-level outcome of a tool execution.
	Result = tool.Result

	// Schema describes a tool's input arguments.
	Schema = tool.Schema

	// Property describes one schema argument.
	Property = tool.Property

	// ToolError is the typed failure every registry operation reports.
	ToolError = tool.ToolError

	// Observer receives one observation per tool invocation.
	Observer = tool.Observer
)

// Error codes reported by registry operations.
const (
	CodeDuplicateTool   = tool.CodeDuplicateTool
	CodeToolNotFound    = tool.CodeToolNotFound
	CodeInvalidArgs     = tool.CodeInvalidArgs
	CodeExecutionFailed = tool.CodeExecutionFailed
)

// NewRegistry creates an empty registry.
func NewRegistry(opts ...tool.Option) *Registry {
	return tool.NewRegistry(opts...)
}

// Success creates a successful result with the given content.
func Success(content string) Result {
	return tool.Success(content)
}

// Failure creates a failed result carrying a business-level error message.
func Failure(message string) Result {
	return tool.Failure(message)
}
