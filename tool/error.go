package tool

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CodeDuplicateTool is returned when registering a name that already exists.
	CodeDuplicateTool = "DUPLICATE_TOOL"
	// CodeToolNotFound is returned when lookup or execution names an unknown tool.
	CodeToolNotFound = "TOOL_NOT_FOUND"
	// CodeInvalidArgs is returned when argument validation rejects the input.
	CodeInvalidArgs = "INVALID_ARGS"
	// CodeExecutionFailed is the fallback code for failures raised during execution.
	CodeExecutionFailed = "EXECUTION_FAILED"
)

// ToolError is a structured invocation failure that can flow across the
// registry, the protocol server, and the CLI without losing the tool name or
// machine-readable code. ToolName is empty for framework-level failures such
// as an unknown tool name.
type ToolError struct {
	ToolName string         `json:"tool_name,omitempty"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
	Cause    error          `json:"-"`
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	code := strings.TrimSpace(e.Code)
	if code == "" {
		code = CodeExecutionFailed
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if name := strings.TrimSpace(e.ToolName); name != "" {
		return fmt.Sprintf("%s [%s]: %s", code, name, msg)
	}
	return fmt.Sprintf("%s: %s", code, msg)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *ToolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Errorf builds a ToolError with a formatted message.
func Errorf(toolName, code, format string, args ...any) *ToolError {
	return &ToolError{
		ToolName: strings.TrimSpace(toolName),
		Code:     normalizeCode(code),
		Message:  fmt.Sprintf(format, args...),
	}
}

// WrapError builds a ToolError chaining an underlying cause. A nil cause
// yields the same result as Errorf.
func WrapError(toolName, code, message string, cause error) *ToolError {
	msg := strings.TrimSpace(message)
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &ToolError{
		ToolName: strings.TrimSpace(toolName),
		Code:     normalizeCode(code),
		Message:  msg,
		Cause:    cause,
	}
}

// AsToolError unwraps err into a *ToolError if one is in the chain.
func AsToolError(err error) (*ToolError, bool) {
	if err == nil {
		return nil, false
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr, true
	}
	return nil, false
}

// ErrorCode returns the ToolError code in err's chain, or "" if none.
func ErrorCode(err error) string {
	if toolErr, ok := AsToolError(err); ok && toolErr != nil {
		return toolErr.Code
	}
	return ""
}

func normalizeCode(code string) string {
	clean := strings.TrimSpace(code)
	if clean == "" {
		return CodeExecutionFailed
	}
	return clean
}
