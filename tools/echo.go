// Package tools wires the built-in tool set into a registry.
package tools

import (
	"context"

	"github.com/remodern-labs/remodern/tool"
)

const defaultEchoMessage = "Hello from remodern!"

// EchoTool is a minimal diagnostic tool used to verify the request path end
// to end.
type EchoTool struct{}

// NewEchoTool creates the echo tool.
func NewEchoTool() EchoTool {
	return EchoTool{}
}

func (EchoTool) Name() string        { return "echo" }
func (EchoTool) Description() string { return "Echoes input" }

func (EchoTool) InputSchema() tool.Schema {
	return tool.NewObjectSchema().
		WithProperty("message", tool.Property{
			Type:        "string",
			Description: "Message to echo back",
			Default:     defaultEchoMessage,
		})
}

func (t EchoTool) ValidateArgs(args map[string]any) error {
	return t.InputSchema().Validate(t.Name(), args)
}

func (t EchoTool) Execute(_ context.Context, args map[string]any) (tool.Result, error) {
	return tool.Success(tool.StringArg(args, "message", defaultEchoMessage)), nil
}
