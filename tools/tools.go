package tools

import (
	"fmt"
	"slices"

	"github.com/remodern-labs/remodern/tool"
	"github.com/remodern-labs/remodern/tools/codegen"
	"github.com/remodern-labs/remodern/tools/inspect"
	"github.com/remodern-labs/remodern/tools/parse"
)

// All returns the built-in tool set in registration order.
func All() []tool.Tool {
	return []tool.Tool{
		NewEchoTool(),
		codegen.NewSourceGenTool(),
		codegen.NewTemplateGenTool(),
		parse.NewSourceParseTool(),
		parse.NewMarkupParseTool(),
		inspect.NewBinaryInspectTool(),
	}
}

// RegisterAll registers every built-in tool into reg, skipping any whose name
// appears in disabled.
func RegisterAll(reg *tool.Registry, disabled ...string) error {
	for _, t := range All() {
		if slices.Contains(disabled, t.Name()) {
			continue
		}
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("tools: register %s: %w", t.Name(), err)
		}
	}
	return nil
}
