package codegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/remodern-labs/remodern/tool"
)

// TemplateGenTool renders a text/template, supplied inline or from a file,
// against user-provided data.
type TemplateGenTool struct{}

// NewTemplateGenTool creates the template generator tool.
func NewTemplateGenTool() TemplateGenTool {
	return TemplateGenTool{}
}

func (TemplateGenTool) Name() string { return "template-gen" }

func (TemplateGenTool) Description() string {
	return "Render a Go text/template with the given data"
}

func (TemplateGenTool) InputSchema() tool.Schema {
	return tool.NewObjectSchema().
		WithProperty("template", tool.Property{
			Type:        "string",
			Description: "Template content, or a template file path when templateType is \"file\"",
		}).
		WithProperty("templateType", tool.Property{
			Type:        "string",
			Description: "Whether template is inline content or a file path",
			Enum:        []string{"content", "file"},
			Default:     "content",
		}).
		WithProperty("data", tool.Property{
			Type:        "object",
			Description: "Data passed to the template as its root value",
		}).
		WithProperty("outputFile", tool.Property{
			Type:        "string",
			Description: "Optional file the rendered output is written to",
		}).
		WithRequired("template")
}

func (t TemplateGenTool) ValidateArgs(args map[string]any) error {
	return t.InputSchema().Validate(t.Name(), args)
}

func (t TemplateGenTool) Execute(_ context.Context, args map[string]any) (tool.Result, error) {
	text := tool.StringArg(args, "template", "")
	if tool.StringArg(args, "templateType", "content") == "file" {
		raw, err := os.ReadFile(text)
		if err != nil {
			return tool.Failure(fmt.Sprintf("read template file: %v", err)), nil
		}
		text = string(raw)
	}

	tmpl, err := template.New(t.Name()).Option("missingkey=error").Parse(text)
	if err != nil {
		return tool.Failure(fmt.Sprintf("parse template: %v", err)), nil
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, tool.ObjectArg(args, "data")); err != nil {
		return tool.Failure(fmt.Sprintf("render template: %v", err)), nil
	}
	rendered := out.String()

	if outputFile := tool.StringArg(args, "outputFile", ""); outputFile != "" {
		if dir := filepath.Dir(outputFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "create output directory", err)
			}
		}
		if err := os.WriteFile(outputFile, []byte(rendered), 0o644); err != nil {
			return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "write rendered output", err)
		}
		res := tool.SuccessWithArtifacts(rendered, outputFile)
		res.Metadata = map[string]any{"outputFile": outputFile, "bytes": len(rendered)}
		return res, nil
	}

	return tool.SuccessWithMetadata(rendered, map[string]any{"bytes": len(rendered)}), nil
}
