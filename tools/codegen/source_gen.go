// Package codegen contains tools that produce Go source text, either from
// built-in skeletons or from user-supplied templates.
package codegen

import (
	"context"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/remodern-labs/remodern/tool"
)

// SourceGenTool generates Go source skeletons for structs, interfaces, and
// enums, formats the result with gofmt, and writes it to disk.
type SourceGenTool struct{}

// NewSourceGenTool creates the source generator tool.
func NewSourceGenTool() SourceGenTool {
	return SourceGenTool{}
}

func (SourceGenTool) Name() string { return "source-gen" }

func (SourceGenTool) Description() string {
	return "Generate a Go source skeleton (struct, interface, or enum) and write it to disk"
}

func (SourceGenTool) InputSchema() tool.Schema {
	return tool.NewObjectSchema().
		WithProperty("type", tool.Property{
			Type:        "string",
			Description: "Kind of declaration to generate",
			Enum:        []string{"struct", "interface", "enum"},
		}).
		WithProperty("name", tool.Property{
			Type:        "string",
			Description: "Name of the generated declaration",
		}).
		WithProperty("package", tool.Property{
			Type:        "string",
			Description: "Package name for the generated file",
			Default:     "main",
		}).
		WithProperty("outputDir", tool.Property{
			Type:        "string",
			Description: "Directory the generated file is written to",
			Default:     ".",
		}).
		WithProperty("fields", tool.Property{
			Type:        "array",
			Description: "Struct fields as \"Name Type\" pairs",
			Items:       &tool.Property{Type: "string"},
		}).
		WithProperty("methods", tool.Property{
			Type:        "array",
			Description: "Interface method signatures, e.g. \"Close() error\"",
			Items:       &tool.Property{Type: "string"},
		}).
		WithProperty("values", tool.Property{
			Type:        "array",
			Description: "Enum value names",
			Items:       &tool.Property{Type: "string"},
		}).
		WithProperty("doc", tool.Property{
			Type:        "string",
			Description: "Doc comment for the generated declaration",
		}).
		WithRequired("type", "name")
}

func (t SourceGenTool) ValidateArgs(args map[string]any) error {
	if err := t.InputSchema().Validate(t.Name(), args); err != nil {
		return err
	}
	name := tool.StringArg(args, "name", "")
	if !token.IsIdentifier(name) {
		return tool.Errorf(t.Name(), tool.CodeInvalidArgs, "name %q is not a valid Go identifier", name)
	}
	if pkg := tool.StringArg(args, "package", "main"); !token.IsIdentifier(pkg) {
		return tool.Errorf(t.Name(), tool.CodeInvalidArgs, "package %q is not a valid Go identifier", pkg)
	}
	return nil
}

func (t SourceGenTool) Execute(_ context.Context, args map[string]any) (tool.Result, error) {
	kind := tool.StringArg(args, "type", "")
	name := tool.StringArg(args, "name", "")
	pkg := tool.StringArg(args, "package", "main")
	outputDir := tool.StringArg(args, "outputDir", ".")
	doc := tool.StringArg(args, "doc", "")

	var body string
	switch kind {
	case "struct":
		body = renderStruct(name, doc, tool.StringSliceArg(args, "fields"))
	case "interface":
		body = renderInterface(name, doc, tool.StringSliceArg(args, "methods"))
	case "enum":
		body = renderEnum(name, doc, tool.StringSliceArg(args, "values"))
	}

	src := fmt.Sprintf("package %s\n\n%s", pkg, body)
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return tool.Failure(fmt.Sprintf("generated source does not compile: %v", err)), nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "create output directory", err)
	}
	outPath := filepath.Join(outputDir, strings.ToLower(name)+".go")
	if err := os.WriteFile(outPath, formatted, 0o644); err != nil {
		return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "write generated file", err)
	}

	res := tool.SuccessWithArtifacts(fmt.Sprintf("generated %s %s in package %s", kind, name, pkg), outPath)
	res.Metadata = map[string]any{
		"type":       kind,
		"name":       name,
		"package":    pkg,
		"outputFile": outPath,
	}
	return res, nil
}

func renderStruct(name, doc string, fields []string) string {
	var b strings.Builder
	writeDoc(&b, doc)
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range fields {
		fmt.Fprintf(&b, "\t%s\n", strings.TrimSpace(f))
	}
	b.WriteString("}\n")
	return b.String()
}

func renderInterface(name, doc string, methods []string) string {
	var b strings.Builder
	writeDoc(&b, doc)
	fmt.Fprintf(&b, "type %s interface {\n", name)
	for _, m := range methods {
		fmt.Fprintf(&b, "\t%s\n", strings.TrimSpace(m))
	}
	b.WriteString("}\n")
	return b.String()
}

func renderEnum(name, doc string, values []string) string {
	var b strings.Builder
	writeDoc(&b, doc)
	fmt.Fprintf(&b, "type %s int\n\nconst (\n", name)
	for i, v := range values {
		v = strings.TrimSpace(v)
		if i == 0 {
			fmt.Fprintf(&b, "\t%s%s %s = iota\n", name, v, name)
			continue
		}
		fmt.Fprintf(&b, "\t%s%s\n", name, v)
	}
	b.WriteString(")\n")
	return b.String()
}

func writeDoc(b *strings.Builder, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		fmt.Fprintf(b, "// %s\n", line)
	}
}
