// Package parse contains tools that analyze existing source material: Go
// source trees and HTML markup documents.
package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/remodern-labs/remodern/tool"
)

// SourceParseTool parses Go source files and reports their declared
// structure: packages, imports, types, and functions.
type SourceParseTool struct{}

// NewSourceParseTool creates the Go source analysis tool.
func NewSourceParseTool() SourceParseTool {
	return SourceParseTool{}
}

func (SourceParseTool) Name() string { return "source-parse" }

func (SourceParseTool) Description() string {
	return "Parse Go source files and report their structure"
}

func (SourceParseTool) InputSchema() tool.Schema {
	return tool.NewObjectSchema().
		WithProperty("source", tool.Property{
			Type:        "string",
			Description: "Path to a Go file or a directory of Go files",
		}).
		WithProperty("analysisType", tool.Property{
			Type:        "string",
			Description: "Which report to produce",
			Enum:        []string{"structure", "functions", "imports", "full"},
			Default:     "structure",
		}).
		WithProperty("includePrivate", tool.Property{
			Type:        "boolean",
			Description: "Include unexported declarations",
			Default:     false,
		}).
		WithRequired("source")
}

func (t SourceParseTool) ValidateArgs(args map[string]any) error {
	return t.InputSchema().Validate(t.Name(), args)
}

// fileReport is the per-file analysis entry serialized into the result.
type fileReport struct {
	File      string   `json:"file"`
	Package   string   `json:"package,omitempty"`
	Imports   []string `json:"imports,omitempty"`
	Types     []string `json:"types,omitempty"`
	Functions []string `json:"functions,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func (t SourceParseTool) Execute(_ context.Context, args map[string]any) (tool.Result, error) {
	source := tool.StringArg(args, "source", "")
	analysisType := tool.StringArg(args, "analysisType", "structure")
	includePrivate := tool.BoolArg(args, "includePrivate", false)

	files, err := collectGoFiles(source)
	if err != nil {
		return tool.Failure(err.Error()), nil
	}
	if len(files) == 0 {
		return tool.Failure(fmt.Sprintf("no Go files found under %s", source)), nil
	}

	fset := token.NewFileSet()
	reports := make([]fileReport, 0, len(files))
	parsed := 0
	for _, path := range files {
		report := analyzeFile(fset, path, analysisType, includePrivate)
		if report.Error == "" {
			parsed++
		}
		reports = append(reports, report)
	}

	content, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "encode report", err)
	}
	return tool.SuccessWithMetadata(string(content), map[string]any{
		"analysisType": analysisType,
		"totalFiles":   len(files),
		"parsedFiles":  parsed,
	}), nil
}

func analyzeFile(fset *token.FileSet, path, analysisType string, includePrivate bool) fileReport {
	report := fileReport{File: path}
	f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Package = f.Name.Name

	if analysisType == "imports" || analysisType == "structure" || analysisType == "full" {
		for _, imp := range f.Imports {
			if p, err := strconv.Unquote(imp.Path.Value); err == nil {
				report.Imports = append(report.Imports, p)
			}
		}
	}
	if analysisType == "imports" {
		return report
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE || analysisType == "functions" {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || skipName(ts.Name.Name, includePrivate) {
					continue
				}
				report.Types = append(report.Types, fmt.Sprintf("%s (%s)", ts.Name.Name, typeKind(ts.Type)))
			}
		case *ast.FuncDecl:
			// The structure report lists top-level functions only; methods
			// show up under functions and full.
			if analysisType == "structure" && d.Recv != nil {
				continue
			}
			if skipName(d.Name.Name, includePrivate) {
				continue
			}
			report.Functions = append(report.Functions, funcSignature(d))
		}
	}
	return report
}

func collectGoFiles(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("source not found: %s", source)
	}
	if !info.IsDir() {
		if !strings.HasSuffix(source, ".go") {
			return nil, fmt.Errorf("source is not a Go file: %s", source)
		}
		return []string{source}, nil
	}
	var files []string
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %v", source, err)
	}
	return files, nil
}

func skipName(name string, includePrivate bool) bool {
	return !includePrivate && !ast.IsExported(name)
}

func typeKind(expr ast.Expr) string {
	switch expr.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.InterfaceType:
		return "interface"
	case *ast.MapType:
		return "map"
	case *ast.ArrayType:
		return "array"
	case *ast.FuncType:
		return "func"
	default:
		return "other"
	}
}

func funcSignature(d *ast.FuncDecl) string {
	var b strings.Builder
	if d.Recv != nil && len(d.Recv.List) > 0 {
		fmt.Fprintf(&b, "(%s) ", exprString(d.Recv.List[0].Type))
	}
	b.WriteString(d.Name.Name)
	b.WriteString("(")
	for i, p := range d.Type.Params.List {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(exprString(p.Type))
	}
	b.WriteString(")")
	if d.Type.Results != nil && len(d.Type.Results.List) > 0 {
		parts := make([]string, 0, len(d.Type.Results.List))
		for _, r := range d.Type.Results.List {
			parts = append(parts, exprString(r.Type))
		}
		if len(parts) == 1 {
			b.WriteString(" " + parts[0])
		} else {
			b.WriteString(" (" + strings.Join(parts, ", ") + ")")
		}
	}
	return b.String()
}

func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + exprString(e.X)
	case *ast.SelectorExpr:
		return exprString(e.X) + "." + e.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(e.Elt)
	case *ast.MapType:
		return "map[" + exprString(e.Key) + "]" + exprString(e.Value)
	case *ast.Ellipsis:
		return "..." + exprString(e.Elt)
	case *ast.FuncType:
		return "func"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.ChanType:
		return "chan " + exprString(e.Value)
	case *ast.IndexExpr:
		return exprString(e.X) + "[" + exprString(e.Index) + "]"
	default:
		return "?"
	}
}
