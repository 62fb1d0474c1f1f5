// Package inspect contains tools that examine compiled artifacts.
package inspect

import (
	"context"
	"debug/buildinfo"
	"debug/elf"
	"encoding/json"
	"fmt"
	"os"

	"github.com/remodern-labs/remodern/tool"
)

// BinaryInspectTool examines a compiled binary: embedded Go build info and,
// for ELF binaries, sections and symbols.
type BinaryInspectTool struct{}

// NewBinaryInspectTool creates the binary inspection tool.
func NewBinaryInspectTool() BinaryInspectTool {
	return BinaryInspectTool{}
}

func (BinaryInspectTool) Name() string { return "binary-inspect" }

func (BinaryInspectTool) Description() string {
	return "Inspect a compiled binary: build info, sections, symbols, and module dependencies"
}

func (BinaryInspectTool) InputSchema() tool.Schema {
	return tool.NewObjectSchema().
		WithProperty("source", tool.Property{
			Type:        "string",
			Description: "Path to the binary to inspect",
		}).
		WithProperty("analysisType", tool.Property{
			Type:        "string",
			Description: "Which report to produce",
			Enum:        []string{"summary", "sections", "symbols", "deps"},
			Default:     "summary",
		}).
		WithRequired("source")
}

func (t BinaryInspectTool) ValidateArgs(args map[string]any) error {
	return t.InputSchema().Validate(t.Name(), args)
}

func (t BinaryInspectTool) Execute(_ context.Context, args map[string]any) (tool.Result, error) {
	source := tool.StringArg(args, "source", "")
	analysisType := tool.StringArg(args, "analysisType", "summary")

	info, err := os.Stat(source)
	if err != nil {
		return tool.Failure(fmt.Sprintf("binary not found: %s", source)), nil
	}

	var report map[string]any
	switch analysisType {
	case "summary":
		report = summarize(source, info.Size())
	case "deps":
		report, err = moduleDeps(source)
	case "sections":
		report, err = elfSections(source)
	case "symbols":
		report, err = elfSymbols(source)
	}
	if err != nil {
		return tool.Failure(err.Error()), nil
	}

	encoded, jsonErr := json.MarshalIndent(report, "", "  ")
	if jsonErr != nil {
		return tool.Result{}, tool.WrapError(t.Name(), tool.CodeExecutionFailed, "encode report", jsonErr)
	}
	return tool.SuccessWithMetadata(string(encoded), map[string]any{
		"analysisType": analysisType,
		"source":       source,
	}), nil
}

func summarize(path string, size int64) map[string]any {
	report := map[string]any{
		"file":      path,
		"sizeBytes": size,
	}
	if bi, err := buildinfo.ReadFile(path); err == nil {
		report["goVersion"] = bi.GoVersion
		report["mainModule"] = bi.Main.Path
		report["dependencyCount"] = len(bi.Deps)
	}
	if f, err := elf.Open(path); err == nil {
		report["format"] = "elf"
		report["class"] = f.Class.String()
		report["machine"] = f.Machine.String()
		report["sectionCount"] = len(f.Sections)
		f.Close()
	}
	return report
}

func moduleDeps(path string) (map[string]any, error) {
	bi, err := buildinfo.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no Go build info in %s: %v", path, err)
	}
	deps := make([]map[string]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		deps = append(deps, map[string]string{"path": dep.Path, "version": dep.Version})
	}
	return map[string]any{
		"goVersion":  bi.GoVersion,
		"mainModule": bi.Main.Path,
		"deps":       deps,
	}, nil
}

func elfSections(path string) (map[string]any, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("not an ELF binary: %s", path)
	}
	defer f.Close()

	sections := make([]map[string]any, 0, len(f.Sections))
	for _, s := range f.Sections {
		sections = append(sections, map[string]any{
			"name": s.Name,
			"type": s.Type.String(),
			"size": s.Size,
		})
	}
	return map[string]any{"sections": sections}, nil
}

func elfSymbols(path string) (map[string]any, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("not an ELF binary: %s", path)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		return nil, fmt.Errorf("read symbols: %v", err)
	}
	names := make([]string, 0, len(syms))
	for _, s := range syms {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return map[string]any{
		"symbolCount": len(names),
		"symbols":     names,
	}, nil
}
