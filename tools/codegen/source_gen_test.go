package codegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remodern-labs/remodern/tool"
)

func TestSourceGenStruct(t *testing.T) {
	dir := t.TempDir()
	gen := NewSourceGenTool()
	args := map[string]any{
		"type":      "struct",
		"name":      "Widget",
		"package":   "widgets",
		"outputDir": dir,
		"fields":    []any{"ID string", "Count int"},
		"doc":       "Widget is a test fixture.",
	}
	if err := gen.ValidateArgs(args); err != nil {
		t.Fatalf("ValidateArgs() error = %v", err)
	}
	res, err := gen.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Execute() failed: %s", res.ErrorMessage)
	}

	wantPath := filepath.Join(dir, "widget.go")
	if len(res.Artifacts) != 1 || res.Artifacts[0] != wantPath {
		t.Errorf("Artifacts = %v, want [%s]", res.Artifacts, wantPath)
	}
	src, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("reading generated file: %v", err)
	}
	// gofmt column-aligns struct fields, so collapse space runs before
	// matching field declarations.
	got := strings.Join(strings.Fields(string(src)), " ")
	for _, want := range []string{"package widgets", "// Widget is a test fixture.", "type Widget struct", "ID string", "Count int"} {
		if !strings.Contains(got, want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestSourceGenEnum(t *testing.T) {
	dir := t.TempDir()
	res, err := NewSourceGenTool().Execute(context.Background(), map[string]any{
		"type":      "enum",
		"name":      "State",
		"package":   "machine",
		"outputDir": dir,
		"values":    []any{"Idle", "Running", "Done"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Execute() failed: %s", res.ErrorMessage)
	}
	src, err := os.ReadFile(filepath.Join(dir, "state.go"))
	if err != nil {
		t.Fatalf("reading generated file: %v", err)
	}
	for _, want := range []string{"type State int", "StateIdle State = iota", "StateRunning", "StateDone"} {
		if !strings.Contains(string(src), want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestSourceGenInterface(t *testing.T) {
	dir := t.TempDir()
	res, err := NewSourceGenTool().Execute(context.Background(), map[string]any{
		"type":      "interface",
		"name":      "Store",
		"package":   "storage",
		"outputDir": dir,
		"methods":   []any{"Get(key string) (string, error)", "Close() error"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Execute() failed: %s", res.ErrorMessage)
	}
	src, _ := os.ReadFile(filepath.Join(dir, "store.go"))
	if !strings.Contains(string(src), "type Store interface") {
		t.Errorf("generated source missing interface decl:\n%s", src)
	}
}

func TestSourceGenValidation(t *testing.T) {
	gen := NewSourceGenTool()
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing type", map[string]any{"name": "Widget"}},
		{"bad kind", map[string]any{"type": "class", "name": "Widget"}},
		{"bad identifier", map[string]any{"type": "struct", "name": "my-widget"}},
		{"bad package", map[string]any{"type": "struct", "name": "Widget", "package": "my pkg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gen.ValidateArgs(tt.args)
			if err == nil {
				t.Fatal("ValidateArgs() succeeded, want error")
			}
			if code := tool.ErrorCode(err); code != tool.CodeInvalidArgs {
				t.Errorf("ErrorCode(err) = %q, want %q", code, tool.CodeInvalidArgs)
			}
		})
	}
}

func TestSourceGenBadFieldFails(t *testing.T) {
	res, err := NewSourceGenTool().Execute(context.Background(), map[string]any{
		"type":      "struct",
		"name":      "Widget",
		"outputDir": t.TempDir(),
		"fields":    []any{"not a valid { field"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Success {
		t.Fatal("Execute() with malformed field succeeded, want failed result")
	}
	if !strings.Contains(res.ErrorMessage, "does not compile") {
		t.Errorf("ErrorMessage = %q", res.ErrorMessage)
	}
}
