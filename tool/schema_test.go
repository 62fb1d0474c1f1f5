package tool

import "testing"

func testSchema() Schema {
	noExtra := false
	s := NewObjectSchema().
		WithProperty("source", Property{Type: "string", Description: "Input path"}).
		WithProperty("analysisType", Property{Type: "string", Enum: []string{"structure", "full"}, Default: "structure"}).
		WithProperty("includePrivate", Property{Type: "boolean", Default: false}).
		WithProperty("fields", Property{Type: "array", Items: &Property{Type: "string"}}).
		WithProperty("data", Property{Type: "object"}).
		WithRequired("source")
	s.AdditionalProperties = &noExtra
	return s
}

func TestSchemaValidate(t *testing.T) {
	schema := testSchema()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{
			name:    "nil args rejected",
			args:    nil,
			wantErr: true,
		},
		{
			name:    "missing required",
			args:    map[string]any{"analysisType": "full"},
			wantErr: true,
		},
		{
			name:    "minimal valid",
			args:    map[string]any{"source": "main.go"},
			wantErr: false,
		},
		{
			name: "all valid",
			args: map[string]any{
				"source":         "main.go",
				"analysisType":   "full",
				"includePrivate": true,
				"fields":         []any{"Name string"},
				"data":           map[string]any{"k": "v"},
			},
			wantErr: false,
		},
		{
			name:    "enum violation",
			args:    map[string]any{"source": "main.go", "analysisType": "bytecode"},
			wantErr: true,
		},
		{
			name:    "type mismatch string",
			args:    map[string]any{"source": 7},
			wantErr: true,
		},
		{
			name:    "type mismatch boolean",
			args:    map[string]any{"source": "main.go", "includePrivate": "yes"},
			wantErr: true,
		},
		{
			name:    "unknown argument rejected",
			args:    map[string]any{"source": "main.go", "bogus": 1},
			wantErr: true,
		},
		{
			name:    "string slice accepted for array",
			args:    map[string]any{"source": "main.go", "fields": []string{"a", "b"}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate("source-parse", tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				toolErr, ok := AsToolError(err)
				if !ok {
					t.Fatalf("Validate() error type = %T, want *ToolError", err)
				}
				if toolErr.Code != CodeInvalidArgs {
					t.Fatalf("Validate() error code = %q, want %q", toolErr.Code, CodeInvalidArgs)
				}
				if toolErr.ToolName != "source-parse" {
					t.Fatalf("Validate() tool name = %q, want %q", toolErr.ToolName, "source-parse")
				}
			}
		})
	}
}

func TestSchemaValidateAllowsExtraByDefault(t *testing.T) {
	schema := NewObjectSchema().WithProperty("message", Property{Type: "string"})
	if err := schema.Validate("echo", map[string]any{"message": "hi", "extra": true}); err != nil {
		t.Fatalf("Validate() error = %v, want extras allowed when additionalProperties is unset", err)
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"name":    "Widget",
		"blank":   "  ",
		"flag":    true,
		"list":    []any{"a", 1, "b"},
		"strlist": []string{"x"},
		"obj":     map[string]any{"k": "v"},
	}

	if got := StringArg(args, "name", "fallback"); got != "Widget" {
		t.Fatalf("StringArg() = %q", got)
	}
	if got := StringArg(args, "blank", "fallback"); got != "fallback" {
		t.Fatalf("StringArg() blank = %q, want fallback", got)
	}
	if got := StringArg(args, "missing", "fallback"); got != "fallback" {
		t.Fatalf("StringArg() missing = %q, want fallback", got)
	}
	if !BoolArg(args, "flag", false) {
		t.Fatal("BoolArg() = false, want true")
	}
	if BoolArg(args, "missing", false) {
		t.Fatal("BoolArg() missing = true, want fallback false")
	}
	if got := StringSliceArg(args, "list"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("StringSliceArg() = %v", got)
	}
	if got := StringSliceArg(args, "strlist"); len(got) != 1 || got[0] != "x" {
		t.Fatalf("StringSliceArg() []string = %v", got)
	}
	if got := ObjectArg(args, "obj"); got["k"] != "v" {
		t.Fatalf("ObjectArg() = %v", got)
	}
	if got := ObjectArg(args, "missing"); got == nil || len(got) != 0 {
		t.Fatalf("ObjectArg() missing = %v, want empty non-nil map", got)
	}
}
