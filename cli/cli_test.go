package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRoot creates a fresh cobra root command wired to all subcommands.
// Each test gets an isolated command tree to avoid shared state.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "remodern",
		SilenceUsage: true,
	}
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewToolsCmd())
	root.AddCommand(NewAuditCmd())
	root.AddCommand(NewToolCommands()...)
	return root
}

// executeCommand runs a cobra command with the given args and captures stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// testConfig writes a config file with the given content into a temp dir and
// returns its path. Passing it via --config keeps tests hermetic: without it,
// config discovery would pick up a stray ./remodern.yaml or the developer's
// ~/.remodern/config.yaml.
func testConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remodern.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToolsList(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "tools", "list", "--config", testConfig(t, ""))
	if err != nil {
		t.Fatalf("tools list error = %v", err)
	}
	for _, want := range []string{"echo", "source-gen", "template-gen", "source-parse", "markup-parse", "binary-inspect"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("tools list output missing %q:\n%s", want, stdout)
		}
	}
}

func TestToolsListHonorsDisabledConfig(t *testing.T) {
	cfgPath := testConfig(t, "disabled_tools: [echo]\n")
	stdout, _, err := executeCommand(newTestRoot(), "tools", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("tools list error = %v", err)
	}
	if strings.Contains(stdout, "Echoes input") {
		t.Errorf("disabled tool listed:\n%s", stdout)
	}
}

func TestToolsSchema(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "tools", "schema", "source-gen", "--config", testConfig(t, ""))
	if err != nil {
		t.Fatalf("tools schema error = %v", err)
	}
	for _, want := range []string{`"type": "object"`, `"required"`, `"outputDir"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("schema output missing %q:\n%s", want, stdout)
		}
	}
}

func TestToolsSchemaUnknown(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "tools", "schema", "nope", "--config", testConfig(t, ""))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want ExitError with code %d", err, exitValidation)
	}
}

func TestToolsCall(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "tools", "call", "echo", "--config", testConfig(t, ""), "--arg", "message=hello")
	if err != nil {
		t.Fatalf("tools call error = %v", err)
	}
	if strings.TrimSpace(stdout) != "hello" {
		t.Errorf("stdout = %q, want hello", stdout)
	}
}

func TestToolsCallJSONArgs(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "tools", "call", "template-gen",
		"--config", testConfig(t, ""),
		"--json", `{"template": "Hi {{.who}}", "data": {"who": "you"}}`)
	if err != nil {
		t.Fatalf("tools call error = %v", err)
	}
	if strings.TrimSpace(stdout) != "Hi you" {
		t.Errorf("stdout = %q, want Hi you", stdout)
	}
}

func TestToolsCallInvalidArgs(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "tools", "call", "source-gen", "--config", testConfig(t, ""), "--arg", "type=struct")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want ExitError with code %d", err, exitValidation)
	}
}

func TestToolsCallUnknownTool(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "tools", "call", "nope", "--config", testConfig(t, ""))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want ExitError with code %d", err, exitValidation)
	}
}

func TestToolsCallBadArgFlag(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "tools", "call", "echo", "--config", testConfig(t, ""), "--arg", "no-equals-sign")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want ExitError with code %d", err, exitValidation)
	}
}

func TestDirectToolCommand(t *testing.T) {
	stdout, _, err := executeCommand(newTestRoot(), "echo", "--config", testConfig(t, ""), "--arg", "message=direct")
	if err != nil {
		t.Fatalf("echo error = %v", err)
	}
	if strings.TrimSpace(stdout) != "direct" {
		t.Errorf("stdout = %q, want direct", stdout)
	}
}

func TestDirectToolCommandDisabled(t *testing.T) {
	cfgPath := testConfig(t, "disabled_tools: [echo]\n")
	_, _, err := executeCommand(newTestRoot(), "echo", "--config", cfgPath)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want ExitError with code %d", err, exitValidation)
	}
}

func TestDirectToolFailure(t *testing.T) {
	_, _, err := executeCommand(newTestRoot(), "source-parse",
		"--config", testConfig(t, ""),
		"--arg", "source="+filepath.Join(t.TempDir(), "absent"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitRuntime {
		t.Fatalf("err = %v, want ExitError with code %d", err, exitRuntime)
	}
}

func TestAuditListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	stdout, _, err := executeCommand(newTestRoot(), "audit", "list", "--audit-path", dbPath)
	if err != nil {
		t.Fatalf("audit list error = %v", err)
	}
	if !strings.Contains(stdout, "STARTED") {
		t.Errorf("audit list output missing header:\n%s", stdout)
	}
}

func TestAuditPrune(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	stdout, _, err := executeCommand(newTestRoot(), "audit", "prune", "--audit-path", dbPath, "--older-than-days", "7")
	if err != nil {
		t.Fatalf("audit prune error = %v", err)
	}
	if !strings.Contains(stdout, "Removed 0") {
		t.Errorf("audit prune output = %q", stdout)
	}
}

func TestParseArgCoercion(t *testing.T) {
	tests := []struct {
		value string
		want  any
	}{
		{"true", true},
		{"false", false},
		{"42", float64(42)},
		{"3.5", 3.5},
		{"hello", "hello"},
		{"v2", "v2"},
	}
	for _, tt := range tests {
		if got := coerceArgValue(tt.value); got != tt.want {
			t.Errorf("coerceArgValue(%q) = %v (%T), want %v (%T)", tt.value, got, got, tt.want, tt.want)
		}
	}
}
