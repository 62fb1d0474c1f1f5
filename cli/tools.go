package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/remodern-labs/remodern/tool"
)

// NewToolsCmd creates the "tools" command group.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke registered tools",
	}
	cmd.PersistentFlags().String("config", "", "Path to remodern.yaml config")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug | info | warn | error")

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsSchemaCmd())
	cmd.AddCommand(newToolsCallCmd())

	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		Args:  cobra.NoArgs,
		RunE:  runToolsList,
	}
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, t := range registry.Tools() {
		fmt.Fprintf(w, "%s\t%s\n", t.Name(), t.Description())
	}
	return w.Flush()
}

func newToolsSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <name>",
		Short: "Print a tool's input schema as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolsSchema,
	}
}

func runToolsSchema(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(args[0])
	t, ok := registry.Lookup(name)
	if !ok {
		return exitError(exitValidation, "unknown tool %q (see: remodern tools list)", name)
	}

	encoded, err := json.MarshalIndent(t.InputSchema(), "", "  ")
	if err != nil {
		return exitError(exitRuntime, "encoding schema: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func newToolsCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <name>",
		Short: "Invoke a tool by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runToolsCall,
	}
	cmd.Flags().StringArrayP("arg", "a", nil, "Tool argument as key=value (repeatable)")
	cmd.Flags().String("json", "", "Tool arguments as an inline JSON object")
	return cmd
}

func runToolsCall(cmd *cobra.Command, cmdArgs []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	args, err := parseToolArgs(cmd)
	if err != nil {
		return err
	}
	return invokeTool(cmd, registry, strings.TrimSpace(cmdArgs[0]), args)
}

// invokeTool runs one tool through the registry and renders the outcome.
func invokeTool(cmd *cobra.Command, registry *tool.Registry, name string, args map[string]any) error {
	res, err := registry.Execute(cmd.Context(), name, args)
	if err != nil {
		if terr, ok := tool.AsToolError(err); ok && (terr.Code == tool.CodeToolNotFound || terr.Code == tool.CodeInvalidArgs) {
			return exitError(exitValidation, "%s", terr.Message)
		}
		return exitError(exitRuntime, "%v", err)
	}
	if !res.Success {
		return exitError(exitRuntime, "tool failed: %s", res.ErrorMessage)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Content)
	for _, artifact := range res.Artifacts {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", artifact)
	}
	return nil
}

// parseToolArgs builds the argument map from --json and repeated --arg flags.
// --arg values overlay the JSON object.
func parseToolArgs(cmd *cobra.Command) (map[string]any, error) {
	args := map[string]any{}

	if inline, _ := cmd.Flags().GetString("json"); strings.TrimSpace(inline) != "" {
		if err := json.Unmarshal([]byte(inline), &args); err != nil {
			return nil, exitError(exitValidation, "invalid --json value: %v", err)
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("arg")
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, exitError(exitValidation, "invalid --arg %q, want key=value", pair)
		}
		args[key] = coerceArgValue(value)
	}
	return args, nil
}

// coerceArgValue turns flag strings into the JSON-ish scalar they spell.
func coerceArgValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil && strings.ContainsAny(value, "0123456789") {
		return n
	}
	return value
}
