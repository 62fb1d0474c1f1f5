package cli

import (
	"github.com/spf13/cobra"

	"github.com/remodern-labs/remodern/tools"
)

// NewToolCommands creates one direct subcommand per built-in tool, so
// "remodern source-gen --arg type=struct ..." works without the tools group.
func NewToolCommands() []*cobra.Command {
	builtins := tools.All()
	cmds := make([]*cobra.Command, 0, len(builtins))
	for _, t := range builtins {
		name := t.Name()
		cmd := &cobra.Command{
			Use:   name,
			Short: t.Description(),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runDirectTool(cmd, name)
			},
		}
		cmd.Flags().StringArrayP("arg", "a", nil, "Tool argument as key=value (repeatable)")
		cmd.Flags().String("json", "", "Tool arguments as an inline JSON object")
		cmd.Flags().String("config", "", "Path to remodern.yaml config")
		cmd.Flags().String("log-level", "", "Log level: debug | info | warn | error")
		cmds = append(cmds, cmd)
	}
	return cmds
}

func runDirectTool(cmd *cobra.Command, name string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	if !registry.Has(name) {
		return exitError(exitValidation, "tool %q is disabled by config", name)
	}

	args, err := parseToolArgs(cmd)
	if err != nil {
		return err
	}
	return invokeTool(cmd, registry, name, args)
}
