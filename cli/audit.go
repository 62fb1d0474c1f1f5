package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/remodern-labs/remodern/audit"
)

// NewAuditCmd creates the "audit" command group.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the tool invocation audit log",
	}
	cmd.PersistentFlags().String("audit-path", "", "Path to the SQLite audit database (default: ~/.remodern/remodern.db)")

	cmd.AddCommand(newAuditListCmd())
	cmd.AddCommand(newAuditPruneCmd())

	return cmd
}

func newAuditListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent tool invocations, newest first",
		Args:  cobra.NoArgs,
		RunE:  runAuditList,
	}
	cmd.Flags().IntP("limit", "n", 50, "Maximum entries to show")
	return cmd
}

func runAuditList(cmd *cobra.Command, _ []string) error {
	store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return exitError(exitRuntime, "listing audit entries: %v", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTOOL\tOK\tERROR\tMS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%d\n", e.StartedAt.Format(time.RFC3339), e.ToolName, e.Success, e.ErrorCode, e.DurationMS)
	}
	return w.Flush()
}

func newAuditPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove audit entries older than the retention window",
		Args:  cobra.NoArgs,
		RunE:  runAuditPrune,
	}
	cmd.Flags().Int("older-than-days", 30, "Remove entries older than this many days")
	return cmd
}

func runAuditPrune(cmd *cobra.Command, _ []string) error {
	store, err := openAuditStore(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	days, _ := cmd.Flags().GetInt("older-than-days")
	if days < 0 {
		return exitError(exitValidation, "--older-than-days must be non-negative")
	}
	removed, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		return exitError(exitRuntime, "pruning audit entries: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit entry(s)\n", removed)
	return nil
}

func openAuditStore(cmd *cobra.Command) (*audit.Store, error) {
	dsn, _ := cmd.Flags().GetString("audit-path")
	if dsn == "" {
		var err error
		dsn, err = audit.DefaultPath()
		if err != nil {
			return nil, exitError(exitRuntime, "resolving audit path: %v", err)
		}
	}
	store, err := audit.NewStore(audit.StoreConfig{DSN: dsn})
	if err != nil {
		return nil, exitError(exitRuntime, "opening audit store: %v", err)
	}
	return store, nil
}
