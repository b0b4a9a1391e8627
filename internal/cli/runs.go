package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lecchurro/lecchurro/internal/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		Args:  cobra.NoArgs,
		RunE:  runRuns,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	return cmd
}

func runRuns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.Open(cfg.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer runs.Close()

	list, err := runs.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	for _, r := range list {
		line := fmt.Sprintf("%s  %-7s  %s  %s",
			r.ID, r.Status, r.StartedAt.Local().Format(time.DateTime), r.VideoPath)
		if len(r.StageFailures) > 0 {
			line += fmt.Sprintf("  (%d stage failures)", len(r.StageFailures))
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
