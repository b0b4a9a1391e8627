package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lecchurro/lecchurro/internal/pipeline"
	"github.com/lecchurro/lecchurro/internal/store"
	"github.com/lecchurro/lecchurro/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and process every video dropped into it",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	cmd.Flags().String("dir", "", "Input directory to watch (overrides config)")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	runCfg, err := pipelineConfig(cfg)
	if err != nil {
		return err
	}
	runCfg.Log = log

	runs, err := store.Open(cfg.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer runs.Close()
	runCfg.Runs = runs

	inputDir := cfg.Watch.InputDir
	if v, _ := cmd.Flags().GetString("dir"); v != "" {
		inputDir = v
	}
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		return err
	}

	w, err := watcher.New(inputDir, func(ctx context.Context, videoPath string) error {
		c := runCfg
		c.InputVideo = videoPath
		if err := c.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		_, err := pipeline.Run(ctx, c)
		return err
	}, log, cfg.Watch.MaxConcurrent)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
