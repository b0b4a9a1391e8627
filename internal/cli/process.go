package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lecchurro/lecchurro/internal/domain/flashcards"
	"github.com/lecchurro/lecchurro/internal/domain/quiz"
	"github.com/lecchurro/lecchurro/internal/pipeline"
	"github.com/lecchurro/lecchurro/internal/store"
	"github.com/lecchurro/lecchurro/internal/types"
)

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Run one lecture video through the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0])
		},
	}
	return cmd
}

func runProcess(cmd *cobra.Command, input string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	runCfg, err := pipelineConfig(cfg)
	if err != nil {
		return err
	}
	runCfg.InputVideo = absIn
	runCfg.Log = log

	if err := runCfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	runs, err := store.Open(cfg.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer runs.Close()
	runCfg.Runs = runs

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	result, runErr := pipeline.Run(ctx, runCfg)
	if runErr != nil {
		return runErr
	}

	outDir, err := writeArtifacts(cfg.Paths.DataDir, absIn, result)
	if err != nil {
		return err
	}
	log.Info("artifacts written", "dir", outDir,
		"quizzes", len(result.Quizzes), "flashcards", len(result.Flashcards))
	fmt.Fprintln(cmd.OutOrStdout(), outDir)
	return nil
}

// writeArtifacts renders the run's artifacts into
// <dataDir>/artifacts/<video-base>/ and returns that directory.
func writeArtifacts(dataDir, input string, result types.PipelineResult) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	outDir := filepath.Join(dataDir, "artifacts", base)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	files := map[string][]byte{
		"summary.md":      []byte(result.Summary),
		"flashcards.md":   []byte(flashcards.RenderMarkdown(result.Flashcards)),
		"quiz.html":       []byte(quiz.RenderHTML(result.Quizzes)),
		"timestamps.html": []byte(result.Timestamps),
	}
	qb, err := json.MarshalIndent(result.Quizzes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal quizzes: %w", err)
	}
	files["quiz.json"] = qb

	rb, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	files["result.json"] = rb

	for name, b := range files {
		if err := os.WriteFile(filepath.Join(outDir, name), b, 0o644); err != nil {
			return "", err
		}
	}
	return outDir, nil
}
