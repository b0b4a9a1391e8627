package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lecchurro/lecchurro/internal/ports/adapters/openai"
	"github.com/lecchurro/lecchurro/internal/server"
	"github.com/lecchurro/lecchurro/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the processing and grading API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
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
	if err := openai.ValidateBaseURL(runCfg.OpenAIBaseURL, runCfg.OpenAIAllowedHosts); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	runs, err := store.Open(cfg.Paths.DataDir)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer runs.Close()

	addr := cfg.Server.Address
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	srv := server.New(server.Config{
		Address:        addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Pipeline:       runCfg,
		Log:            log,
		Runs:           runs,
	})
	return srv.Run()
}
