package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lecchurro/lecchurro/internal/config"
	"github.com/lecchurro/lecchurro/internal/logger"
	"github.com/lecchurro/lecchurro/internal/pipeline"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "lecchurro",
		Short:        "Turn a lecture video into a summary, timestamps, quiz and flashcards",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Path to YAML config file")
	root.PersistentFlags().String("data", "", "Data directory (overrides config)")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newRunsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the YAML config named by --config and applies the
// --data override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		cfg.Paths.DataDir = data
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.Logging.Mode)
}

// pipelineConfig assembles the run template from the config file and the
// environment. The API key comes from the environment only; its absence is
// a startup-time error, never a per-call failure.
func pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return pipeline.Config{}, fmt.Errorf("OPENAI_API_KEY is required (set it in .env)")
	}

	model := cfg.OpenAI.Model
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		model = v
	}
	baseURL := cfg.OpenAI.BaseURL
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		baseURL = v
	}
	allowedHosts := cfg.OpenAI.AllowedHosts
	if v := os.Getenv("OPENAI_ALLOWED_HOSTS"); v != "" {
		allowedHosts = splitHosts(v)
	}

	return pipeline.Config{
		DataDir:            cfg.Paths.DataDir,
		FFmpegPath:         cfg.FFmpeg.Path,
		WhisperBin:         cfg.Whisper.BinaryPath,
		WhisperModel:       cfg.Whisper.ModelPath,
		WhisperLanguage:    cfg.Whisper.Language,
		WhisperThreads:     cfg.Whisper.Threads,
		OpenAIAPIKey:       apiKey,
		OpenAIModel:        model,
		OpenAIBaseURL:      baseURL,
		OpenAIAllowedHosts: allowedHosts,
	}, nil
}

func splitHosts(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
