// Package pipeline wires the adapters together and runs one video through
// the full flow, managing the on-disk layout and run history.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lecchurro/lecchurro/internal/logger"
	"github.com/lecchurro/lecchurro/internal/ports"
	"github.com/lecchurro/lecchurro/internal/ports/adapters/ffmpeg"
	"github.com/lecchurro/lecchurro/internal/ports/adapters/openai"
	"github.com/lecchurro/lecchurro/internal/ports/adapters/whispercpp"
	"github.com/lecchurro/lecchurro/internal/store"
	"github.com/lecchurro/lecchurro/internal/types"
	"github.com/lecchurro/lecchurro/internal/usecase"
)

type Config struct {
	InputVideo string
	// DataDir is the root for the video/, audio/ and text_timestamps/
	// directories plus per-run work dirs. Defaults to "data".
	DataDir string

	FFmpegPath string

	WhisperBin      string
	WhisperModel    string
	WhisperLanguage string
	WhisperThreads  int

	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIAllowedHosts []string

	Log *logger.Logger
	// Runs is optional; when set, every run is recorded.
	Runs *store.Store
}

func (c Config) Validate() error {
	if c.InputVideo == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.InputVideo); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.WhisperModel == "" {
		return fmt.Errorf("whisper model path is required")
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	return openai.ValidateBaseURL(c.OpenAIBaseURL, c.OpenAIAllowedHosts)
}

// Run processes one video end to end and returns the artifact bundle. The
// returned PipelineResult is always populated; the error reports hard
// failures (saving, extraction, transcription).
func Run(ctx context.Context, cfg Config) (types.PipelineResult, error) {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	v := ffmpeg.New(cfg.FFmpegPath)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel, cfg.WhisperLanguage, cfg.WhisperThreads)
	gen := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	runID := uuid.NewString()
	layout, err := prepareLayout(dataDir, runID)
	if err != nil {
		return types.PipelineResult{}, err
	}
	log.Info("workspace ready", "run", runID, "data_dir", dataDir)

	startedAt := time.Now().UTC()
	if cfg.Runs != nil {
		if err := cfg.Runs.StartRun(ctx, runID, cfg.InputVideo, startedAt); err != nil {
			log.Warn("could not record run start", "error", err.Error())
		}
	}

	res, runErr := process(ctx, cfg, v, asr, gen, log, layout)

	if cfg.Runs != nil {
		status := store.StatusDone
		errMsg := ""
		if runErr != nil {
			status = store.StatusFailed
			errMsg = runErr.Error()
		}
		failures := make(map[string]string, len(res.Failures))
		for stage, msg := range res.Failures {
			failures[string(stage)] = msg
		}
		if err := cfg.Runs.FinishRun(ctx, runID, status, failures, errMsg, time.Now().UTC()); err != nil {
			log.Warn("could not record run finish", "error", err.Error())
		}
	}

	return res.Result, runErr
}

type runLayout struct {
	videoDir string
	audioDir string
	textDir  string
	workDir  string
}

func prepareLayout(dataDir, runID string) (runLayout, error) {
	l := runLayout{
		videoDir: filepath.Join(dataDir, "video"),
		audioDir: filepath.Join(dataDir, "audio"),
		textDir:  filepath.Join(dataDir, "text_timestamps"),
		workDir:  filepath.Join(dataDir, "work", runID),
	}
	for _, d := range []string{l.videoDir, l.audioDir, l.textDir, l.workDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return runLayout{}, err
		}
	}
	return l, nil
}

func process(
	ctx context.Context,
	cfg Config,
	v ports.VideoTool,
	asr ports.ASR,
	gen ports.TextGenerator,
	log *logger.Logger,
	layout runLayout,
) (usecase.Result, error) {
	// Saving: copy the upload into the data root. Filenames derive from the
	// original name with last-writer-wins overwrite semantics.
	videoName := filepath.Base(cfg.InputVideo)
	base := strings.TrimSuffix(videoName, filepath.Ext(videoName))
	videoPath := filepath.Join(layout.videoDir, videoName)
	if err := copyFile(cfg.InputVideo, videoPath); err != nil {
		log.Error("saving upload failed", "stage", usecase.StageSaving, "error", err.Error())
		return usecase.Result{
			Failures: map[usecase.Stage]string{usecase.StageSaving: err.Error()},
		}, fmt.Errorf("save video: %w", err)
	}

	uc := usecase.New(usecase.Deps{Video: v, ASR: asr, Gen: gen, Log: log})
	return uc.Process(ctx, usecase.Input{
		VideoPath:      videoPath,
		AudioPath:      filepath.Join(layout.audioDir, base+".wav"),
		TranscriptPath: filepath.Join(layout.textDir, base+".txt"),
		WorkDir:        layout.workDir,
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
