package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "dev", cfg.Logging.Mode)
	assert.Equal(t, 1, cfg.Watch.MaxConcurrent)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
whisper:
  binary_path: /opt/whisper/main
  model_path: /opt/whisper/ggml-small.bin
  language: en
  threads: 4
openai:
  model: gpt-4o-mini
paths:
  data_dir: /var/lib/lecchurro
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/whisper/main", cfg.Whisper.BinaryPath)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "/var/lib/lecchurro", cfg.Paths.DataDir)
	assert.Equal(t, 4, cfg.Whisper.Threads)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsNegativeThreads(t *testing.T) {
	cfg := &Config{}
	cfg.Whisper.Threads = -1
	assert.Error(t, cfg.Validate())
}
