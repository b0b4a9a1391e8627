package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tmp := t.TempDir()
	video := filepath.Join(tmp, "in.mp4")
	require.NoError(t, os.WriteFile(video, []byte("x"), 0o644))

	valid := Config{
		InputVideo:   video,
		WhisperModel: "ggml-base.bin",
		OpenAIAPIKey: "sk-test",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input", func(c *Config) { c.InputVideo = "" }},
		{"missing input", func(c *Config) { c.InputVideo = filepath.Join(tmp, "nope.mp4") }},
		{"missing whisper model", func(c *Config) { c.WhisperModel = "" }},
		{"missing api key", func(c *Config) { c.OpenAIAPIKey = "" }},
		{"bad base url", func(c *Config) { c.OpenAIBaseURL = "http://evil.example" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPrepareLayout(t *testing.T) {
	tmp := t.TempDir()
	l, err := prepareLayout(tmp, "run-1")
	require.NoError(t, err)

	for _, d := range []string{l.videoDir, l.audioDir, l.textDir, l.workDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(tmp, "video"), l.videoDir)
	assert.Equal(t, filepath.Join(tmp, "text_timestamps"), l.textDir)
	assert.Equal(t, filepath.Join(tmp, "work", "run-1"), l.workDir)
}

func TestCopyFile(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.mp4")
	dst := filepath.Join(tmp, "dst.mp4")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, copyFile(src, dst))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	// Overwrite is last-writer-wins.
	require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
	require.NoError(t, copyFile(src, dst))
	b, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}
