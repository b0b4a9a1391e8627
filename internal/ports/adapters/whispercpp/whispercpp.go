package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lecchurro/lecchurro/internal/types"
)

type Adapter struct {
	bin      string
	model    string
	language string
	threads  int
}

func New(binPath, modelPath, language string, threads int) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, language: language, threads: threads}
}

// Transcribe runs whisper.cpp over a WAV file and returns the full text plus
// its timestamped segments. Either a complete transcript is produced or the
// call fails; there is no partial-result handling.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, workDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(workDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	if a.language != "" {
		args = append(args, "-l", a.language)
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}

	var out struct {
		Segments []types.Segment `json:"segments"`
	}
	if err := json.Unmarshal(jb, &out); err != nil {
		return types.Transcript{}, err
	}

	parts := make([]string, 0, len(out.Segments))
	for i := range out.Segments {
		out.Segments[i].Text = strings.TrimSpace(out.Segments[i].Text)
		if out.Segments[i].Text != "" {
			parts = append(parts, out.Segments[i].Text)
		}
	}
	return types.Transcript{
		Text:     strings.Join(parts, " "),
		Segments: out.Segments,
	}, nil
}
