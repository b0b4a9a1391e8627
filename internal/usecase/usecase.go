// Package usecase sequences one pipeline run: audio extraction,
// transcription, the three artifact generators, and concept grouping.
package usecase

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/lecchurro/lecchurro/internal/domain/concepts"
	"github.com/lecchurro/lecchurro/internal/domain/flashcards"
	"github.com/lecchurro/lecchurro/internal/domain/quiz"
	"github.com/lecchurro/lecchurro/internal/domain/transcript"
	"github.com/lecchurro/lecchurro/internal/logger"
	"github.com/lecchurro/lecchurro/internal/ports"
	"github.com/lecchurro/lecchurro/internal/prompts"
	"github.com/lecchurro/lecchurro/internal/types"
)

// Stage names one discrete unit of the pipeline, used for failure reporting
// and run history.
type Stage string

const (
	StageSaving      Stage = "saving"
	StageExtract     Stage = "extract_audio"
	StageTranscribe  Stage = "transcribe"
	StageSummarize   Stage = "summarize"
	StageQuiz        Stage = "quiz"
	StageFlashcards  Stage = "flashcards"
	StageGroupstamps Stage = "group_timestamps"
)

// MsgExtractionFailed replaces the video path when audio extraction fails;
// no artifacts are possible past that point.
const MsgExtractionFailed = "Error extracting audio."

const (
	summarySystem    = "You are an AI assistant that summarizes lecture transcripts."
	quizSystem       = "You are an expert teacher skilled in producing detailed and correct student assessments."
	flashcardsSystem = "You are an AI assistant that creates flashcards to help students learn."

	generatorMaxTokens = 4096

	summaryTemperature    = 0.5
	quizTemperature       = 0.7
	flashcardsTemperature = 0.7
)

type Deps struct {
	Video ports.VideoTool
	ASR   ports.ASR
	Gen   ports.TextGenerator
	Log   *logger.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return Usecase{d: d}
}

type Input struct {
	// VideoPath is the canonical saved copy of the upload; the boundary
	// collaborator normalizes whatever shape it received into this path
	// before the core ever sees it.
	VideoPath      string
	AudioPath      string
	TranscriptPath string
	// WorkDir holds intermediate ASR output for this run.
	WorkDir string
}

// Result carries the artifacts plus a record of which stages failed.
// Soft failures leave their artifact empty and the rest of the run intact.
type Result struct {
	Result   types.PipelineResult
	Failures map[Stage]string
}

// Process runs the pipeline over one saved video. Extraction and
// transcription failures are hard: the run aborts and the error is returned
// alongside a result describing it. Generator and grouping failures are
// soft: they are recorded in Failures, logged, and the run continues.
func (u Usecase) Process(ctx context.Context, in Input) (Result, error) {
	res := Result{Failures: map[Stage]string{}}

	if err := u.d.Video.ExtractAudioMono16k(ctx, in.VideoPath, in.AudioPath); err != nil {
		u.d.Log.Error("audio extraction failed", "stage", StageExtract, "error", truncateErr(err))
		res.Failures[StageExtract] = truncateErr(err)
		res.Result = types.PipelineResult{VideoPath: MsgExtractionFailed}
		return res, fmt.Errorf("extract audio: %w", err)
	}

	tr, err := u.d.ASR.Transcribe(ctx, in.AudioPath, in.WorkDir)
	if err != nil {
		u.d.Log.Error("transcription failed", "stage", StageTranscribe, "error", truncateErr(err))
		res.Failures[StageTranscribe] = truncateErr(err)
		res.Result = types.PipelineResult{VideoPath: in.VideoPath}
		return res, fmt.Errorf("transcribe: %w", err)
	}

	if in.TranscriptPath != "" {
		if err := os.WriteFile(in.TranscriptPath, []byte(tr.Text), 0o644); err != nil {
			u.d.Log.Warn("could not persist transcript", "path", in.TranscriptPath, "error", truncateErr(err))
		}
	}

	res.Result = types.PipelineResult{
		VideoPath: in.VideoPath,
		Segments:  tr.Segments,
	}

	// The three generators are independent: each runs in its own failure
	// boundary and a failure in one never blocks the others. Each goroutine
	// writes only its own pair of variables.
	var summary string
	var quizzes []types.QuizQuestion
	var cards []types.Flashcard
	var sumErr, quizErr, flashErr error
	var g errgroup.Group
	g.Go(func() error {
		summary, sumErr = u.summarize(ctx, tr)
		return nil
	})
	g.Go(func() error {
		quizzes, quizErr = u.generateQuiz(ctx, tr.Text)
		return nil
	})
	g.Go(func() error {
		cards, flashErr = u.generateFlashcards(ctx, tr.Text)
		return nil
	})
	_ = g.Wait()

	if sumErr != nil {
		u.d.Log.Error("summary generation failed", "stage", StageSummarize, "error", truncateErr(sumErr))
		res.Failures[StageSummarize] = truncateErr(sumErr)
		summary = ""
	}
	if quizErr != nil {
		u.d.Log.Error("quiz generation failed", "stage", StageQuiz, "error", truncateErr(quizErr))
		res.Failures[StageQuiz] = truncateErr(quizErr)
		quizzes = nil
	}
	if flashErr != nil {
		u.d.Log.Error("flashcard generation failed", "stage", StageFlashcards, "error", truncateErr(flashErr))
		res.Failures[StageFlashcards] = truncateErr(flashErr)
		cards = nil
	}

	res.Result.Summary = summary
	res.Result.Quizzes = quizzes
	res.Result.Flashcards = cards

	// Grouping only needs the transcript, so it runs even when
	// summarization failed.
	markup, err := concepts.Group(ctx, u.d.Gen, tr.Segments)
	if err != nil {
		u.d.Log.Error("concept grouping failed", "stage", StageGroupstamps, "error", truncateErr(err))
		res.Failures[StageGroupstamps] = truncateErr(err)
		if len(tr.Segments) > 0 {
			markup += "\n" + concepts.RenderSegmentList(tr.Segments)
		}
	}
	res.Result.Timestamps = markup

	return res, nil
}

func (u Usecase) summarize(ctx context.Context, tr types.Transcript) (string, error) {
	reference := transcript.TimestampReference(tr.Segments)
	return u.d.Gen.Complete(ctx, ports.CompletionRequest{
		System:      summarySystem,
		Prompt:      prompts.Summarization(tr.Text, reference),
		MaxTokens:   generatorMaxTokens,
		Temperature: summaryTemperature,
	})
}

func (u Usecase) generateQuiz(ctx context.Context, transcription string) ([]types.QuizQuestion, error) {
	raw, err := u.d.Gen.Complete(ctx, ports.CompletionRequest{
		System:      quizSystem,
		Prompt:      prompts.QuizGeneration(transcription),
		MaxTokens:   generatorMaxTokens,
		Temperature: quizTemperature,
	})
	if err != nil {
		return nil, err
	}
	qs, err := quiz.Parse(raw)
	if err != nil {
		return nil, err
	}
	for _, i := range quiz.Validate(qs) {
		u.d.Log.Warn("quiz answer not among options", "question", i+1, "answer", qs[i].Answer)
	}
	return qs, nil
}

func (u Usecase) generateFlashcards(ctx context.Context, transcription string) ([]types.Flashcard, error) {
	raw, err := u.d.Gen.Complete(ctx, ports.CompletionRequest{
		System:      flashcardsSystem,
		Prompt:      prompts.Flashcards(transcription),
		MaxTokens:   generatorMaxTokens,
		Temperature: flashcardsTemperature,
	})
	if err != nil {
		return nil, err
	}
	return flashcards.Parse(raw), nil
}

func truncateErr(err error) string {
	const n = 300
	s := err.Error()
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
