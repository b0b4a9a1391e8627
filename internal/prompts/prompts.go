// Package prompts holds the fixed prompt templates for every text-generation
// call site. Templates are embedded so a deployed binary never depends on a
// prompts directory on disk.
package prompts

import (
	"embed"
	"strings"
)

//go:embed templates/*.txt
var templates embed.FS

const (
	transcriptionPlaceholder = "TRANSCRIPTION_HERE"
	timestampsPlaceholder    = "TIMESTAMPS_REFERENCE_HERE"
)

func load(name string) string {
	b, err := templates.ReadFile("templates/" + name)
	if err != nil {
		// Embedded files are checked at build time; a miss here is a
		// programming error.
		panic("prompts: missing template " + name)
	}
	return string(b)
}

// Summarization renders the summary prompt with the transcript and the
// derived timestamp reference substituted in.
func Summarization(transcription, timestampsReference string) string {
	p := load("summarization_prompt.txt")
	p = strings.ReplaceAll(p, transcriptionPlaceholder, transcription)
	p = strings.ReplaceAll(p, timestampsPlaceholder, timestampsReference)
	return p
}

// QuizGeneration renders the multiple-choice quiz prompt.
func QuizGeneration(transcription string) string {
	return strings.ReplaceAll(load("quiz_generation_json.txt"), transcriptionPlaceholder, transcription)
}

// Flashcards renders the Front/Back flashcard prompt.
func Flashcards(transcription string) string {
	return strings.ReplaceAll(load("flashcards_prompt.txt"), transcriptionPlaceholder, transcription)
}

// GroupConcepts returns the concept-grouping instruction template. The
// caller appends the serialized segments itself.
func GroupConcepts() string {
	return load("group_concepts_prompt.txt")
}
