package types

// Segment is a time-bounded slice of transcribed speech. Segments arrive in
// start-time order and that order is preserved downstream.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the full recognized text plus its timestamped segments.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// QuizQuestion is a single multiple-choice question. Answer should be one of
// Options, but model output does not always honor that; the grader treats a
// mismatch as a plain incorrect answer.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Flashcard is one Front/Back study pair.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// SubSegment is one sub-topic inside a concept group.
type SubSegment struct {
	MiniTitle string  `json:"mini_title"`
	StartTime float64 `json:"start_time"`
	Text      string  `json:"text"`
}

// ConceptGroup is a cluster of segments labeled with a title and summary,
// used to build a condensed clickable timeline.
type ConceptGroup struct {
	StartTime float64      `json:"start_time"`
	EndTime   float64      `json:"end_time"`
	Title     string       `json:"title"`
	Summary   string       `json:"summary"`
	Segments  []SubSegment `json:"segments"`
}

// PipelineResult is the aggregate one pipeline run hands to the presentation
// layer. Any artifact field may independently be empty when its stage
// soft-failed; downstream rendering treats absence as a normal state.
type PipelineResult struct {
	VideoPath  string         `json:"video_path"`
	Summary    string         `json:"summary,omitempty"`
	Segments   []Segment      `json:"segments,omitempty"`
	Quizzes    []QuizQuestion `json:"quizzes,omitempty"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
	Timestamps string         `json:"timestamps,omitempty"`
}
