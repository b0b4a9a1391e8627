// Package quiz parses, renders and grades multiple-choice quizzes produced
// by a text-generation model.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/lecchurro/lecchurro/internal/types"
)

// MaxQuestions caps how many questions a quiz carries and how many the
// grader walks.
const MaxQuestions = 50

// Parse extracts the question list from raw model output. It first attempts
// a strict top-level JSON parse, then falls back to locating a bracketed
// array fragment ("quizzes = [ ... ]" style) inside free-form text. A parse
// failure yields an error and no questions, never a partial list.
func Parse(raw string) ([]types.QuizQuestion, error) {
	t := stripCodeFences(raw)
	if t == "" {
		return nil, errors.New("quiz: empty model output")
	}

	if qs, err := unmarshalQuestions(t); err == nil {
		return qs, nil
	}

	frag, err := extractArrayFragment(t)
	if err != nil {
		return nil, err
	}
	qs, err := unmarshalQuestions(frag)
	if err != nil {
		return nil, fmt.Errorf("quiz: parse extracted array: %w", err)
	}
	return qs, nil
}

// Validate returns the indices of questions whose answer is not among their
// own options. Offenders are flagged for logging but still rendered; the
// grader simply counts them incorrect.
func Validate(qs []types.QuizQuestion) []int {
	var bad []int
	for i, q := range qs {
		found := false
		for _, o := range q.Options {
			if o == q.Answer {
				found = true
				break
			}
		}
		if !found {
			bad = append(bad, i)
		}
	}
	return bad
}

func unmarshalQuestions(s string) ([]types.QuizQuestion, error) {
	var qs []types.QuizQuestion
	if err := json.Unmarshal([]byte(s), &qs); err != nil {
		return nil, err
	}
	if len(qs) > MaxQuestions {
		qs = qs[:MaxQuestions]
	}
	return qs, nil
}

func extractArrayFragment(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return "", fmt.Errorf("quiz: could not locate JSON array in: %q", truncate(s, 200))
	}
	return s[start : end+1], nil
}

func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// RenderHTML renders each question as a single-choice control group, numbered
// from 1, capped at MaxQuestions.
func RenderHTML(qs []types.QuizQuestion) string {
	if len(qs) == 0 {
		return "<p>No quizzes generated.</p>"
	}
	if len(qs) > MaxQuestions {
		qs = qs[:MaxQuestions]
	}

	var b strings.Builder
	b.WriteString("<form class='quiz'>\n")
	for i, q := range qs {
		fmt.Fprintf(&b, "<fieldset data-question='%d'>\n<legend><b>Question %d:</b> %s</legend>\n",
			i+1, i+1, html.EscapeString(q.Question))
		for _, o := range q.Options {
			fmt.Fprintf(&b, "<label><input type='radio' name='q%d' value='%s'> %s</label><br>\n",
				i+1, html.EscapeString(o), html.EscapeString(o))
		}
		b.WriteString("</fieldset>\n")
	}
	b.WriteString("</form>")
	return b.String()
}
