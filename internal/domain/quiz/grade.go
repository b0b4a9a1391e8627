package quiz

import (
	"fmt"
	"strings"

	"github.com/lecchurro/lecchurro/internal/types"
)

// NoQuizzesMessage is returned when there is nothing to grade.
const NoQuizzesMessage = "No quizzes to grade."

// Grade compares answers to the quiz answer key by index and exact string
// equality. The report is one line per graded question, in question order.
// Grading stops at MaxQuestions or the shorter of the two sequences.
func Grade(answers []string, quizzes []types.QuizQuestion) string {
	if len(quizzes) == 0 {
		return NoQuizzesMessage
	}

	n := len(quizzes)
	if len(answers) < n {
		n = len(answers)
	}
	if n > MaxQuestions {
		n = MaxQuestions
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if answers[i] == quizzes[i].Answer {
			lines = append(lines, fmt.Sprintf("**Question %d**: Correct! ✅", i+1))
		} else {
			lines = append(lines, fmt.Sprintf("**Question %d**: Incorrect ❌ (Correct answer: %s)", i+1, quizzes[i].Answer))
		}
	}
	return strings.Join(lines, "\n")
}
