package flashcards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecchurro/lecchurro/internal/types"
)

func TestParse_WellFormedPairs(t *testing.T) {
	raw := "Front: What is Go?\nBack: A programming language.\nFront: Year?\nBack: 2009"
	cards := Parse(raw)
	require.Len(t, cards, 2)
	assert.Equal(t, types.Flashcard{Front: "What is Go?", Back: "A programming language."}, cards[0])
	assert.Equal(t, types.Flashcard{Front: "Year?", Back: "2009"}, cards[1])
}

func TestParse_DropsTrailingUnmatchedFront(t *testing.T) {
	cards := Parse("Front: A\nBack: B\nFront: C")
	require.Len(t, cards, 1)
	assert.Equal(t, types.Flashcard{Front: "A", Back: "B"}, cards[0])
}

func TestParse_IgnoresUnlabeledLines(t *testing.T) {
	raw := "Here are your cards:\n\nFront: A\nsome commentary\nBack: B\nmore text\nFront: C\nBack: D"
	cards := Parse(raw)
	require.Len(t, cards, 2)
	assert.Equal(t, "C", cards[1].Front)
}

func TestParse_CaseInsensitivePrefixes(t *testing.T) {
	cards := Parse("FRONT: a\nback: b")
	require.Len(t, cards, 1)
	assert.Equal(t, types.Flashcard{Front: "a", Back: "b"}, cards[0])
}

func TestParse_BackWithoutFrontDropped(t *testing.T) {
	assert.Empty(t, Parse("Back: orphan\nBack: another"))
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("Front:\nBack: b"))
}

func TestRenderMarkdown(t *testing.T) {
	cards := []types.Flashcard{{Front: "F", Back: "B"}}
	md := RenderMarkdown(cards)
	assert.Contains(t, md, "## Flashcards")
	assert.Contains(t, md, "Flashcard 1:")
	assert.Contains(t, md, "<details")
	assert.Contains(t, md, "<b>Answer:</b> B")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, NoFlashcardsMessage, RenderMarkdown(nil))
}
