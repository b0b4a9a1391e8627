// Package flashcards parses raw "Front:"/"Back:" model output into study
// pairs and renders them as collapsible blocks.
package flashcards

import (
	"fmt"
	"html"
	"strings"

	"github.com/lecchurro/lecchurro/internal/types"
)

// NoFlashcardsMessage is returned when no pairs could be parsed.
const NoFlashcardsMessage = "No flashcards generated."

// Parse walks the raw text line by line, holding the most recent front and
// back. A card only materializes once both slots are filled, after which
// both reset; unlabeled or unpaired lines are dropped silently. A trailing
// "Front:" with no matching "Back:" never becomes a card.
func Parse(raw string) []types.Flashcard {
	var (
		cards        []types.Flashcard
		currentFront string
		currentBack  string
	)
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "front:"):
			currentFront = strings.TrimSpace(line[len("front:"):])
		case strings.HasPrefix(lower, "back:"):
			currentBack = strings.TrimSpace(line[len("back:"):])
			if currentFront != "" && currentBack != "" {
				cards = append(cards, types.Flashcard{Front: currentFront, Back: currentBack})
				currentFront = ""
				currentBack = ""
			}
		}
	}
	return cards
}

// RenderMarkdown turns cards into interactive Markdown with collapsible
// details blocks, numbered from 1.
func RenderMarkdown(cards []types.Flashcard) string {
	if len(cards) == 0 {
		return NoFlashcardsMessage
	}

	var b strings.Builder
	b.WriteString("## Flashcards\n\n")
	for i, c := range cards {
		fmt.Fprintf(&b, `
<details style="background-color: #f0f8ff; padding: 10px; border-radius: 5px;">
<summary><span style="font-size: 20px; font-weight: bold; cursor: pointer;">Flashcard %d:</span> <span style="font-size: 18px;">%s</span></summary>

<p style="font-size: 16px; margin-top: 10px;"><b>Answer:</b> %s</p>

</details>

<br>
`, i+1, html.EscapeString(c.Front), html.EscapeString(c.Back))
	}
	return b.String()
}
