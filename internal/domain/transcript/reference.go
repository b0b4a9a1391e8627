// Package transcript holds pure helpers over transcribed segments.
package transcript

import (
	"fmt"
	"strings"

	"github.com/lecchurro/lecchurro/internal/types"
)

const (
	// A segment counts as major once its text is longer than this.
	majorSegmentMinChars = 50
	// Major segment text is cut to this many characters in the reference.
	referenceTextChars = 100
)

// TimestampReference builds the timestamp reference string handed to the
// summarizer: one line per major segment, formatted
// "12.00s - 15.40s: <first 100 chars>...". Short segments are skipped.
func TimestampReference(segments []types.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		text := []rune(s.Text)
		if len(text) <= majorSegmentMinChars {
			continue
		}
		if len(text) > referenceTextChars {
			text = text[:referenceTextChars]
		}
		lines = append(lines, fmt.Sprintf("%.2fs - %.2fs: %s...", s.Start, s.End, string(text)))
	}
	return strings.Join(lines, "\n")
}
