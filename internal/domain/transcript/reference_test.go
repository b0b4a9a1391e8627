package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lecchurro/lecchurro/internal/types"
)

func TestTimestampReference(t *testing.T) {
	long := strings.Repeat("a", 120)
	segs := []types.Segment{
		{Start: 0, End: 4.5, Text: "too short"},
		{Start: 4.5, End: 30, Text: long},
		{Start: 30, End: 41.25, Text: strings.Repeat("b", 60)},
	}

	got := TimestampReference(segs)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "4.50s - 30.00s: "+strings.Repeat("a", 100)+"...", lines[0])
	assert.Equal(t, "30.00s - 41.25s: "+strings.Repeat("b", 60)+"...", lines[1])
}

func TestTimestampReference_Empty(t *testing.T) {
	assert.Equal(t, "", TimestampReference(nil))
	assert.Equal(t, "", TimestampReference([]types.Segment{{Text: "short"}}))
}
