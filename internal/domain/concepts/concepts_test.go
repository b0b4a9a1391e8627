package concepts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecchurro/lecchurro/internal/ports"
	"github.com/lecchurro/lecchurro/internal/types"
)

type fakeGen struct {
	out string
	err error
}

func (f fakeGen) Complete(_ context.Context, _ ports.CompletionRequest) (string, error) {
	return f.out, f.err
}

func TestGroup_EmptySegments(t *testing.T) {
	// The placeholder must win regardless of what the model would return.
	got, err := Group(context.Background(), fakeGen{out: "[]"}, nil)
	require.NoError(t, err)
	assert.Equal(t, NoSegmentsMessage, got)
}

func TestGroup_ModelFailure(t *testing.T) {
	segs := []types.Segment{{Start: 0, End: 5, Text: "intro"}}

	got, err := Group(context.Background(), fakeGen{err: errors.New("boom")}, segs)
	assert.Error(t, err)
	assert.Equal(t, UnavailableMessage, got)

	got, err = Group(context.Background(), fakeGen{out: "not json at all"}, segs)
	assert.Error(t, err)
	assert.Equal(t, UnavailableMessage, got)
}

func TestGroup_Success(t *testing.T) {
	segs := []types.Segment{{Start: 0, End: 5, Text: " intro "}}
	raw := `[{"start_time": 0, "end_time": 5, "title": "Intro", "summary": "Opening remarks.",
		"segments": [{"mini_title": "Welcome", "start_time": 0, "text": "intro"}]}]`

	got, err := Group(context.Background(), fakeGen{out: raw}, segs)
	require.NoError(t, err)
	assert.Contains(t, got, "data-time='0.00'")
	assert.Contains(t, got, "<b>Intro</b>")
	assert.Contains(t, got, "(0.00s - 5.00s)")
	assert.Contains(t, got, "<em>Opening remarks.</em>")
	assert.Contains(t, got, "<b>Welcome</b>")
}

func TestParseGroups_Fenced(t *testing.T) {
	raw := "```json\n[{\"title\":\"T\"}]\n```"
	groups, err := ParseGroups(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "T", groups[0].Title)
}

func TestParseGroups_SurroundingProse(t *testing.T) {
	raw := "Sure, here you go:\n[{\"title\":\"T\"}]\nHope that helps."
	groups, err := ParseGroups(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)
}

func TestRenderHTML_Defaults(t *testing.T) {
	groups := []types.ConceptGroup{{
		Segments: []types.SubSegment{{Text: "body"}},
	}}
	out := RenderHTML(groups)
	assert.Contains(t, out, "Untitled Concept")
	assert.Contains(t, out, "Sub-topic")
	assert.Contains(t, out, "(0.00s - 0.00s)")
}

func TestRenderSegmentList_EveryFifth(t *testing.T) {
	segs := make([]types.Segment, 11)
	for i := range segs {
		segs[i] = types.Segment{Start: float64(i), End: float64(i + 1), Text: "t"}
	}
	out := RenderSegmentList(segs)
	assert.Contains(t, out, "[0.00s - 1.00s]")
	assert.Contains(t, out, "[5.00s - 6.00s]")
	assert.Contains(t, out, "[10.00s - 11.00s]")
	assert.NotContains(t, out, "[1.00s - 2.00s]")
}
