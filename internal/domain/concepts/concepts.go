// Package concepts clusters transcript segments into labeled concept groups
// via a text-generation model and renders them as a clickable timeline.
package concepts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/lecchurro/lecchurro/internal/ports"
	"github.com/lecchurro/lecchurro/internal/prompts"
	"github.com/lecchurro/lecchurro/internal/types"
)

const (
	// NoSegmentsMessage is returned when there is nothing to group.
	NoSegmentsMessage = "<p>No segments found.</p>"
	// UnavailableMessage replaces the timeline when grouping fails for any
	// reason (network, malformed model output).
	UnavailableMessage = "<p>Unable to generate conceptual timestamps. Please try again later.</p>"

	systemRole  = "You are a helpful assistant that outputs only the requested data."
	maxTokens   = 1500
	temperature = 0.7

	defaultTitle     = "Untitled Concept"
	defaultMiniTitle = "Sub-topic"
)

// Group serializes the segments, asks the model to cluster them into concept
// groups, and renders the result. The returned markup is always usable: on
// failure it is one of the fixed placeholder strings and the error explains
// what went wrong so the caller can log it.
func Group(ctx context.Context, gen ports.TextGenerator, segments []types.Segment) (string, error) {
	if len(segments) == 0 {
		return NoSegmentsMessage, nil
	}

	data := make([]types.Segment, len(segments))
	for i, s := range segments {
		data[i] = types.Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)}
	}
	sb, err := json.Marshal(data)
	if err != nil {
		return UnavailableMessage, fmt.Errorf("marshal segments: %w", err)
	}

	prompt := prompts.GroupConcepts() + "\n\nInput segments (JSON):\n" + string(sb)
	raw, err := gen.Complete(ctx, ports.CompletionRequest{
		System:      systemRole,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return UnavailableMessage, err
	}

	groups, err := ParseGroups(raw)
	if err != nil {
		return UnavailableMessage, err
	}
	return RenderHTML(groups), nil
}

// ParseGroups extracts the concept-group array from raw model output,
// tolerating code fences and surrounding prose.
func ParseGroups(raw string) ([]types.ConceptGroup, error) {
	t := stripCodeFences(raw)
	if t == "" {
		return nil, errors.New("concepts: empty model output")
	}

	var groups []types.ConceptGroup
	if err := json.Unmarshal([]byte(t), &groups); err == nil {
		return groups, nil
	}

	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("concepts: could not locate JSON array in: %q", truncate(t, 200))
	}
	if err := json.Unmarshal([]byte(t[start:end+1]), &groups); err != nil {
		return nil, fmt.Errorf("concepts: parse extracted array: %w", err)
	}
	return groups, nil
}

// RenderHTML renders each group as a block with a clickable title, the time
// range, the summary in emphasis, and a nested list of sub-topics. Missing
// optional fields fall back to fixed defaults.
func RenderHTML(groups []types.ConceptGroup) string {
	var b strings.Builder
	for _, g := range groups {
		title := g.Title
		if title == "" {
			title = defaultTitle
		}

		mainLink := fmt.Sprintf("<a href='#' class='timestamp-link' data-time='%.2f'><b>%s</b></a>",
			g.StartTime, html.EscapeString(title))

		var segs strings.Builder
		segs.WriteString("<ul>")
		for _, sub := range g.Segments {
			miniTitle := sub.MiniTitle
			if miniTitle == "" {
				miniTitle = defaultMiniTitle
			}
			fmt.Fprintf(&segs, "<li><a href='#' class='timestamp-link' data-time='%.2f'><b>%s</b></a>: %s</li>",
				sub.StartTime, html.EscapeString(miniTitle), html.EscapeString(sub.Text))
		}
		segs.WriteString("</ul>")

		fmt.Fprintf(&b, `
<div style='margin-bottom:20px; border-bottom:1px solid #ccc; padding-bottom:10px;'>
    <h3>%s <small>(%.2fs - %.2fs)</small></h3>
    <p><em>%s</em></p>
    %s
</div>
`, mainLink, g.StartTime, g.EndTime, html.EscapeString(g.Summary), segs.String())
	}
	return b.String()
}

// RenderSegmentList is the degraded timeline used when grouping is
// unavailable but segments exist: every fifth segment becomes a clickable
// line with its time range.
func RenderSegmentList(segments []types.Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if i%5 != 0 {
			continue
		}
		fmt.Fprintf(&b, "<p><b>[%.2fs - %.2fs]</b> <a href='javascript:void(0);' onclick='seekVideo(%.2f);'>%s</a></p>\n",
			s.Start, s.End, s.Start, html.EscapeString(s.Text))
	}
	return b.String()
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
