package chunk

import (
	"strings"
	"unicode/utf8"
)

// ContextMarker labels the overlap excerpt injected at the start of
// every segment after the first.
const ContextMarker = "[CONTEXT FROM PREVIOUS SECTION]"

// applyOverlap prepends a bounded excerpt of each segment's predecessor
// under the ContextMarker. The first segment is never prefixed.
func (c *Chunker) applyOverlap(segments []string) []string {
	out := make([]string, len(segments))
	out[0] = segments[0]
	for i := 1; i < len(segments); i++ {
		out[i] = ContextMarker + "\n" + c.overlapExcerpt(segments[i-1]) + "\n\n" + segments[i]
	}
	return out
}

// overlapExcerpt takes the trailing Overlap-sized window of prev and
// snaps it to the last one or two complete sentences so the excerpt does
// not start mid-sentence. When the window holds no sentence boundary at
// all, the raw window is used; a window that opens mid-sentence can
// still contribute a leading fragment, which is an accepted
// approximation.
func (c *Chunker) overlapExcerpt(prev string) string {
	window := prev
	if len(prev) > c.cfg.Overlap {
		start := len(prev) - c.cfg.Overlap
		for start < len(prev) && !utf8.RuneStart(prev[start]) {
			start++
		}
		window = prev[start:]
	}

	sentences := splitSentences(window)
	switch {
	case len(sentences) > 2:
		return sentences[len(sentences)-2] + " " + sentences[len(sentences)-1]
	case len(sentences) == 2:
		return sentences[1]
	default:
		return strings.TrimSpace(window)
	}
}
