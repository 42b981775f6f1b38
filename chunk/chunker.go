// Package chunk splits extracted document text into bounded,
// context-preserving segments for downstream indexing.
//
// Segmentation is document-type-sensitive: contract/legal text is split
// on structural unit headers (ARTICLE/SECTION/CLAUSE) so that a clause is
// never divided unless it alone exceeds the size budget; all other text
// is split on paragraphs with a sentence-level fallback for oversized
// paragraphs. Adjacent segments are threaded with a bounded overlap
// excerpt so cross-boundary references survive retrieval.
//
// Chunking is deterministic: the same (text, document type, config)
// always yields the same segments.
package chunk

import (
	"regexp"
	"strings"
)

// Defaults applied by New for non-positive config values.
const (
	DefaultMaxChunkSize = 4000
	DefaultOverlap      = 200
)

// structuralHeader matches a legal structural unit header such as
// "SECTION 12:" or "Article IV." at any position in the text.
var structuralHeader = regexp.MustCompile(`(?i)(?:ARTICLE|SECTION|CLAUSE)\s+\w+[:.]`)

// Config holds chunker tuning.
type Config struct {
	// MaxChunkSize is the segment size budget in bytes. The budget is
	// advisory for a single sentence that exceeds it on its own; such a
	// sentence is emitted unbroken.
	MaxChunkSize int `json:"max_chunk_size" yaml:"max_chunk_size"`

	// Overlap is the size of the trailing window of the previous
	// segment carried into the next one.
	Overlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// DefaultConfig returns the default chunker configuration.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize: DefaultMaxChunkSize,
		Overlap:      DefaultOverlap,
	}
}

// Chunker performs document-type-sensitive text segmentation.
type Chunker struct {
	cfg Config
}

// New creates a Chunker, filling non-positive config values with defaults.
func New(cfg Config) *Chunker {
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = DefaultMaxChunkSize
	}
	if cfg.Overlap <= 0 {
		cfg.Overlap = DefaultOverlap
	}
	return &Chunker{cfg: cfg}
}

// isLegal reports whether the document type gets structural segmentation.
func isLegal(docType string) bool {
	switch strings.ToLower(docType) {
	case "contract", "legal":
		return true
	}
	return false
}

// Chunk splits text into ordered segments. Text that already fits the
// budget is returned as a single segment. When more than one segment is
// produced, every segment after the first is prefixed with an overlap
// excerpt from its predecessor under the ContextMarker.
func (c *Chunker) Chunk(text, docType string) []string {
	if len(text) <= c.cfg.MaxChunkSize {
		return []string{text}
	}

	var segments []string
	if isLegal(docType) {
		segments = c.chunkStructural(text)
	} else {
		segments = c.chunkGeneral(text)
	}

	if len(segments) > 1 {
		segments = c.applyOverlap(segments)
	}
	return segments
}

// chunkStructural splits on legal structural unit headers. Each span
// starts at one header and ends immediately before the next. Text before
// the first header is kept as a leading span so no content is lost.
// With fewer than two detected headers the text has no usable structure
// and the general strategy applies.
func (c *Chunker) chunkStructural(text string) []string {
	locs := structuralHeader.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return c.chunkGeneral(text)
	}

	var spans []string
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		spans = append(spans, lead)
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if span := strings.TrimSpace(text[loc[0]:end]); span != "" {
			spans = append(spans, span)
		}
	}

	// An oversized clause falls back to paragraph/sentence splitting.
	return c.pack(spans, c.chunkGeneral)
}

// chunkGeneral splits on blank-line-delimited paragraphs, with sentence
// bin-packing for paragraphs that exceed the budget on their own.
func (c *Chunker) chunkGeneral(text string) []string {
	return c.pack(splitParagraphs(text), c.packSentences)
}

// pack greedily accumulates consecutive units into segments under the
// size budget. A unit that alone exceeds the budget is handed to
// oversized for finer-grained splitting.
func (c *Chunker) pack(units []string, oversized func(string) []string) []string {
	var segments []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			segments = append(segments, s)
		}
		cur.Reset()
	}

	for _, unit := range units {
		if len(unit) > c.cfg.MaxChunkSize {
			flush()
			segments = append(segments, oversized(unit)...)
			continue
		}

		added := len(unit)
		if cur.Len() > 0 {
			added += 2 // "\n\n"
		}
		if cur.Len() > 0 && cur.Len()+added > c.cfg.MaxChunkSize {
			flush()
		}

		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(unit)
	}

	flush()
	return segments
}

// packSentences bin-packs sentences of an oversized unit. Sentences are
// never split, with one exception: a terminator-less "sentence" longer
// than the budget (text with no .!? at all) is hard-wrapped at the
// budget so chunking always terminates with bounded segments. A genuine
// over-budget sentence ending in a terminator is emitted whole.
func (c *Chunker) packSentences(text string) []string {
	sentences := splitSentences(text)

	var segments []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			segments = append(segments, s)
		}
		cur.Reset()
	}

	for _, sentence := range sentences {
		if len(sentence) > c.cfg.MaxChunkSize {
			flush()
			if hasTerminator(sentence) {
				segments = append(segments, sentence)
			} else {
				segments = append(segments, hardWrap(sentence, c.cfg.MaxChunkSize)...)
			}
			continue
		}

		added := len(sentence)
		if cur.Len() > 0 {
			added++ // joining space
		}
		if cur.Len() > 0 && cur.Len()+added > c.cfg.MaxChunkSize {
			flush()
		}

		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(sentence)
	}

	flush()
	return segments
}
