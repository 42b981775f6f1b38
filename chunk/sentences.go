package chunk

import (
	"strings"
	"unicode/utf8"
)

// splitParagraphs splits text on blank lines into trimmed, non-empty
// paragraphs.
func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences splits text after runs of sentence terminators followed
// by whitespace. Terminators stay with their sentence; the inter-sentence
// whitespace is dropped. Text without terminators comes back as a single
// element.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		cur.WriteRune(r)

		if !isTerminator(r) {
			continue
		}
		// Consume the rest of the terminator run ("..." or "?!").
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
			cur.WriteRune(runes[i])
		}
		// A sentence ends only when whitespace follows the run.
		if i+1 < len(runes) && isSpace(runes[i+1]) {
			if s := strings.TrimSpace(cur.String()); s != "" {
				sentences = append(sentences, s)
			}
			cur.Reset()
			for i+1 < len(runes) && isSpace(runes[i+1]) {
				i++
			}
		}
	}

	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// hasTerminator reports whether the sentence ends with .!? — i.e. it is
// a complete sentence rather than a trailing fragment.
func hasTerminator(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && isTerminator(r)
}

// hardWrap slices text into pieces of at most max bytes, breaking at the
// last space inside the window when one exists and at a rune boundary
// otherwise. Used only for terminator-less text longer than the budget,
// where no sentence boundary is available.
func hardWrap(text string, max int) []string {
	var pieces []string
	for len(text) > max {
		cut := max
		if idx := strings.LastIndexByte(text[:cut], ' '); idx > 0 {
			cut = idx
		} else {
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
		}
		piece := strings.TrimSpace(text[:cut])
		if piece != "" {
			pieces = append(pieces, piece)
		}
		text = strings.TrimLeft(text[cut:], " ")
	}
	if text = strings.TrimSpace(text); text != "" {
		pieces = append(pieces, text)
	}
	return pieces
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
