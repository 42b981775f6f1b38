// Package textdoc extracts content from plain text files.
//
// Decoding is attempted against a prioritized list of encodings; the
// first clean decode wins. If no encoding applies, the bytes are decoded
// as UTF-8 with invalid sequences replaced rather than failing — a text
// file always yields some text.
package textdoc

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// decoders are tried in priority order after UTF-8. ISO 8859-1 and
// Windows-1252 cover the single-byte encodings legacy legal documents
// ship in.
var decoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"iso-8859-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// Extract reads a plain text file, trying UTF-8 first and falling back
// through progressively more permissive encodings. The returned text is
// whitespace-trimmed. Only the file read itself can fail.
func Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data), nil
}

// Decode converts raw bytes to a string using the encoding ladder.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimSpace(string(data))
	}

	for _, d := range decoders {
		decoded, err := d.enc.NewDecoder().Bytes(data)
		if err == nil && utf8.Valid(decoded) {
			return strings.TrimSpace(string(decoded))
		}
	}

	// Last resort: lossy UTF-8, replacing invalid sequences.
	return strings.TrimSpace(strings.ToValidUTF8(string(data), string(utf8.RuneError)))
}
