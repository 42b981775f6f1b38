package textdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtract_UTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	content := "A plain UTF-8 note.\nWith a second line and an accent: café.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != strings.TrimSpace(content) {
		t.Errorf("got %q, want trimmed content", got)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// "café" in ISO 8859-1: é is a single 0xE9 byte, invalid as UTF-8.
	data := []byte{'c', 'a', 'f', 0xE9}

	got := Decode(data)
	if got != "café" {
		t.Errorf("Decode = %q, want café", got)
	}
	if !utf8.ValidString(got) {
		t.Error("decoded text must be valid UTF-8")
	}
}

func TestDecode_NeverFails(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0xFF, 0xFE, 0x00},
		{0x80, 0x81, 0x82},
	}
	for _, in := range inputs {
		if got := Decode(in); !utf8.ValidString(got) {
			t.Errorf("Decode(%v) produced invalid UTF-8: %q", in, got)
		}
	}
}

func TestDecode_TrimsWhitespace(t *testing.T) {
	if got := Decode([]byte("  \n hello \n\n")); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}
