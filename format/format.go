// Package format maps file names to extraction capabilities.
//
// The capability table is built once at startup and is immutable
// afterwards; whether a handler's runtime dependency is present is a
// configuration fact recorded in the table, not a recurring probe.
package format

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Format represents a supported document format family.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// Text indicates a plain text document.
	Text
	// Word indicates a word-processor document (.docx, .doc).
	Word
	// Spreadsheet indicates a spreadsheet document (.xlsx, .xls).
	Spreadsheet
	// Image indicates a raster image (PNG, JPEG, TIFF).
	Image
	// HTML indicates an HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case Text:
		return "Text"
	case Word:
		return "Word"
	case Spreadsheet:
		return "Spreadsheet"
	case Image:
		return "Image"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Descriptor describes the extraction capabilities for one file extension.
type Descriptor struct {
	// Format selects the extraction handler.
	Format Format

	// Extension is the lowercase file extension including the dot.
	Extension string

	// OCRCapable reports whether OCR may be attempted for this format.
	OCRCapable bool

	// RequiresOCR reports whether OCR is the only text path; true only
	// for raster images, which have no native text to extract. PDFs are
	// OCRCapable but not RequiresOCR: OCR is a per-page fallback there.
	RequiresOCR bool

	// Available reports whether the handler's runtime dependency is
	// present. Recorded once when the table is built.
	Available bool

	// InstallHint describes how to enable the handler when Available
	// is false.
	InstallHint string
}

// UnsupportedFormatError reports an extension absent from the table.
type UnsupportedFormatError struct {
	Extension string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: %s)",
		e.Extension, strings.Join(e.Supported, ", "))
}

// DependencyMissingError reports a known extension whose handler
// dependency is absent.
type DependencyMissingError struct {
	Extension   string
	InstallHint string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("format %q requires additional dependencies: %s",
		e.Extension, e.InstallHint)
}

const ocrInstallHint = "install Tesseract (apt-get install tesseract-ocr) and rebuild with -tags ocr"

// Table is the immutable extension-to-capability table.
type Table struct {
	byExt map[string]Descriptor
}

// NewTable builds the capability table. ocrAvailable reports whether the
// OCR engine was compiled in and enabled; it gates the image formats,
// whose only text path is OCR.
func NewTable(ocrAvailable bool) *Table {
	t := &Table{byExt: make(map[string]Descriptor)}

	add := func(d Descriptor) { t.byExt[d.Extension] = d }

	add(Descriptor{Format: PDF, Extension: ".pdf", OCRCapable: true, Available: true})
	add(Descriptor{Format: Text, Extension: ".txt", Available: true})
	add(Descriptor{Format: HTML, Extension: ".html", Available: true})
	add(Descriptor{Format: HTML, Extension: ".htm", Available: true})
	for _, ext := range []string{".docx", ".doc"} {
		add(Descriptor{Format: Word, Extension: ext, Available: true})
	}
	for _, ext := range []string{".xlsx", ".xls"} {
		add(Descriptor{Format: Spreadsheet, Extension: ext, Available: true})
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"} {
		add(Descriptor{
			Format:      Image,
			Extension:   ext,
			OCRCapable:  true,
			RequiresOCR: true,
			Available:   ocrAvailable,
			InstallHint: ocrInstallHint,
		})
	}

	return t
}

// Resolve looks up the capability descriptor for a filename by its
// lowercased extension. It returns *UnsupportedFormatError for unknown
// extensions and *DependencyMissingError when the extension is known but
// its handler dependency is absent.
func (t *Table) Resolve(filename string) (Descriptor, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	d, ok := t.byExt[ext]
	if !ok {
		return Descriptor{}, &UnsupportedFormatError{
			Extension: ext,
			Supported: t.Supported(),
		}
	}
	if !d.Available {
		return Descriptor{}, &DependencyMissingError{
			Extension:   ext,
			InstallHint: d.InstallHint,
		}
	}
	return d, nil
}

// canonicalExt names the descriptor used when a format is identified by
// content rather than extension.
var canonicalExt = map[Format]string{
	PDF:         ".pdf",
	Text:        ".txt",
	HTML:        ".html",
	Word:        ".docx",
	Spreadsheet: ".xlsx",
	Image:       ".png",
}

// ResolveContent resolves a descriptor by sniffing leading file content,
// the fallback for files whose extension is unknown or misleading. It
// returns *UnsupportedFormatError when the content is not recognizable
// and *DependencyMissingError when the sniffed format's handler
// dependency is absent.
func (t *Table) ResolveContent(data []byte) (Descriptor, error) {
	ext, ok := canonicalExt[Sniff(data)]
	if !ok {
		return Descriptor{}, &UnsupportedFormatError{Supported: t.Supported()}
	}
	d := t.byExt[ext]
	if !d.Available {
		return Descriptor{}, &DependencyMissingError{
			Extension:   ext,
			InstallHint: d.InstallHint,
		}
	}
	return d, nil
}

// Supported returns the sorted list of known extensions, including those
// whose dependency is currently absent.
func (t *Table) Supported() []string {
	exts := make([]string, 0, len(t.byExt))
	for ext := range t.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Descriptors returns all descriptors ordered by extension.
func (t *Table) Descriptors() []Descriptor {
	ds := make([]Descriptor, 0, len(t.byExt))
	for _, ext := range t.Supported() {
		ds = append(ds, t.byExt[ext])
	}
	return ds
}

// Sniff determines the format from leading file content. It is the
// fallback when the extension is unknown or misleading; it returns
// Unknown when the content is not recognizable.
func Sniff(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// PNG magic.
	if bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		return Image
	}

	// JPEG magic: FF D8 FF
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return Image
	}

	// TIFF magic: II*\0 (little-endian) or MM\0* (big-endian).
	if bytes.HasPrefix(data, []byte{'I', 'I', 0x2A, 0x00}) ||
		bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2A}) {
		return Image
	}

	// ZIP magic: PK\x03\x04 — DOCX and XLSX are ZIP archives.
	if bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}) {
		return sniffZIP(data)
	}

	if sniffHTML(data) {
		return HTML
	}

	return Unknown
}

// sniffZIP inspects a ZIP archive prefix to distinguish OOXML families.
// With a truncated archive the central directory is usually unreadable;
// the caller should treat Unknown as "ZIP of unrecognized flavor".
func sniffZIP(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return Word
		case strings.HasPrefix(f.Name, "xl/"):
			return Spreadsheet
		}
	}
	return Unknown
}

// sniffHTML checks whether the data looks like an HTML document.
func sniffHTML(data []byte) bool {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' ||
		data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}

	limit := start + 512
	if limit > len(data) {
		limit = len(data)
	}
	upper := strings.ToUpper(string(data[start:limit]))

	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}
	return false
}
