package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{Text, "Text"},
		{Word, "Word"},
		{Spreadsheet, "Spreadsheet"},
		{Image, "Image"},
		{HTML, "HTML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestTable_Resolve(t *testing.T) {
	table := NewTable(true)

	tests := []struct {
		filename string
		want     Format
	}{
		{"contract.pdf", PDF},
		{"contract.PDF", PDF},
		{"notes.txt", Text},
		{"lease.docx", Word},
		{"lease.DOC", Word},
		{"ledger.xlsx", Spreadsheet},
		{"ledger.xls", Spreadsheet},
		{"scan.png", Image},
		{"scan.JPEG", Image},
		{"scan.tif", Image},
		{"page.html", HTML},
		{"page.htm", HTML},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			d, err := table.Resolve(tt.filename)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.filename, err)
			}
			if d.Format != tt.want {
				t.Errorf("Resolve(%q).Format = %s, want %s", tt.filename, d.Format, tt.want)
			}
		})
	}
}

func TestTable_Resolve_Unsupported(t *testing.T) {
	table := NewTable(true)

	_, err := table.Resolve("file.xyz")
	if err == nil {
		t.Fatal("expected error for .xyz")
	}

	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected *UnsupportedFormatError, got %T", err)
	}
	if ufe.Extension != ".xyz" {
		t.Errorf("Extension = %q, want .xyz", ufe.Extension)
	}
	if len(ufe.Supported) != len(table.Supported()) {
		t.Errorf("Supported list has %d entries, want %d", len(ufe.Supported), len(table.Supported()))
	}
	// The full supported list must ride along with the error.
	found := false
	for _, ext := range ufe.Supported {
		if ext == ".pdf" {
			found = true
		}
	}
	if !found {
		t.Error("Supported list missing .pdf")
	}
}

func TestTable_Resolve_DependencyMissing(t *testing.T) {
	table := NewTable(false) // OCR engine not compiled in

	_, err := table.Resolve("scan.png")
	if err == nil {
		t.Fatal("expected error for image without OCR")
	}

	var dme *DependencyMissingError
	if !errors.As(err, &dme) {
		t.Fatalf("expected *DependencyMissingError, got %T", err)
	}
	if dme.InstallHint == "" {
		t.Error("InstallHint should not be empty")
	}

	// Non-OCR formats remain available.
	if _, err := table.Resolve("contract.pdf"); err != nil {
		t.Errorf("Resolve(.pdf) with OCR disabled: %v", err)
	}
}

func TestTable_RequiresOCR(t *testing.T) {
	table := NewTable(true)

	d, err := table.Resolve("scan.png")
	if err != nil {
		t.Fatal(err)
	}
	if !d.RequiresOCR || !d.OCRCapable {
		t.Errorf("image descriptor = %+v, want RequiresOCR and OCRCapable", d)
	}

	d, err = table.Resolve("contract.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if d.RequiresOCR {
		t.Error("PDF should not report RequiresOCR; OCR is a per-page fallback")
	}
	if !d.OCRCapable {
		t.Error("PDF should report OCRCapable")
	}
}

func TestTable_Supported_Sorted(t *testing.T) {
	table := NewTable(true)
	exts := table.Supported()
	if len(exts) == 0 {
		t.Fatal("empty supported list")
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Errorf("supported list not sorted: %q before %q", exts[i-1], exts[i])
		}
	}
}

func TestTable_ResolveContent(t *testing.T) {
	table := NewTable(true)

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf magic", []byte("%PDF-1.7\nrest of file"), PDF},
		{"html content", []byte("<!DOCTYPE html><html></html>"), HTML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := table.ResolveContent(tt.data)
			if err != nil {
				t.Fatalf("ResolveContent error: %v", err)
			}
			if d.Format != tt.want {
				t.Errorf("Format = %s, want %s", d.Format, tt.want)
			}
			if !d.Available {
				t.Error("sniffed descriptor must be available")
			}
		})
	}
}

func TestTable_ResolveContent_Unrecognizable(t *testing.T) {
	table := NewTable(true)

	_, err := table.ResolveContent([]byte("no recognizable structure"))
	if err == nil {
		t.Fatal("expected error for unrecognizable content")
	}
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected *UnsupportedFormatError, got %T", err)
	}
	if len(ufe.Supported) == 0 {
		t.Error("Supported list should ride along")
	}
}

func TestTable_ResolveContent_DependencyMissing(t *testing.T) {
	table := NewTable(false) // OCR engine not compiled in

	_, err := table.ResolveContent([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	if err == nil {
		t.Fatal("expected error for sniffed image without OCR")
	}
	var dme *DependencyMissingError
	if !errors.As(err, &dme) {
		t.Fatalf("expected *DependencyMissingError, got %T", err)
	}
	if dme.InstallHint == "" {
		t.Error("InstallHint should not be empty")
	}
}

func TestSniff(t *testing.T) {
	var docxBuf bytes.Buffer
	zw := zip.NewWriter(&docxBuf)
	w, _ := zw.Create("word/document.xml")
	w.Write([]byte("<w:document/>"))
	zw.Close()

	var xlsxBuf bytes.Buffer
	zw = zip.NewWriter(&xlsxBuf)
	w, _ = zw.Create("xl/workbook.xml")
	w.Write([]byte("<workbook/>"))
	zw.Close()

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.7\n"), PDF},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, Image},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}, Image},
		{"tiff le", []byte{'I', 'I', 0x2A, 0x00, 0, 0}, Image},
		{"tiff be", []byte{'M', 'M', 0x00, 0x2A, 0, 0}, Image},
		{"html doctype", []byte("  <!DOCTYPE html><html></html>"), HTML},
		{"html tag", []byte("<html><body></body></html>"), HTML},
		{"docx", docxBuf.Bytes(), Word},
		{"xlsx", xlsxBuf.Bytes(), Spreadsheet},
		{"short", []byte("ab"), Unknown},
		{"plain", []byte("just some text here"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff() = %s, want %s", got, tt.want)
			}
		})
	}
}
