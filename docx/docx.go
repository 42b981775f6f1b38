// Package docx extracts text from Microsoft Word .docx files.
//
// A .docx file is a ZIP archive; the document body lives in
// word/document.xml. Paragraph text is emitted first, in document order,
// followed by any tables rendered as pipe-delimited rows between
// [TABLE] and [/TABLE] markers.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPath = "word/document.xml"

// The WordprocessingML subset we care about. Field names match element
// local names; the w: namespace is ignored by the decoder.
type document struct {
	Body body `xml:"body"`
}

type body struct {
	Paragraphs []paragraph `xml:"p"`
	Tables     []table     `xml:"tbl"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Texts []string `xml:"t"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// Extract opens a .docx file and returns its linearized text.
func Extract(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()
	return extractArchive(&zr.Reader)
}

// ExtractReader extracts from an already-open ZIP, for callers that hold
// the archive in memory.
func ExtractReader(r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("reading docx archive: %w", err)
	}
	return extractArchive(zr)
}

func extractArchive(zr *zip.Reader) (string, error) {
	var doc document
	found := false
	for _, f := range zr.File {
		if f.Name != documentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", documentPath, err)
		}
		err = xml.NewDecoder(rc).Decode(&doc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", documentPath, err)
		}
		found = true
		break
	}
	if !found {
		return "", fmt.Errorf("not a Word document: missing %s", documentPath)
	}

	var parts []string
	for _, p := range doc.Body.Paragraphs {
		if text := p.text(); text != "" {
			parts = append(parts, text)
		}
	}
	for _, t := range doc.Body.Tables {
		if rendered := t.render(); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// text joins a paragraph's runs and trims the result.
func (p paragraph) text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			sb.WriteString(t)
		}
	}
	return strings.TrimSpace(sb.String())
}

// render produces the pipe-delimited table block, skipping rows with no
// cell content. Tables that are entirely empty render as "".
func (t table) render() string {
	var rows []string
	for _, tr := range t.Rows {
		var cells []string
		for _, tc := range tr.Cells {
			var cellParts []string
			for _, p := range tc.Paragraphs {
				if text := p.text(); text != "" {
					cellParts = append(cellParts, text)
				}
			}
			if cell := strings.Join(cellParts, " "); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	}
	if len(rows) == 0 {
		return ""
	}
	return "[TABLE]\n" + strings.Join(rows, "\n") + "\n[/TABLE]"
}
