// Package xlsx extracts text from Excel .xlsx workbooks.
//
// Each sheet is rendered as a [SHEET: name] header followed by its rows,
// non-empty cells pipe-delimited. Sheets without any cell content are
// omitted. Shared strings and inline strings are both resolved.
package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

const (
	workbookPath      = "xl/workbook.xml"
	workbookRelsPath  = "xl/_rels/workbook.xml.rels"
	sharedStringsPath = "xl/sharedStrings.xml"
)

type workbook struct {
	Sheets []sheetRef `xml:"sheets>sheet"`
}

type sheetRef struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"`
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

type sharedStrings struct {
	Items []sharedString `xml:"si"`
}

// sharedString is either a plain <t> or a sequence of rich-text runs.
type sharedString struct {
	Text string   `xml:"t"`
	Runs []string `xml:"r>t"`
}

func (s sharedString) value() string {
	if len(s.Runs) > 0 {
		return strings.Join(s.Runs, "")
	}
	return s.Text
}

type worksheet struct {
	Rows []sheetRow `xml:"sheetData>row"`
}

type sheetRow struct {
	Cells []cell `xml:"c"`
}

type cell struct {
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

// Extract opens a .xlsx workbook and returns its linearized text.
func Extract(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()
	return extractArchive(&zr.Reader)
}

// ExtractReader extracts from an already-open ZIP.
func ExtractReader(r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("reading xlsx archive: %w", err)
	}
	return extractArchive(zr)
}

func extractArchive(zr *zip.Reader) (string, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var wb workbook
	if err := decodePart(files, workbookPath, &wb); err != nil {
		return "", fmt.Errorf("not an Excel workbook: %w", err)
	}

	var rels relationships
	if err := decodePart(files, workbookRelsPath, &rels); err != nil {
		return "", fmt.Errorf("reading workbook relationships: %w", err)
	}
	targets := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		targets[rel.ID] = rel.Target
	}

	var shared sharedStrings
	if _, ok := files[sharedStringsPath]; ok {
		if err := decodePart(files, sharedStringsPath, &shared); err != nil {
			return "", fmt.Errorf("reading shared strings: %w", err)
		}
	}

	var parts []string
	for _, ref := range wb.Sheets {
		target, ok := targets[ref.RID]
		if !ok {
			continue
		}
		var ws worksheet
		if err := decodePart(files, resolveTarget(target), &ws); err != nil {
			return "", fmt.Errorf("reading sheet %s: %w", ref.Name, err)
		}
		if rendered := renderSheet(ref.Name, ws, shared.Items); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// decodePart parses a single archive member into dst.
func decodePart(files map[string]*zip.File, name string, dst any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(dst)
}

// resolveTarget maps a workbook-relative relationship target to its
// archive member name.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("xl", target)
}

// renderSheet returns "" for sheets with no cell content.
func renderSheet(name string, ws worksheet, shared []sharedString) string {
	lines := []string{"[SHEET: " + name + "]"}
	for _, row := range ws.Rows {
		var cells []string
		for _, c := range row.Cells {
			if v := strings.TrimSpace(c.resolve(shared)); v != "" {
				cells = append(cells, v)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " | "))
		}
	}
	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// resolve returns the cell's display value. Shared-string indexes that
// fall outside the table resolve to "".
func (c cell) resolve(shared []sharedString) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(c.Value)
		if err != nil {
			return ""
		}
		if idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx].value()
	case "inlineStr":
		return c.Inline
	default:
		// Numbers, booleans, and formula results carry their value
		// directly.
		return c.Value
	}
}
