package xlsx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// workbookFixture describes the archive members for buildXLSX.
type workbookFixture map[string]string

var standardFixture = workbookFixture{
	workbookPath: `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Payments" sheetId="1" r:id="rId1"/>
    <sheet name="Empty" sheetId="2" r:id="rId2"/>
  </sheets>
</workbook>`,
	workbookRelsPath: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
</Relationships>`,
	sharedStringsPath: `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3">
  <si><t>Month</t></si>
  <si><t>Amount</t></si>
  <si><r><t>Jan</t></r><r><t>uary</t></r></si>
</sst>`,
	"xl/worksheets/sheet1.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1">
      <c r="A1" t="s"><v>0</v></c>
      <c r="B1" t="s"><v>1</v></c>
    </row>
    <row r="2">
      <c r="A2" t="s"><v>2</v></c>
      <c r="B2"><v>1250.5</v></c>
    </row>
    <row r="3">
      <c r="A3" t="inlineStr"><is><t>Note</t></is></c>
      <c r="B3"/>
    </row>
  </sheetData>
</worksheet>`,
	"xl/worksheets/sheet2.xml": `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="inlineStr"><is><t> </t></is></c></row>
  </sheetData>
</worksheet>`,
}

func buildXLSX(t *testing.T, fixture workbookFixture) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range fixture {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	data := buildXLSX(t, standardFixture)
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := "[SHEET: Payments]\nMonth | Amount\nJanuary | 1250.5\nNote"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExtract_EmptySheetOmitted(t *testing.T) {
	data := buildXLSX(t, standardFixture)

	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ExtractReader: %v", err)
	}
	if strings.Contains(got, "[SHEET: Empty]") {
		t.Error("sheets with no cell content must be omitted")
	}
}

func TestExtract_NoSharedStrings(t *testing.T) {
	fixture := workbookFixture{
		workbookPath: `<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Raw" sheetId="1" r:id="rId1"/></sheets>
</workbook>`,
		workbookRelsPath: `<Relationships>
  <Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": `<worksheet>
  <sheetData><row r="1"><c r="A1"><v>42</v></c></row></sheetData>
</worksheet>`,
	}
	data := buildXLSX(t, fixture)

	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ExtractReader: %v", err)
	}
	if got != "[SHEET: Raw]\n42" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_NotAWorkbook(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/document.xml")
	w.Write([]byte("<w:document/>"))
	zw.Close()

	if _, err := ExtractReader(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err == nil {
		t.Error("expected error for archive without xl/workbook.xml")
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		target, want string
	}{
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
	}
	for _, tt := range tests {
		if got := resolveTarget(tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
