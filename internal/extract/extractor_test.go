package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		hint    string
		want    Kind
	}{
		{"pdf mime", []byte("x"), "application/pdf", KindPDF},
		{"pdf extension", []byte("x"), ".pdf", KindPDF},
		{"docx mime", []byte("x"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document", KindWordDocument},
		{"xlsx mime", []byte("x"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", KindSpreadsheet},
		{"plain mime", []byte("x"), "text/plain", KindPlainText},
		{"json mime", []byte("x"), "application/json", KindPlainText},
		{"sniff pdf", []byte("%PDF-1.7 ..."), "", KindPDF},
		{"sniff zip container", []byte("PK\x03\x04rest"), "", KindWordDocument},
		{"sniff fallback", []byte("hola"), "", KindPlainText},
		{"empty no hint", nil, "", KindUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.content, tc.hint); got != tc.want {
			t.Errorf("%s: Classify=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExtractBytes_empty(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(nil, "")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("Hello world\nLine 2"), "text/plain")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Hello world\nLine 2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("hello\x80world"), ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "hello�world" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_noHintFallsBackToPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("raw content"), "")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "raw content" {
		t.Errorf("got %q", got)
	}
}

// minimalDocx builds a .docx zip whose document body contains text in <w:t> nodes.
func minimalDocx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t w:space="preserve">` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBytes_docx(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(minimalDocx(t, "Contenido del documento"), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Contenido del documento" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxSniffedFromPK(t *testing.T) {
	// No hint at all: the PK signature must route to the word extractor.
	e := NewExtractor()
	got, err := e.ExtractBytes(minimalDocx(t, "Sniffed"), "")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Sniffed" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxNotAZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("definitely not a zip"), ".docx"); err == nil {
		t.Error("expected error for corrupt docx")
	}
}

func TestExtractBytes_excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Title")
	f.SetCellValue("Sheet1", "A2", "Value 1")
	f.SetCellValue("Sheet1", "B2", "Value 2")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	e := NewExtractor()
	got, err := e.ExtractBytes(buf.Bytes(), ".xlsx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Title\nValue 1\tValue 2" {
		t.Errorf("got %q", got)
	}
}
