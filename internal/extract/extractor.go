// Package extract provides plain-text extraction from uploaded documents.
package extract

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind identifies a supported document format. The kind is decided once by
// Classify and then dispatched through a lookup table, so format detection
// lives in exactly one place.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindPlainText
	KindWordDocument
	KindSpreadsheet
)

// String returns a short name for the kind, used in errors and logs.
func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindPlainText:
		return "text"
	case KindWordDocument:
		return "docx"
	case KindSpreadsheet:
		return "xlsx"
	default:
		return "unknown"
	}
}

var extractors = map[Kind]func([]byte) (string, error){
	KindPDF:          extractPDF,
	KindPlainText:    extractPlain,
	KindWordDocument: extractDOCX,
	KindSpreadsheet:  extractExcel,
	// Unknown bytes are decoded as text so that a missing or wrong hint
	// never loses a plain-text upload.
	KindUnknown: extractPlain,
}

// Classify resolves the format of content. hint may be a MIME type
// ("application/pdf"), an extension (".pdf"), or empty. When the hint does not
// decide, the leading bytes do: "%PDF" selects PDF, "PK" selects the
// word-processor zip container, anything else is treated as plain text.
func Classify(content []byte, hint string) Kind {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case strings.Contains(h, "pdf"):
		return KindPDF
	case strings.Contains(h, "wordprocessingml") || strings.Contains(h, "msword") || h == ".docx":
		return KindWordDocument
	case strings.Contains(h, "spreadsheetml") || h == ".xlsx":
		return KindSpreadsheet
	case strings.Contains(h, "text") || strings.Contains(h, "json") ||
		h == ".txt" || h == ".md" || h == ".json":
		return KindPlainText
	}
	switch {
	case bytes.HasPrefix(content, []byte("%PDF")):
		return KindPDF
	case bytes.HasPrefix(content, []byte("PK")):
		return KindWordDocument
	case len(content) > 0:
		return KindPlainText
	default:
		return KindUnknown
	}
}

// Extractor extracts plain text from uploaded document bytes.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractBytes extracts the text content of content. hint is an optional MIME
// type or extension; when absent the format is sniffed from the leading bytes.
// An empty buffer yields an empty string. Extraction failures are returned as
// errors; callers must treat a failed extraction as having no usable text.
func (e *Extractor) ExtractBytes(content []byte, hint string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	kind := Classify(content, hint)
	text, err := extractors[kind](content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", kind, err)
	}
	return text, nil
}
