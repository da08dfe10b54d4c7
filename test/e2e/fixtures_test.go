package e2e

import (
	"strings"
	"testing"

	"github.com/dmorante/charla/internal/extract"
)

func TestMinimalFile_extractable(t *testing.T) {
	const text = "la biblioteca abre los sábados"
	extractor := extract.NewExtractor()
	for _, ext := range SupportedFileExtensions {
		content, err := MinimalFile(ext, text)
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		got, err := extractor.ExtractBytes(content, ext)
		if err != nil {
			t.Errorf("%s: extract: %v", ext, err)
			continue
		}
		if !strings.Contains(got, text) {
			t.Errorf("%s: extracted %q, want it to contain %q", ext, got, text)
		}
	}
}
