package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain decodes content as UTF-8 text. Invalid sequences become the
// replacement character rather than failing the upload.
func extractPlain(content []byte) (string, error) {
	s := string(content)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return s, nil
}
