// Package splitter divides extracted document text into overlapping chunks.
package splitter

// Splitter splits text into fixed-size character windows with overlap, so
// that context spanning a chunk boundary is present on both sides.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a splitter with the given chunk size and overlap, in characters.
func New(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Split returns the chunks of text in document order. Consecutive chunks share
// chunkOverlap characters; each chunk is at most chunkSize characters. Empty
// input yields no chunks. Split is a pure function: identical input and
// configuration always produce the identical sequence.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = 1
	}
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end >= len(runes) {
			break
		}
	}
	return chunks
}
