// Package keyword provides per-session in-memory keyword search over a
// session's document chunks, backed by Bleve.
package keyword

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// Hit is a keyword search match.
type Hit struct {
	Chunk int     `json:"chunk"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type sessionIndex struct {
	index      bleve.Index
	chunks     map[string]chunk
	lastAccess time.Time
}

type chunk struct {
	number int
	text   string
}

// SessionIndex owns one in-memory Bleve index per session, created lazily on
// first insertion and removed by Clear or EvictIdle.
type SessionIndex struct {
	mu      sync.Mutex
	indexes map[string]*sessionIndex

	now func() time.Time
}

// NewSessionIndex creates an empty per-session keyword index.
func NewSessionIndex() *SessionIndex {
	return &SessionIndex{
		indexes: make(map[string]*sessionIndex),
		now:     time.Now,
	}
}

func newBleveIndex() (bleve.Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// standard analyzer (lowercase + tokenize, no stemming) so exact words match
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	im.DefaultMapping = docMapping
	return bleve.NewMemOnly(im)
}

// Add indexes one chunk's text for sessionID under its 1-based document
// position. The caller passes the number, so concurrent insertions landing
// out of order keep their real positions. Re-adding a number replaces that
// chunk. The session's index is created on first use.
func (s *SessionIndex) Add(sessionID string, number int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	si, ok := s.indexes[sessionID]
	if !ok {
		idx, err := newBleveIndex()
		if err != nil {
			return fmt.Errorf("create keyword index: %w", err)
		}
		si = &sessionIndex{index: idx, chunks: make(map[string]chunk)}
		s.indexes[sessionID] = si
	}
	id := strconv.Itoa(number)
	if err := si.index.Index(id, map[string]interface{}{"text": text}); err != nil {
		return fmt.Errorf("index chunk %d: %w", number, err)
	}
	si.chunks[id] = chunk{number: number, text: text}
	si.lastAccess = s.now()
	return nil
}

// Search returns up to k chunks of the session matching query, best first.
// A session with no index yields no hits and no error.
func (s *SessionIndex) Search(sessionID, query string, k int) ([]Hit, error) {
	s.mu.Lock()
	si, ok := s.indexes[sessionID]
	if ok {
		si.lastAccess = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if k <= 0 {
		k = 4
	}

	q := bleve.NewMatchQuery(query)
	q.SetField("text")
	req := bleve.NewSearchRequestOptions(q, k, 0, false)
	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range res.Hits {
		c, ok := si.chunks[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Chunk: c.number, Text: c.text, Score: h.Score})
	}
	return hits, nil
}

// Clear closes and removes the session's index, if any.
func (s *SessionIndex) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if si, ok := s.indexes[sessionID]; ok {
		_ = si.index.Close()
		delete(s.indexes, sessionID)
	}
}

// EvictIdle removes every session index idle for longer than maxAge and
// returns the evicted session IDs.
func (s *SessionIndex) EvictIdle(maxAge time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxAge)
	var evicted []string
	for id, si := range s.indexes {
		if si.lastAccess.Before(cutoff) {
			_ = si.index.Close()
			delete(s.indexes, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
