// Package vectorstore provides per-session in-memory vector collections with
// similarity retrieval and idle eviction.
package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Embedder turns text into dense vectors. It is an external service; calls
// may fail per text without affecting other insertions.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is one indexed entry: a text, its embedding, and the 1-based
// document position of the chunk the text belongs to. A chunk's text and its
// summary carry the same number. Documents are never mutated.
type Document struct {
	Text   string
	Vector []float32
	Chunk  int
}

// Result is a retrieval hit.
type Result struct {
	Text  string
	Chunk int
	Score float64
}

type collection struct {
	docs       []Document
	lastAccess time.Time
}

// Store owns one vector collection per session. Collections are created
// lazily on first insertion and removed by Clear or EvictIdle. All methods
// are safe for concurrent use.
type Store struct {
	embedder Embedder

	mu          sync.Mutex
	collections map[string]*collection

	now func() time.Time
}

// NewStore creates an empty store backed by embedder.
func NewStore(embedder Embedder) *Store {
	return &Store{
		embedder:    embedder,
		collections: make(map[string]*collection),
		now:         time.Now,
	}
}

// AddTexts embeds each text and appends it to the session's collection,
// creating the collection if absent. Every entry is tagged with chunk, the
// 1-based document position of the chunk the texts belong to; the caller
// passes it so stored numbers stay correct no matter in which order
// concurrent insertions land. Each text is embedded independently: a failed
// embedding skips only that text, and already-stored entries are never
// affected. The returned error reports how many insertions failed, if any.
func (s *Store) AddTexts(ctx context.Context, sessionID string, chunk int, texts []string) error {
	var failed int
	var firstErr error
	for _, text := range texts {
		vecs, err := s.embedder.Embed(ctx, []string{text})
		if err != nil || len(vecs) == 0 {
			failed++
			if firstErr == nil {
				if err == nil {
					err = fmt.Errorf("empty embedding")
				}
				firstErr = err
			}
			continue
		}
		s.append(sessionID, chunk, text, vecs[0])
	}
	if failed > 0 {
		return fmt.Errorf("add texts: %d of %d embeddings failed: %w", failed, len(texts), firstErr)
	}
	return nil
}

func (s *Store) append(sessionID string, chunk int, text string, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[sessionID]
	if !ok {
		c = &collection{}
		s.collections[sessionID] = c
	}
	c.docs = append(c.docs, Document{Text: text, Vector: vector, Chunk: chunk})
	c.lastAccess = s.now()
}

// Retriever is a retrieval handle bound to one session's collection.
type Retriever struct {
	store     *Store
	sessionID string
	k         int
}

// Retriever returns a handle over the session's collection configured to
// return the k most similar entries, or nil if no document has been indexed
// for the session yet.
func (s *Store) Retriever(sessionID string, k int) *Retriever {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[sessionID]; !ok {
		return nil
	}
	if k <= 0 {
		k = 4
	}
	return &Retriever{store: s, sessionID: sessionID, k: k}
}

// Retrieve embeds query and returns the top-k stored entries by cosine
// similarity. Ties are broken by insertion order, first inserted wins.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Result, error) {
	vecs, err := r.store.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed query: empty embedding")
	}
	return r.store.search(r.sessionID, vecs[0], r.k), nil
}

func (s *Store) search(sessionID string, query []float32, k int) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[sessionID]
	if !ok {
		return nil
	}
	c.lastAccess = s.now()

	results := make([]Result, len(c.docs))
	for i, d := range c.docs {
		results[i] = Result{Text: d.Text, Chunk: d.Chunk, Score: cosineSimilarity(query, d.Vector)}
	}
	// stable sort keeps insertion order for equal scores
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// Clear removes the session's collection, if any.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, sessionID)
}

// EvictIdle removes every collection whose last access (insertion or
// retrieval) is older than maxAge, and returns the evicted session IDs.
// Calling it again immediately removes nothing new.
func (s *Store) EvictIdle(maxAge time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxAge)
	var evicted []string
	for id, c := range s.collections {
		if c.lastAccess.Before(cutoff) {
			delete(s.collections, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// Size returns the number of documents indexed for the session.
func (s *Store) Size(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[sessionID]
	if !ok {
		return 0
	}
	return len(c.docs)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
