package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/ai"
	"github.com/dmorante/charla/internal/session"
)

type stubChatter struct {
	mu     sync.Mutex
	calls  int
	failOn int // 1-based chunk whose call fails; 0 disables
	slowOn int // 1-based chunk whose call is delayed; 0 disables
}

func (s *stubChatter) Chat(_ context.Context, _ string, messages []ai.Message) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	user := messages[len(messages)-1].Content
	var n int
	if _, err := fmt.Sscanf(user, "Parte %d", &n); err != nil {
		return "", fmt.Errorf("unexpected prompt %q", user)
	}
	if n == s.slowOn {
		time.Sleep(50 * time.Millisecond)
	}
	if n == s.failOn {
		return "", fmt.Errorf("model unavailable")
	}
	return fmt.Sprintf("resumen %d", n), nil
}

type stubImages struct {
	mu   sync.Mutex
	fail bool
	n    int
}

func (s *stubImages) GenerateImage(context.Context, string) (ai.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	if s.fail {
		return ai.Image{}, fmt.Errorf("image service down")
	}
	return ai.Image{B64JSON: "aW1n"}, nil
}

type indexedText struct {
	chunk int
	text  string
}

type stubVectors struct {
	mu      sync.Mutex
	entries map[string][]indexedText
	fail    bool
}

func (s *stubVectors) AddTexts(_ context.Context, sessionID string, chunk int, texts []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("embedding failed")
	}
	if s.entries == nil {
		s.entries = make(map[string][]indexedText)
	}
	for _, text := range texts {
		s.entries[sessionID] = append(s.entries[sessionID], indexedText{chunk: chunk, text: text})
	}
	return nil
}

type stubKeywords struct {
	mu      sync.Mutex
	entries []indexedText
}

func (s *stubKeywords) Add(_ string, number int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, indexedText{chunk: number, text: text})
	return nil
}

func newTestSummarizer(chat *stubChatter, images *stubImages, cfg Config) (*Summarizer, *stubVectors, *session.Registry) {
	vectors := &stubVectors{}
	registry := session.NewRegistry()
	var gen ImageGenerator
	if images != nil {
		gen = images
	}
	s := New(chat, gen, vectors, &stubKeywords{}, registry, cfg, zap.NewNop())
	return s, vectors, registry
}

func TestSummarizeDocument_ordering(t *testing.T) {
	s, _, _ := newTestSummarizer(&stubChatter{}, nil, Config{Model: "m", Language: "es"})
	results := s.SummarizeDocument(context.Background(), "sid", []string{"a", "b", "c", "d"})
	if len(results) != 4 {
		t.Fatalf("len=%d", len(results))
	}
	for i, r := range results {
		if r.Chunk != i+1 {
			t.Errorf("slot %d has chunk %d", i, r.Chunk)
		}
		if r.Summary != fmt.Sprintf("resumen %d", i+1) {
			t.Errorf("slot %d summary %q", i, r.Summary)
		}
	}
}

func TestSummarizeDocument_failureIsolation(t *testing.T) {
	s, _, _ := newTestSummarizer(&stubChatter{failOn: 2}, nil, Config{Model: "m", Language: "es"})
	results := s.SummarizeDocument(context.Background(), "sid", []string{"a", "b", "c"})
	if len(results) != 3 {
		t.Fatalf("len=%d, want 3 slots even with a failure", len(results))
	}
	if results[1].Summary != "" {
		t.Errorf("failed slot must have absent summary, got %q", results[1].Summary)
	}
	if results[0].Summary == "" || results[2].Summary == "" {
		t.Error("sibling chunks must be unaffected by the failure")
	}
}

func TestSummarizeDocument_indexesChunkAndSummary(t *testing.T) {
	s, vectors, _ := newTestSummarizer(&stubChatter{}, nil, Config{Model: "m", Language: "es"})
	s.SummarizeDocument(context.Background(), "sid", []string{"texto del fragmento"})
	got := vectors.entries["sid"]
	if len(got) != 2 || got[0].text != "texto del fragmento" || got[1].text != "resumen 1" {
		t.Errorf("indexed entries=%v", got)
	}
	for _, e := range got {
		if e.chunk != 1 {
			t.Errorf("entry %q indexed under chunk %d, want 1", e.text, e.chunk)
		}
	}
}

func TestSummarizeDocument_indexNumbersSurviveOutOfOrderCompletion(t *testing.T) {
	chat := &stubChatter{slowOn: 1}
	vectors := &stubVectors{}
	keywords := &stubKeywords{}
	s := New(chat, nil, vectors, keywords, session.NewRegistry(), Config{Model: "m", Language: "es"}, zap.NewNop())
	// Chunk 1 finishes last, so chunk 2 reaches the indexes first.
	s.SummarizeDocument(context.Background(), "sid", []string{"primer fragmento", "segundo fragmento"})
	byText := map[string]int{"primer fragmento": 1, "resumen 1": 1, "segundo fragmento": 2, "resumen 2": 2}
	for _, e := range vectors.entries["sid"] {
		if want := byText[e.text]; e.chunk != want {
			t.Errorf("vector entry %q indexed under chunk %d, want %d", e.text, e.chunk, want)
		}
	}
	if len(vectors.entries["sid"]) != 4 {
		t.Fatalf("vector entries=%d, want 4", len(vectors.entries["sid"]))
	}
	for _, e := range keywords.entries {
		if want := byText[e.text]; e.chunk != want {
			t.Errorf("keyword entry %q indexed under chunk %d, want %d", e.text, e.chunk, want)
		}
	}
}

func TestSummarizeDocument_noSessionSkipsIndexing(t *testing.T) {
	s, vectors, registry := newTestSummarizer(&stubChatter{}, nil, Config{Model: "m", Language: "es"})
	results := s.SummarizeDocument(context.Background(), "", []string{"a"})
	if results[0].Summary == "" {
		t.Fatal("summary must still be produced without a session")
	}
	if len(vectors.entries) != 0 {
		t.Error("no vector writes expected without a session")
	}
	if len(registry.Get("")) != 0 {
		t.Error("no history writes expected without a session")
	}
}

func TestSummarizeDocument_indexFailureDoesNotInvalidateSummary(t *testing.T) {
	chat := &stubChatter{}
	vectors := &stubVectors{fail: true}
	s := New(chat, nil, vectors, &stubKeywords{}, session.NewRegistry(), Config{Model: "m", Language: "es"}, zap.NewNop())
	results := s.SummarizeDocument(context.Background(), "sid", []string{"a"})
	if results[0].Summary != "resumen 1" {
		t.Errorf("summary=%q, indexing failure must be best-effort", results[0].Summary)
	}
}

func TestSummarizeDocument_imageFailureDegradesToNoImage(t *testing.T) {
	images := &stubImages{fail: true}
	s, _, _ := newTestSummarizer(&stubChatter{}, images, Config{Model: "m", Language: "es", ImagesEnabled: true})
	results := s.SummarizeDocument(context.Background(), "sid", []string{"a"})
	if results[0].Summary == "" {
		t.Fatal("summary must survive image failure")
	}
	if len(results[0].Images) != 0 {
		t.Errorf("images=%v, want none", results[0].Images)
	}
}

func TestSummarizeDocument_imagesWhenEnabled(t *testing.T) {
	images := &stubImages{}
	s, _, _ := newTestSummarizer(&stubChatter{}, images, Config{Model: "m", Language: "es", ImagesEnabled: true})
	results := s.SummarizeDocument(context.Background(), "sid", []string{"a", "b"})
	for i, r := range results {
		if len(r.Images) != 1 {
			t.Errorf("chunk %d: images=%v", i+1, r.Images)
		}
	}
	if images.n != 2 {
		t.Errorf("image calls=%d", images.n)
	}
}

func TestSummarizeDocument_historyInChunkOrder(t *testing.T) {
	s, _, registry := newTestSummarizer(&stubChatter{}, nil, Config{Model: "m", Language: "es"})
	s.SummarizeDocument(context.Background(), "sid", []string{"a", "b"})
	turns := registry.Get("sid")
	// system prompt + 2 * (user part, system summary)
	if len(turns) != 5 {
		t.Fatalf("turns=%d", len(turns))
	}
	if turns[0].Role != ai.RoleSystem {
		t.Error("history must open with the document-assistant prompt")
	}
	if !strings.Contains(turns[1].Content, "Parte 1") || !strings.Contains(turns[3].Content, "Parte 2") {
		t.Error("exchanges must be recorded in chunk order")
	}
	if turns[2].Content != "resumen 1" || turns[4].Content != "resumen 2" {
		t.Errorf("summaries out of order: %v", turns)
	}
}
