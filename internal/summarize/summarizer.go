// Package summarize turns document chunks into short summaries, optionally
// illustrated, and feeds the session's indexes as a side effect.
package summarize

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/ai"
	"github.com/dmorante/charla/internal/prompts"
	"github.com/dmorante/charla/internal/session"
)

// Chatter is the text-completion side of the model service.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []ai.Message) (string, error)
}

// ImageGenerator is the image side of the model service.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (ai.Image, error)
}

// VectorIndexer is the write side of the session vector store. Entries are
// tagged with the chunk's document position.
type VectorIndexer interface {
	AddTexts(ctx context.Context, sessionID string, chunk int, texts []string) error
}

// KeywordIndexer is the write side of the session keyword index.
type KeywordIndexer interface {
	Add(sessionID string, number int, text string) error
}

// ChunkSummary is the result slot for one chunk. A failed chunk keeps its
// slot with an empty summary; siblings are unaffected.
type ChunkSummary struct {
	Chunk   int        `json:"chunk"`
	Summary string     `json:"summary"`
	Images  []ai.Image `json:"images,omitempty"`
}

// Config holds summarizer settings.
type Config struct {
	Model         string
	Language      string
	ImagesEnabled bool
}

// Summarizer summarizes all chunks of a document concurrently.
type Summarizer struct {
	chat     Chatter
	images   ImageGenerator
	vectors  VectorIndexer
	keywords KeywordIndexer
	registry *session.Registry
	cfg      Config
	logger   *zap.Logger
}

// New creates a summarizer. images may be nil when image generation is
// disabled by configuration.
func New(chat Chatter, images ImageGenerator, vectors VectorIndexer, keywords KeywordIndexer, registry *session.Registry, cfg Config, logger *zap.Logger) *Summarizer {
	return &Summarizer{
		chat:     chat,
		images:   images,
		vectors:  vectors,
		keywords: keywords,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// SummarizeDocument processes every chunk concurrently and returns one result
// per chunk in document order, regardless of completion order. A failure in
// one chunk never aborts its siblings. When sessionID is non-empty, each
// summarized chunk's text and summary are written into the session's vector
// and keyword indexes and the exchange is recorded in the conversation
// history; those writes are best-effort and never invalidate the summaries.
func (s *Summarizer) SummarizeDocument(ctx context.Context, sessionID string, chunks []string) []ChunkSummary {
	results := make([]ChunkSummary, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			results[i] = s.summarizeChunk(ctx, sessionID, i+1, chunk)
		}(i, chunk)
	}
	wg.Wait()

	if sessionID != "" {
		s.recordHistory(sessionID, chunks, results)
	}
	return results
}

func (s *Summarizer) summarizeChunk(ctx context.Context, sessionID string, number int, chunk string) ChunkSummary {
	result := ChunkSummary{Chunk: number}

	summary, err := s.chat.Chat(ctx, s.cfg.Model, []ai.Message{
		{Role: ai.RoleSystem, Content: prompts.DocumentAssistant(s.cfg.Language)},
		{Role: ai.RoleUser, Content: prompts.ChunkSummary(s.cfg.Language, number, chunk)},
	})
	if err != nil {
		s.logger.Error("chunk summarization failed",
			zap.String("session", sessionID), zap.Int("chunk", number), zap.Error(err))
		return result
	}
	result.Summary = summary

	if s.cfg.ImagesEnabled && s.images != nil {
		img, err := s.images.GenerateImage(ctx, prompts.ImagePrompt(summary))
		if err != nil {
			// degrade to no image
			s.logger.Warn("image generation failed",
				zap.String("session", sessionID), zap.Int("chunk", number), zap.Error(err))
		} else {
			result.Images = []ai.Image{img}
		}
	}

	if sessionID != "" {
		if err := s.vectors.AddTexts(ctx, sessionID, number, []string{chunk, summary}); err != nil {
			s.logger.Warn("vector indexing failed",
				zap.String("session", sessionID), zap.Int("chunk", number), zap.Error(err))
		}
		if err := s.keywords.Add(sessionID, number, chunk); err != nil {
			s.logger.Warn("keyword indexing failed",
				zap.String("session", sessionID), zap.Int("chunk", number), zap.Error(err))
		}
	}
	return result
}

// recordHistory appends the summarization exchanges in chunk order, after the
// fan-in, so racing completions never interleave the transcript.
func (s *Summarizer) recordHistory(sessionID string, chunks []string, results []ChunkSummary) {
	var turns []session.Turn
	for i, r := range results {
		if r.Summary == "" {
			continue
		}
		if len(turns) == 0 {
			turns = append(turns, session.Turn{Role: ai.RoleSystem, Content: prompts.DocumentAssistant(s.cfg.Language)})
		}
		turns = append(turns,
			session.Turn{Role: ai.RoleUser, Content: prompts.ChunkSummary(s.cfg.Language, r.Chunk, chunks[i])},
			session.Turn{Role: ai.RoleSystem, Content: r.Summary},
		)
	}
	s.registry.Append(sessionID, turns...)
}
