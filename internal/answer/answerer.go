// Package answer produces retrieval-grounded answers to session chat
// messages, whole or streamed.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/ai"
	"github.com/dmorante/charla/internal/prompts"
	"github.com/dmorante/charla/internal/session"
	"github.com/dmorante/charla/internal/vectorstore"
)

// Chatter is the completion side of the model service.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []ai.Message) (string, error)
	ChatStream(ctx context.Context, model string, messages []ai.Message, fn func(delta string) error) (string, error)
}

// Config holds answerer settings.
type Config struct {
	Model    string
	Language string
	TopK     int
}

// Answerer answers a session's questions strictly from its indexed document.
type Answerer struct {
	chat     Chatter
	store    *vectorstore.Store
	registry *session.Registry
	cfg      Config
	logger   *zap.Logger
}

// New creates an answerer over the session vector store and registry.
func New(chat Chatter, store *vectorstore.Store, registry *session.Registry, cfg Config, logger *zap.Logger) *Answerer {
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	return &Answerer{
		chat:     chat,
		store:    store,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// Answer returns the model's grounded answer to message. When the session has
// no indexed document, a fixed notice is returned without invoking the model.
// On success the exchange is appended to the session's history.
func (a *Answerer) Answer(ctx context.Context, sessionID, message string) (string, error) {
	messages, ok, err := a.buildMessages(ctx, sessionID, message)
	if err != nil {
		return "", err
	}
	if !ok {
		return prompts.NoDocuments(a.cfg.Language), nil
	}

	reply, err := a.chat.Chat(ctx, a.cfg.Model, messages)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	a.commit(sessionID, message, reply)
	return reply, nil
}

// Stream is like Answer but delivers text fragments to fn as they are
// produced and returns the full concatenation. The exchange is committed to
// the session's history only when the stream completes; a canceled or failed
// stream leaves the history untouched.
func (a *Answerer) Stream(ctx context.Context, sessionID, message string, fn func(delta string) error) (string, error) {
	messages, ok, err := a.buildMessages(ctx, sessionID, message)
	if err != nil {
		return "", err
	}
	if !ok {
		notice := prompts.NoDocuments(a.cfg.Language)
		if err := fn(notice); err != nil {
			return "", err
		}
		return notice, nil
	}

	full, err := a.chat.ChatStream(ctx, a.cfg.Model, messages, fn)
	if err != nil {
		return "", fmt.Errorf("answer stream: %w", err)
	}
	a.commit(sessionID, message, full)
	return full, nil
}

// buildMessages retrieves the top-k chunks for message and assembles the
// model input: the strict grounded system prompt, the conversation so far,
// and the new user message. ok is false when the session has no index.
func (a *Answerer) buildMessages(ctx context.Context, sessionID, message string) ([]ai.Message, bool, error) {
	retriever := a.store.Retriever(sessionID, a.cfg.TopK)
	if retriever == nil {
		return nil, false, nil
	}
	results, err := retriever.Retrieve(ctx, message)
	if err != nil {
		return nil, false, fmt.Errorf("retrieve context: %w", err)
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Text
	}
	a.logger.Debug("retrieved context",
		zap.String("session", sessionID), zap.Int("chunks", len(results)))

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: prompts.GroundedAnswer(a.cfg.Language, strings.Join(parts, "\n\n"))},
	}
	for _, turn := range a.registry.Get(sessionID) {
		messages = append(messages, ai.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: message})
	return messages, true, nil
}

func (a *Answerer) commit(sessionID, message, reply string) {
	a.registry.Append(sessionID,
		session.Turn{Role: ai.RoleUser, Content: message},
		session.Turn{Role: ai.RoleSystem, Content: reply},
	)
}
