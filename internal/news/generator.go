package news

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/ai"
	"github.com/dmorante/charla/internal/prompts"
)

// Chatter is the completion side of the model service.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []ai.Message) (string, error)
}

// Generator turns the configured news sources into a publishable post.
type Generator struct {
	chat    Chatter
	fetcher *Fetcher
	model   string
	urls    []string
	logger  *zap.Logger
}

// NewGenerator creates a generator over the fixed source URL set.
func NewGenerator(chat Chatter, fetcher *Fetcher, model string, urls []string, logger *zap.Logger) *Generator {
	return &Generator{
		chat:    chat,
		fetcher: fetcher,
		model:   model,
		urls:    urls,
		logger:  logger,
	}
}

// GeneratePost fetches every source page, then asks the model for a single
// combined social-media summary shaped by opts.
func (g *Generator) GeneratePost(ctx context.Context, opts prompts.PostOptions) (string, error) {
	pages := g.fetcher.Fetch(ctx, g.urls)
	if len(pages) == 0 {
		return "", fmt.Errorf("generate post: no news source could be fetched")
	}
	g.logger.Debug("fetched news pages", zap.Int("pages", len(pages)), zap.Int("sources", len(g.urls)))

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = fmt.Sprintf("%s:\n%s", p.URL, p.Text)
	}

	post, err := g.chat.Chat(ctx, g.model, []ai.Message{
		{Role: ai.RoleSystem, Content: prompts.CommunityManager(opts)},
		{Role: ai.RoleUser, Content: prompts.NewsDigestTask(texts)},
	})
	if err != nil {
		return "", fmt.Errorf("generate post: %w", err)
	}
	return post, nil
}
