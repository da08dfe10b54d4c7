// Package news generates social-media posts from a fixed set of news pages
// and publishes them to a Facebook page.
package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmorante/charla/pkg/utils"
)

// Page is one fetched news page reduced to readable text.
type Page struct {
	URL  string
	Text string
}

var (
	scriptBlock = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	htmlTag     = regexp.MustCompile(`<[^>]+>`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Fetcher downloads news pages and strips them down to text.
type Fetcher struct {
	httpClient *http.Client
	maxChars   int
	logger     *zap.Logger
}

// NewFetcher creates a fetcher. maxChars caps the text kept per page so the
// digest prompt stays within model limits.
func NewFetcher(timeout time.Duration, maxChars int, logger *zap.Logger) *Fetcher {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxChars:   maxChars,
		logger:     logger,
	}
}

// Fetch downloads every URL concurrently and returns the pages that could be
// read, in the order given. A failed page is logged and skipped; it never
// fails the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, urls []string) []Page {
	pages := make([]*Page, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			text, err := f.fetchOne(ctx, url)
			if err != nil {
				f.logger.Warn("news page fetch failed", zap.String("url", url), zap.Error(err))
				return
			}
			pages[i] = &Page{URL: url, Text: text}
		}(i, url)
	}
	wg.Wait()

	out := make([]Page, 0, len(urls))
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return f.toText(string(body)), nil
}

// toText strips markup and collapses whitespace, keeping at most maxChars.
func (f *Fetcher) toText(html string) string {
	text := scriptBlock.ReplaceAllString(html, " ")
	text = htmlTag.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return utils.TruncateRunes(text, f.maxChars)
}
