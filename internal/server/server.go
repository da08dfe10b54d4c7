// Package server provides the HTTP API for Charla.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/answer"
	"github.com/dmorante/charla/internal/config"
	"github.com/dmorante/charla/internal/extract"
	"github.com/dmorante/charla/internal/keyword"
	"github.com/dmorante/charla/internal/prompts"
	"github.com/dmorante/charla/internal/session"
	"github.com/dmorante/charla/internal/splitter"
	"github.com/dmorante/charla/internal/storage"
	"github.com/dmorante/charla/internal/summarize"
)

// Publisher posts a text to a social page feed.
type Publisher interface {
	Publish(ctx context.Context, text string) (string, error)
}

// PostGenerator produces a social-media post from configured news sources.
type PostGenerator interface {
	GeneratePost(ctx context.Context, opts prompts.PostOptions) (string, error)
}

// Server is the HTTP server for the Charla API.
type Server struct {
	extractor  *extract.Extractor
	splitter   *splitter.Splitter
	summarizer *summarize.Summarizer
	answerer   *answer.Answerer
	registry   *session.Registry
	keywords   *keyword.SessionIndex
	generator  PostGenerator
	publisher  Publisher
	posts      storage.PostStore
	config     *config.Config
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	extractor *extract.Extractor,
	split *splitter.Splitter,
	summarizer *summarize.Summarizer,
	answerer *answer.Answerer,
	registry *session.Registry,
	keywords *keyword.SessionIndex,
	generator PostGenerator,
	publisher Publisher,
	posts storage.PostStore,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		extractor:  extractor,
		splitter:   split,
		summarizer: summarizer,
		answerer:   answerer,
		registry:   registry,
		keywords:   keywords,
		generator:  generator,
		publisher:  publisher,
		posts:      posts,
		config:     cfg,
		logger:     logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(s.sessionCookie)

	r.Route("/api/v1", func(r chi.Router) {
		// Streaming responses outlive the usual request budget, so the
		// timeout middleware only covers the non-streaming routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Post("/message", s.handleMessage)
			r.Get("/session/history", s.handleSessionHistory)
			r.Get("/session/search", s.handleSessionSearch)
			r.Get("/post", s.handleGeneratePost)
			r.Post("/post/publish", s.handlePublishPost)
			r.Get("/posts", s.handleListPosts)
		})
		r.Post("/upload", s.handleUpload)
		r.Post("/message/stream", s.handleMessageStream)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
