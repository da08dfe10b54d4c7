// Package main is the Charla CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/ai"
	"github.com/dmorante/charla/internal/answer"
	"github.com/dmorante/charla/internal/cli"
	"github.com/dmorante/charla/internal/config"
	"github.com/dmorante/charla/internal/extract"
	"github.com/dmorante/charla/internal/keyword"
	"github.com/dmorante/charla/internal/news"
	"github.com/dmorante/charla/internal/prompts"
	"github.com/dmorante/charla/internal/server"
	"github.com/dmorante/charla/internal/session"
	"github.com/dmorante/charla/internal/splitter"
	"github.com/dmorante/charla/internal/storage"
	"github.com/dmorante/charla/internal/summarize"
	"github.com/dmorante/charla/internal/vectorstore"
	"github.com/dmorante/charla/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/charla/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Secrets live in the environment; a .env file is a development convenience.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "post":
		runPost()
	case "posts":
		runPosts()
	case "version", "--version", "-v":
		fmt.Printf("charla version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: charla <command> [flags]

Commands:
  server    Run the HTTP API server
  post      Generate a news post (optionally publish it)
  posts     List stored posts
  version   Print version
  help      Print this help

Run 'charla <command> -h' for command flags.`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		cli.Fatalf("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		cli.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)
	if cfg.AI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; model calls will fail")
	}

	client := ai.NewClient(aiConfig(cfg))
	store := vectorstore.NewStore(client)
	keywords := keyword.NewSessionIndex()
	registry := session.NewRegistry()

	summarizer := summarize.New(client, client, store, keywords, registry, summarize.Config{
		Model:         cfg.AI.SummaryModel,
		Language:      cfg.Chat.Language,
		ImagesEnabled: cfg.AI.ImagesEnabled,
	}, logger)
	answerer := answer.New(client, store, registry, answer.Config{
		Model:    cfg.AI.ChatModel,
		Language: cfg.Chat.Language,
		TopK:     cfg.Chat.TopK,
	}, logger)

	fetcher := news.NewFetcher(cfg.News.PageTimeout.Std(), cfg.News.MaxPageChars, logger)
	generator := news.NewGenerator(client, fetcher, cfg.AI.ChatModel, cfg.News.URLs, logger)
	publisher := news.NewFacebookPublisher("", cfg.Facebook.PageID, cfg.Facebook.AccessToken)

	posts, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open post store", zap.Error(err))
	}
	defer posts.Close()

	manager := session.NewManager(cfg.Session.IdleTTL.Std(), cfg.Session.SweepInterval.Std(), logger,
		registry, store, keywords)
	managerCtx, managerCancel := context.WithCancel(context.Background())
	defer managerCancel()
	go manager.Run(managerCtx)

	srv := server.NewServer(
		extract.NewExtractor(),
		splitter.New(cfg.Chat.ChunkSize, cfg.Chat.ChunkOverlap),
		summarizer,
		answerer,
		registry,
		keywords,
		generator,
		publisher,
		posts,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	managerCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runPost() {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	role := fs.String("role", "", "author role (default journalist)")
	tone := fs.String("tone", "", "post tone (default formal)")
	style := fs.String("style", "", "post style (default detailed)")
	language := fs.String("language", "", "post language (default es)")
	instructions := fs.String("instructions", "", "extra instructions for the model")
	publish := fs.Bool("publish", false, "publish the post to the Facebook page")
	format := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	outFormat, err := cli.ParseOutputFormat(*format)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		cli.Fatalf("Failed to load config: %v", err)
	}
	logger := zap.NewNop()

	client := ai.NewClient(aiConfig(cfg))
	fetcher := news.NewFetcher(cfg.News.PageTimeout.Std(), cfg.News.MaxPageChars, logger)
	generator := news.NewGenerator(client, fetcher, cfg.AI.ChatModel, cfg.News.URLs, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	text, err := generator.GeneratePost(ctx, prompts.PostOptions{
		Role:               *role,
		Tone:               *tone,
		Style:              *style,
		Language:           *language,
		CustomInstructions: *instructions,
	})
	if err != nil {
		cli.Fatalf("Failed to generate post: %v", err)
	}

	post := &storage.Post{ID: uuid.New().String(), Text: text}
	if *publish {
		publisher := news.NewFacebookPublisher("", cfg.Facebook.PageID, cfg.Facebook.AccessToken)
		fbID, err := publisher.Publish(ctx, text)
		if err != nil {
			cli.Fatalf("Failed to publish post: %v", err)
		}
		post.Published = true
		post.FacebookID = fbID
	}

	posts, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		cli.Fatalf("Failed to open post store: %v", err)
	}
	defer posts.Close()
	if err := posts.SavePost(ctx, post); err != nil {
		cli.Fatalf("Failed to store post: %v", err)
	}

	if err := cli.WritePost(os.Stdout, post, outFormat); err != nil {
		cli.Fatalf("Failed to write output: %v", err)
	}
}

func runPosts() {
	fs := flag.NewFlagSet("posts", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 0, "maximum posts to list (0 = store default)")
	format := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	outFormat, err := cli.ParseOutputFormat(*format)
	if err != nil {
		cli.Fatalf("%v", err)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		cli.Fatalf("Failed to load config: %v", err)
	}

	posts, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		cli.Fatalf("Failed to open post store: %v", err)
	}
	defer posts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	list, err := posts.ListPosts(ctx, *limit)
	if err != nil {
		cli.Fatalf("Failed to list posts: %v", err)
	}
	if err := cli.WritePosts(os.Stdout, list, outFormat); err != nil {
		cli.Fatalf("Failed to write output: %v", err)
	}
}

func aiConfig(cfg *config.Config) ai.Config {
	return ai.Config{
		BaseURL:        cfg.AI.BaseURL,
		APIKey:         cfg.AI.APIKey,
		ChatModel:      cfg.AI.ChatModel,
		SummaryModel:   cfg.AI.SummaryModel,
		EmbeddingModel: cfg.AI.EmbeddingModel,
		ImageModel:     cfg.AI.ImageModel,
		ImageSize:      cfg.AI.ImageSize,
		Temperature:    cfg.AI.Temperature,
		Timeout:        cfg.AI.Timeout.Std(),
	}
}
