package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o-mini"
	}
	if cfg.AI.SummaryModel == "" {
		cfg.AI.SummaryModel = "gpt-3.5-turbo"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.AI.ImageModel == "" {
		cfg.AI.ImageModel = "dall-e-3"
	}
	if cfg.AI.ImageSize == "" {
		cfg.AI.ImageSize = "1024x1024"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.2
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = Duration(60 * time.Second)
	}
	if cfg.Chat.ChunkSize == 0 {
		cfg.Chat.ChunkSize = 1000
	}
	if cfg.Chat.ChunkOverlap == 0 {
		cfg.Chat.ChunkOverlap = 200
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = 4
	}
	if cfg.Chat.Language == "" {
		cfg.Chat.Language = "es"
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = Duration(time.Hour)
	}
	if cfg.Session.SweepInterval == 0 {
		cfg.Session.SweepInterval = Duration(15 * time.Minute)
	}
	if cfg.News.PageTimeout == 0 {
		cfg.News.PageTimeout = Duration(20 * time.Second)
	}
	if cfg.News.MaxPageChars == 0 {
		cfg.News.MaxPageChars = 8000
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "data/charla.db"
	}
}
