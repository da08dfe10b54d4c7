// Package config provides configuration loading and structs for the Charla server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes yaml scalars like "90s" or "1h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all configuration for the application. Secrets (API keys,
// tokens) are never read from the file; they come from the environment.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	AI       AIConfig       `yaml:"ai"`
	Chat     ChatConfig     `yaml:"chat"`
	Session  SessionConfig  `yaml:"session"`
	News     NewsConfig     `yaml:"news"`
	Facebook FacebookConfig `yaml:"facebook"`
	Storage  StorageConfig  `yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AIConfig holds model service settings. APIKey is populated from the
// OPENAI_API_KEY environment variable. BaseURL may point at a local
// OpenAI-compatible server during development.
type AIConfig struct {
	BaseURL        string   `yaml:"base_url"`
	ChatModel      string   `yaml:"chat_model"`
	SummaryModel   string   `yaml:"summary_model"`
	EmbeddingModel string   `yaml:"embedding_model"`
	ImageModel     string   `yaml:"image_model"`
	ImageSize      string   `yaml:"image_size"`
	ImagesEnabled  bool     `yaml:"images_enabled"`
	Temperature    float64  `yaml:"temperature"`
	Timeout        Duration `yaml:"timeout"`
	APIKey         string   `yaml:"-"`
}

// ChatConfig holds chunking and retrieval settings.
type ChatConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Language     string `yaml:"language"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	IdleTTL       Duration `yaml:"idle_ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

// NewsConfig holds the news-post generator settings.
type NewsConfig struct {
	URLs         []string `yaml:"urls"`
	PageTimeout  Duration `yaml:"page_timeout"`
	MaxPageChars int      `yaml:"max_page_chars"`
}

// FacebookConfig holds page publishing settings. AccessToken is populated
// from the FACEBOOK_API_TOKEN environment variable.
type FacebookConfig struct {
	PageID      string `yaml:"page_id"`
	AccessToken string `yaml:"-"`
}

// StorageConfig holds the post archive location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Load reads and parses the config file at path, applies defaults, and pulls
// secrets from the environment. Returns an error if the file cannot be read
// or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Facebook.AccessToken = os.Getenv("FACEBOOK_API_TOKEN")

	return &cfg, nil
}
