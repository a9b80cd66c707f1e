package internal

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type IndexConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	// Model is introspection-only: the embedding model name reported by the
	// stats endpoint. Filled from the embeddings config when empty.
	Model string `yaml:"model,omitempty"`
}

type EmbeddingsConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
}

type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type Config struct {
	MemoryDir       string                    `yaml:"memory_dir"`
	HTTP            HTTPConfig                `yaml:"http"`
	Index           IndexConfig               `yaml:"index"`
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Journal         JournalConfig             `yaml:"journal"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".retainr")
	return &Config{
		MemoryDir: filepath.Join(base, "memory"),
		HTTP:      HTTPConfig{Host: "127.0.0.1", Port: 8000},
		Index: IndexConfig{
			Path:       filepath.Join(base, "index"),
			Collection: "retainr_memories",
		},
		Embeddings: EmbeddingsConfig{
			Backend:   "hash",
			Dimension: 384,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// DefaultConfigPath is where LoadConfig looks when no path is given.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".retainr", "config.yaml")
}

// LoadConfig reads the YAML config file, falling back to defaults when it
// does not exist, then applies RETAINR_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Index.Model == "" {
		cfg.Index.Model = cfg.Embeddings.Model
	}
	if cfg.Index.Model == "" {
		cfg.Index.Model = cfg.Embeddings.Backend
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RETAINR_MEMORY_DIR"); v != "" {
		c.MemoryDir = v
	}
	if v := os.Getenv("RETAINR_HOST"); v != "" {
		c.HTTP.Host = v
	}
	if v := os.Getenv("RETAINR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTP.Port = port
		}
	}
	if v := os.Getenv("RETAINR_INDEX_PATH"); v != "" {
		c.Index.Path = v
	}
	if v := os.Getenv("RETAINR_COLLECTION"); v != "" {
		c.Index.Collection = v
	}
	if v := os.Getenv("RETAINR_EMBEDDING_BACKEND"); v != "" {
		c.Embeddings.Backend = v
	}
	if v := os.Getenv("RETAINR_EMBEDDING_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("RETAINR_EMBEDDING_BASE_URL"); v != "" {
		c.Embeddings.BaseURL = v
	}
	if v := os.Getenv("RETAINR_EMBEDDING_API_KEY"); v != "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv("RETAINR_JOURNAL"); v != "" {
		c.Journal.Enabled = v == "1" || v == "true"
	}
}
