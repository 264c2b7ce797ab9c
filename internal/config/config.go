// Package config loads and validates the brief engine's configuration: a
// YAML file provides the base, environment variables from the closed set in
// spec §6 override it, and validate() rejects anything the engine can't run
// with.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate10 = validator.New()

// Config is the root configuration for cmd/briefengine.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	SERP      SERPConfig      `yaml:"serp"`
	LLM       LLMConfig       `yaml:"llm"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	EntitySEO EntitySEOConfig `yaml:"entity_seo"`
	Logging   LoggingConfig   `yaml:"logging"`
	Docstore  DocstoreConfig  `yaml:"docstore"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        string `yaml:"port"`
	MetricsPort string `yaml:"metrics_port"`
}

// SERPConfig configures the SERP provider cascade (§4.D).
type SERPConfig struct {
	Provider           string        `yaml:"provider"`
	SerpAPIKey         string        `yaml:"serpapi_key"`
	DataForSEOLogin    string        `yaml:"dataforseo_login"`
	DataForSEOPassword string        `yaml:"dataforseo_password"`
	Timeout            time.Duration `yaml:"timeout"`
	MaxDepth           int           `yaml:"max_depth"`
}

// LLMConfig configures the LLM backend used for PAA fallback (§4.D) and
// causal extraction (§4.J).
type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	Model           string        `yaml:"model"`
	Timeout         time.Duration `yaml:"timeout"`
	Temperature     float32       `yaml:"temperature"`
	MaxTokens       int           `yaml:"max_tokens"`
}

// ScrapeConfig configures the content-extractor worker pool (§5).
type ScrapeConfig struct {
	Workers       int           `yaml:"workers"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxPageBytes  int           `yaml:"max_page_bytes"`
	MaxTotalBytes int           `yaml:"max_total_bytes"`
}

// EntitySEOConfig toggles the entity-SEO pipeline stages (G/H/I/L) behind
// the ENTITY_SEO_ENABLED flag.
type EntitySEOConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DocstoreConfig configures the optional external document-store
// collaborator (spec §1 scope statement, §9 Open Questions).
type DocstoreConfig struct {
	GoogleApplicationCredentials string `yaml:"google_application_credentials"`
}

// CacheConfig configures the optional Redis-backed brief cache (§4.N). An
// empty RedisAddr leaves caching disabled.
type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr"`
}

// LoggingConfig configures the zap/logr sink.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads path, applies defaults, overlays environment variables, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			MetricsPort: "9090",
		},
		SERP: SERPConfig{
			Provider: "serpapi",
			Timeout:  30 * time.Second,
			MaxDepth: 8,
		},
		LLM: LLMConfig{
			Provider:    "anthropic",
			Model:       "claude-3-haiku-20240307",
			Timeout:     20 * time.Second,
			Temperature: 0.3,
			MaxTokens:   500,
		},
		Scrape: ScrapeConfig{
			Workers:       6,
			Timeout:       8 * time.Second,
			MaxPageBytes:  30000,
			MaxTotalBytes: 200000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// validate rejects configuration combinations the engine cannot run with,
// filling in a safe default for the SERP depth (and clamping it to 20)
// rather than failing when it is missing. The fixed-choice/range checks below
// carry their own operator-facing messages; validate10 backs only the one
// check that doesn't need a bespoke message (server port format).
func validate(config *Config) error {
	switch config.SERP.Provider {
	case "serpapi", "dataforseo":
	default:
		return fmt.Errorf("unsupported SERP provider: %s", config.SERP.Provider)
	}

	if config.SERP.MaxDepth <= 0 {
		config.SERP.MaxDepth = 8
	}
	if config.SERP.MaxDepth > 20 {
		config.SERP.MaxDepth = 20
	}

	switch config.LLM.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", config.LLM.Provider)
	}

	if config.LLM.Model == "" {
		return fmt.Errorf("LLM model is required for %s provider", config.LLM.Provider)
	}

	if config.LLM.Temperature < 0.0 || config.LLM.Temperature > 1.0 {
		return fmt.Errorf("LLM temperature must be between 0.0 and 1.0")
	}

	if config.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM max tokens must be greater than 0")
	}

	if config.Scrape.Workers <= 0 {
		return fmt.Errorf("scrape workers must be greater than 0")
	}

	if config.Server.Port != "" {
		if err := validate10.Var(config.Server.Port, "numeric"); err != nil {
			return fmt.Errorf("server port must be numeric: %w", err)
		}
	}

	return nil
}

// loadFromEnv overlays the closed env-var set from spec §6 onto config,
// plus the ambient server/logging vars cmd/briefengine needs that spec.md
// leaves to "ordinary service configuration".
func loadFromEnv(config *Config) error {
	if v := os.Getenv("SERP_PROVIDER"); v != "" {
		config.SERP.Provider = v
	}
	if v := os.Getenv("SERPAPI_KEY"); v != "" {
		config.SERP.SerpAPIKey = v
	}
	if v := os.Getenv("DATAFORSEO_LOGIN"); v != "" {
		config.SERP.DataForSEOLogin = v
	}
	if v := os.Getenv("DATAFORSEO_PASSWORD"); v != "" {
		config.SERP.DataForSEOPassword = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.LLM.OpenAIAPIKey = v
	}
	if v := os.Getenv("ENTITY_SEO_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ENTITY_SEO_ENABLED value %q: %w", v, err)
		}
		config.EntitySEO.Enabled = enabled
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		config.Docstore.GoogleApplicationCredentials = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.Cache.RedisAddr = v
	}

	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		config.Server.MetricsPort = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	return nil
}
