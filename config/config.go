package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
// It is built once at startup and treated as immutable afterwards;
// components receive the sub-configs they need at construction time.
type Config struct {
	LLM           LLMConfig
	Embedding     EmbeddingConfig
	Weaviate      WeaviateConfig
	Retrieval     RetrievalConfig
	Validation    ValidationConfig
	Cache         CacheConfig
	Scraper       ScraperConfig
	Observability ObservabilityConfig
	Environment   string
}

// LLMConfig holds completion model configuration.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
	Timeout     time.Duration
}

// EmbeddingConfig holds embedding model configuration.
type EmbeddingConfig struct {
	Model   string
	Timeout time.Duration
}

// WeaviateConfig holds vector index connection configuration.
type WeaviateConfig struct {
	Scheme    string
	Host      string
	ClassName string
	APIKey    string
}

// RetrievalConfig holds document retrieval configuration.
type RetrievalConfig struct {
	TopK         int
	MinRelevance float64
}

// ValidationConfig holds response validation configuration.
type ValidationConfig struct {
	Enabled           bool
	StrictSourceCheck bool
	MaxConfidence     float64
}

// CacheConfig holds embedding cache configuration.
type CacheConfig struct {
	Enabled  bool
	Capacity int
}

// ScraperConfig holds web scraper configuration.
type ScraperConfig struct {
	Timeout       time.Duration
	MinContentLen int
}

// ObservabilityConfig holds logging and metrics configuration.
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// New creates a new Config instance by loading environment variables.
func New() (*Config, error) {
	// Load .env if present (no error when missing)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.3),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 800),
			TopP:        getEnvAsFloat32("LLM_TOP_P", 0.9),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Embedding: EmbeddingConfig{
			Model:   getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
			Timeout: getEnvAsDuration("EMBEDDING_TIMEOUT", 30*time.Second),
		},
		Weaviate: WeaviateConfig{
			Scheme:    getEnv("WEAVIATE_SCHEME", "http"),
			Host:      getEnv("WEAVIATE_HOST", "localhost:8080"),
			ClassName: getEnv("WEAVIATE_CLASS", "LegalDocument"),
			APIKey:    getEnv("WEAVIATE_API_KEY", ""),
		},
		Retrieval: RetrievalConfig{
			TopK:         getEnvAsInt("TOP_K_DOCUMENTS", 5),
			MinRelevance: getEnvAsFloat("MIN_RELEVANCE_SCORE", 0.7),
		},
		Validation: ValidationConfig{
			Enabled:           getEnvAsBool("ENABLE_RESPONSE_VALIDATION", true),
			StrictSourceCheck: getEnvAsBool("STRICT_SOURCE_VALIDATION", true),
			MaxConfidence:     getEnvAsFloat("MAX_CONFIDENCE_SCORE", 95.0),
		},
		Cache: CacheConfig{
			Enabled:  getEnvAsBool("ENABLE_EMBEDDING_CACHE", true),
			Capacity: getEnvAsInt("EMBEDDING_CACHE_SIZE", 1000),
		},
		Scraper: ScraperConfig{
			Timeout:       getEnvAsDuration("SCRAPER_TIMEOUT", 120*time.Second),
			MinContentLen: getEnvAsInt("SCRAPER_MIN_CONTENT_LEN", 100),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.IsProduction() && c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required in production")
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MinRelevance < 0 || c.Retrieval.MinRelevance > 1 {
		return fmt.Errorf("min relevance must be in [0, 1], got %f", c.Retrieval.MinRelevance)
	}
	if c.Validation.MaxConfidence <= 0 || c.Validation.MaxConfidence >= 100 {
		return fmt.Errorf("max confidence must be in (0, 100), got %f", c.Validation.MaxConfidence)
	}
	if c.Cache.Enabled && c.Cache.Capacity < 1 {
		return fmt.Errorf("cache capacity must be at least 1, got %d", c.Cache.Capacity)
	}
	if c.Weaviate.Host == "" {
		return fmt.Errorf("weaviate host is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	return float32(getEnvAsFloat(key, float64(defaultValue)))
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
