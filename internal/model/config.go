package model

import "time"

// Config holds the complete application configuration
type Config struct {
	Research ResearchConfig `yaml:"research" mapstructure:"research"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
}

// ResearchConfig configures the external research provider
type ResearchConfig struct {
	// BaseURL of the OpenAI-compatible completions endpoint
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKey (recommended to set via RESEARCH_API_KEY instead)
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Model name, provider-specific
	Model string `yaml:"model" mapstructure:"model"`

	// Timeout for a single completion request
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RequestsPerSecond paces outbound calls (0 disables pacing)
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// PipelineConfig configures the claims-processing pipeline
type PipelineConfig struct {
	// ClaimsLimit is the maximum number of recent claims requested per run
	ClaimsLimit int `yaml:"claims_limit" mapstructure:"claims_limit"`

	// RecencyFilter restricts provider search recency (hour/day/week/month)
	RecencyFilter string `yaml:"recency_filter" mapstructure:"recency_filter"`

	// DedupBatchSize is the number of new claim texts per dedup call
	DedupBatchSize int `yaml:"dedup_batch_size" mapstructure:"dedup_batch_size"`

	// ClassifyBatchSize is the number of claims per classification call
	ClassifyBatchSize int `yaml:"classify_batch_size" mapstructure:"classify_batch_size"`

	// MaxConcurrentQueries bounds in-flight provider calls in batched stages
	MaxConcurrentQueries int `yaml:"max_concurrent_queries" mapstructure:"max_concurrent_queries"`

	// Journals is the default evidence journal list when a caller
	// supplies none
	Journals []string `yaml:"journals" mapstructure:"journals"`
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// CacheConfig holds cache settings
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Research: ResearchConfig{
			BaseURL:           "https://api.perplexity.ai",
			Model:             "llama-3.1-sonar-small-128k-online",
			Timeout:           90 * time.Second,
			RequestsPerSecond: 2,
			Burst:             3,
		},
		Pipeline: PipelineConfig{
			ClaimsLimit:          25,
			RecencyFilter:        "month",
			DedupBatchSize:       10,
			ClassifyBatchSize:    3,
			MaxConcurrentQueries: 3,
			Journals: []string{
				"PubMed Central",
				"New England Journal of Medicine",
				"The Lancet",
				"Nature",
				"JAMA",
				"The BMJ",
				"Science",
			},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DBName:  "health_claims",
			SSLMode: "disable",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
	}
}
