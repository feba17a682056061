package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Gemini (text generation) configuration
	Gemini GeminiConfig

	// Market data upstream configuration
	Market MarketConfig

	// Analysis pipeline configuration
	Analysis AnalysisConfig

	// Cache configuration
	Cache CacheConfig

	// HTTP configuration
	HTTP HTTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// GeminiConfig holds text-generation API configuration. Models are tried in
// order; the first successful call wins.
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Models    []string
	MaxTokens int
}

// MarketConfig holds market-data upstream configuration
type MarketConfig struct {
	BaseURL        string
	NewsBaseURL    string
	LookbackRange  string // upstream range token, e.g. "1y"
	RequestTimeout time.Duration
}

// AnalysisConfig holds the indicator and scoring parameters
type AnalysisConfig struct {
	ShortWindow    int     // short moving-average window (sessions)
	LongWindow     int     // long moving-average window (sessions)
	ProfileWindow  int     // trailing sub-window for the volume profile
	ProfileBins    int     // equal-width price bins in the profile
	SurgeRatio     float64 // latest volume vs 5-session mean to count as a surge
	ExclusiveRules bool    // trend and support rules mutually exclusive
	CoarseLabels   bool    // two-threshold (70/30) classification
	FetchAttempts  int     // bounded retries against the upstream
	FetchDelayMin  time.Duration
	FetchDelayMax  time.Duration
	NewsHeadlines  int // max headlines fed to the summarizer
}

// CacheConfig holds memoization TTLs
type CacheConfig struct {
	SeriesTTL       time.Duration // per-ticker series snapshots
	CleanupInterval time.Duration // how often expired rows are purged
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Gemini: GeminiConfig{
			APIKey:    os.Getenv("GOOGLE_API_KEY"),
			BaseURL:   getEnvString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Models:    []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
			MaxTokens: getEnvInt("GEMINI_MAX_TOKENS", 1024),
		},
		Market: MarketConfig{
			BaseURL:        getEnvString("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			NewsBaseURL:    getEnvString("MARKET_NEWS_BASE_URL", "https://query1.finance.yahoo.com"),
			LookbackRange:  getEnvString("MARKET_LOOKBACK_RANGE", "1y"),
			RequestTimeout: getEnvDuration("MARKET_REQUEST_TIMEOUT", 30*time.Second),
		},
		Analysis: AnalysisConfig{
			ShortWindow:    getEnvInt("ANALYSIS_SHORT_WINDOW", 20),
			LongWindow:     getEnvInt("ANALYSIS_LONG_WINDOW", 60),
			ProfileWindow:  getEnvInt("ANALYSIS_PROFILE_WINDOW", 120),
			ProfileBins:    getEnvInt("ANALYSIS_PROFILE_BINS", 30),
			SurgeRatio:     getEnvFloat("ANALYSIS_SURGE_RATIO", 1.5),
			ExclusiveRules: getEnvBool("ANALYSIS_EXCLUSIVE_RULES", false),
			CoarseLabels:   getEnvBool("ANALYSIS_COARSE_LABELS", false),
			FetchAttempts:  getEnvInt("FETCH_MAX_ATTEMPTS", 3),
			FetchDelayMin:  getEnvDuration("FETCH_DELAY_MIN", 100*time.Millisecond),
			FetchDelayMax:  getEnvDuration("FETCH_DELAY_MAX", 3*time.Second),
			NewsHeadlines:  getEnvInt("ANALYSIS_NEWS_HEADLINES", 5),
		},
		Cache: CacheConfig{
			SeriesTTL:       getEnvDuration("CACHE_SERIES_TTL", 15*time.Minute),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Hour),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.ShortWindow <= 0 {
		return fmt.Errorf("ANALYSIS_SHORT_WINDOW must be positive, got %d", c.Analysis.ShortWindow)
	}
	if c.Analysis.LongWindow <= c.Analysis.ShortWindow {
		return fmt.Errorf("ANALYSIS_LONG_WINDOW must exceed the short window, got %d vs %d",
			c.Analysis.LongWindow, c.Analysis.ShortWindow)
	}
	if c.Analysis.ProfileBins <= 0 {
		return fmt.Errorf("ANALYSIS_PROFILE_BINS must be positive, got %d", c.Analysis.ProfileBins)
	}
	if c.Analysis.SurgeRatio <= 0 {
		return fmt.Errorf("ANALYSIS_SURGE_RATIO must be positive, got %.2f", c.Analysis.SurgeRatio)
	}
	if c.Analysis.FetchAttempts <= 0 {
		return fmt.Errorf("FETCH_MAX_ATTEMPTS must be positive, got %d", c.Analysis.FetchAttempts)
	}
	if c.Analysis.FetchDelayMin < 0 || c.Analysis.FetchDelayMax < c.Analysis.FetchDelayMin {
		return fmt.Errorf("fetch delay range invalid: min=%s max=%s",
			c.Analysis.FetchDelayMin, c.Analysis.FetchDelayMax)
	}
	if c.Analysis.NewsHeadlines <= 0 {
		return fmt.Errorf("ANALYSIS_NEWS_HEADLINES must be positive, got %d", c.Analysis.NewsHeadlines)
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasGemini returns true if the text-generation API is configured
func (c *Config) HasGemini() bool {
	return c.Gemini.APIKey != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: ""},
		Gemini: GeminiConfig{
			APIKey:    "",
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai/",
			Models:    []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
			MaxTokens: 1024,
		},
		Market: MarketConfig{
			BaseURL:        "https://query1.finance.yahoo.com",
			NewsBaseURL:    "https://query1.finance.yahoo.com",
			LookbackRange:  "1y",
			RequestTimeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			ShortWindow:    20,
			LongWindow:     60,
			ProfileWindow:  120,
			ProfileBins:    30,
			SurgeRatio:     1.5,
			ExclusiveRules: false,
			CoarseLabels:   false,
			FetchAttempts:  3,
			FetchDelayMin:  0,
			FetchDelayMax:  0,
			NewsHeadlines:  5,
		},
		Cache: CacheConfig{
			SeriesTTL:       15 * time.Minute,
			CleanupInterval: time.Hour,
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
		},
	}
}
