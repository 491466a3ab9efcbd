package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Providers ProvidersConfig `toml:"providers"`
	LLM       LLMConfig       `toml:"llm"`
	Cache     CacheConfig     `toml:"cache"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// ProvidersConfig groups the upstream data sources.
type ProvidersConfig struct {
	Market   ProviderConfig `toml:"market"`
	Earnings ProviderConfig `toml:"earnings"`
	Filings  FilingsConfig  `toml:"filings"`
}

// ProviderConfig contains the settings of a keyed REST provider.
type ProviderConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"`
}

// FilingsConfig contains SEC EDGAR settings.
type FilingsConfig struct {
	UserAgent      string `toml:"user_agent"`
	TickersURL     string `toml:"tickers_url"`
	SubmissionsURL string `toml:"submissions_url"`
	ArchiveURL     string `toml:"archive_url"`
	BrowseURL      string `toml:"browse_url"`
	Timeout        string `toml:"timeout"`
	RateLimit      int    `toml:"rate_limit"`
	Limit          int    `toml:"limit"`
	AnalyzeLimit   int    `toml:"analyze_limit"`
}

// LLMConfig contains language model settings.
type LLMConfig struct {
	Provider    string  `toml:"provider"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
	MaxTokens   int     `toml:"max_tokens"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	Backend    string `toml:"backend"`
	TTL        string `toml:"ttl"`
	BadgerPath string `toml:"badger_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// TimeoutDuration parses Timeout, returning zero when unset or invalid.
func (c ProviderConfig) TimeoutDuration() time.Duration { return parseDuration(c.Timeout) }

// TimeoutDuration parses Timeout, returning zero when unset or invalid.
func (c FilingsConfig) TimeoutDuration() time.Duration { return parseDuration(c.Timeout) }

// TimeoutDuration parses Timeout, returning zero when unset or invalid.
func (c LLMConfig) TimeoutDuration() time.Duration { return parseDuration(c.Timeout) }

// TTLDuration parses TTL, returning zero when unset or invalid.
func (c CacheConfig) TTLDuration() time.Duration { return parseDuration(c.TTL) }

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadDotEnv loads the given env files into the process environment. Files
// listed first win, and variables already set are never overridden. Missing
// files are skipped. It returns the files that were loaded.
func LoadDotEnv(files ...string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}
	return loaded, nil
}

// applyEnvOverrides applies provider credentials and EI_* overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("EI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("EI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("EI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if backend := os.Getenv("EI_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}
	if ttl := os.Getenv("EI_CACHE_TTL"); ttl != "" {
		config.Cache.TTL = ttl
	}
	if provider := os.Getenv("EI_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if model := os.Getenv("EI_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}

	if key := os.Getenv("POLYGON_API_KEY"); key != "" {
		config.Providers.Market.APIKey = key
	}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		config.Providers.Earnings.APIKey = key
	}
	if ua := os.Getenv("SEC_USER_AGENT"); ua != "" {
		config.Providers.Filings.UserAgent = ua
	}

	llmKeyVar := "GEMINI_API_KEY"
	if strings.EqualFold(config.LLM.Provider, "claude") {
		llmKeyVar = "ANTHROPIC_API_KEY"
	}
	if key := os.Getenv(llmKeyVar); key != "" {
		config.LLM.APIKey = key
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns every configuration problem found. An empty result means
// the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "", "memory", "badger":
	default:
		issues = append(issues, fmt.Sprintf("cache.backend %q is not one of memory, badger", c.Cache.Backend))
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "", "gemini", "claude":
	default:
		issues = append(issues, fmt.Sprintf("llm.provider %q is not one of gemini, claude", c.LLM.Provider))
	}

	durations := []struct {
		name  string
		value string
	}{
		{"providers.market.timeout", c.Providers.Market.Timeout},
		{"providers.earnings.timeout", c.Providers.Earnings.Timeout},
		{"providers.filings.timeout", c.Providers.Filings.Timeout},
		{"llm.timeout", c.LLM.Timeout},
		{"cache.ttl", c.Cache.TTL},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			issues = append(issues, fmt.Sprintf("%s %q is not a valid duration", d.name, d.value))
		}
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		issues = append(issues, fmt.Sprintf("llm.temperature %.2f is outside 0..2", c.LLM.Temperature))
	}

	return issues
}
