package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4242,
			Host: "localhost",
		},
		Providers: ProvidersConfig{
			Market: ProviderConfig{
				BaseURL:   "https://api.polygon.io",
				Timeout:   "15s",
				RateLimit: 5,
			},
			Earnings: ProviderConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				Timeout:   "15s",
				RateLimit: 5,
			},
			Filings: FilingsConfig{
				TickersURL:     "https://www.sec.gov/files/company_tickers.json",
				SubmissionsURL: "https://data.sec.gov/submissions",
				ArchiveURL:     "https://www.sec.gov/Archives/edgar/data",
				BrowseURL:      "https://www.sec.gov/cgi-bin/browse-edgar",
				Timeout:        "15s",
				RateLimit:      5,
				Limit:          4,
				AnalyzeLimit:   10,
			},
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			Timeout:     "60s",
			MaxTokens:   2048,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     "1h",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/earnings-insight.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}
