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

	"github.com/bobmcallan/earnings-insight/internal/app"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/bobmcallan/earnings-insight/internal/config"
	"github.com/bobmcallan/earnings-insight/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP = flag.Int("p", 0, "Server port (shorthand)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

// envFiles are loaded before configuration; the first file wins.
var envFiles = []string{".env.local", ".env"}

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("earnings-insight version %s\n", config.Current())
		return
	}

	os.Exit(run())
}

// run starts the server and blocks until a shutdown signal. It returns the
// process exit code.
func run() int {
	loadedEnv, err := config.LoadDotEnv(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load environment files: %v\n", err)
		return 1
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	if issues := cfg.Validate(); len(issues) > 0 {
		printIssues(issues)
		return 1
	}

	common.PrintBanner(config.Version)
	logger := setupLogger(cfg)

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("host", cfg.Server.Host).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Str("env_files", fmt.Sprintf("%v", loadedEnv)).
		Str("llm_provider", cfg.LLM.Provider).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize application")
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error().Err(err).Msg("application shutdown failed")
		}
	}()

	srv := server.New(application)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error().Err(err).Msg("server failed to start")
			return 1
		}
		return 0
	case <-sigChan:
		logger.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return 1
	}

	logger.Info().Msg("server stopped")
	return 0
}

// loadConfig resolves the config files and applies flag overrides.
func loadConfig() (*config.Config, error) {
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		return nil, err
	}

	// Shorthand port flag takes precedence
	port := *serverPort
	if *serverPortP != 0 {
		port = *serverPortP
	}
	config.ApplyFlagOverrides(cfg, port, *serverHost)
	return cfg, nil
}

func printIssues(issues []string) {
	fmt.Fprintln(os.Stderr, "Configuration error, the following values are invalid:")
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}
	fmt.Fprintln(os.Stderr, "Values can be set via TOML file, EI_* environment variables, .env.local or CLI flags.")
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"earnings-insight.toml",
		"config/earnings-insight.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "earnings-insight.toml"),
		filepath.Join(binDir, "config", "earnings-insight.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// setupLogger creates an arbor logger based on config.
func setupLogger(cfg *config.Config) *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    cfg.Logging.Outputs,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
