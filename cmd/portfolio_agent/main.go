// Package main provides the entry point for the portfolio builder CLI and HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/objectstore"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio_agent",
	Short: "Résumé to portfolio website generator",
	Long: `Portfolio Agent turns a PDF or DOCX résumé into a personal portfolio website.

The résumé text is analyzed by a language model, a second call writes the
HTML, CSS and JavaScript, and the result is written out as files or a zip.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

var (
	rootAPIKey     string
	rootConfigPath string
	rootVerbose    bool

	// settings is the merged configuration for the running command
	settings config.Config
)

// newClient builds the model client; tests replace it with a stub
var newClient = func(ctx context.Context, cfg config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey)
}

// newPublisher builds the archive publisher; tests replace it with a fake
var newPublisher = func(ctx context.Context, s3 config.S3Config) (objectstore.Publisher, error) {
	return objectstore.NewFileStore(ctx, s3)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY or gemini env var)")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

// loadSettings resolves the configuration before any subcommand runs.
// Precedence: flags, then the config file, then the environment, then defaults.
func loadSettings(_ *cobra.Command, _ []string) error {
	var fileCfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		fileCfg = *loaded
	}

	apiKey, err := config.ResolveAPIKey(rootAPIKey, &fileCfg, os.Getenv)
	if err != nil {
		return err
	}

	cfg := fileCfg.MergeWithDefaults(config.FromEnv(os.Getenv))
	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.APIKey = apiKey
	cfg.Verbose = cfg.Verbose || rootVerbose

	settings = cfg
	return nil
}

// llmConfig maps the file/env configuration onto the model client's
func llmConfig(cfg config.Config) *llm.Config {
	llmCfg := llm.DefaultConfig().
		WithProvider(llm.Provider(cfg.Provider)).
		WithTemperature(cfg.TemperatureValue())
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	return llmCfg
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
