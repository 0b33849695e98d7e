package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start an HTTP server with an upload page and REST endpoints that run the portfolio pipeline.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to port from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := serverConfig(ctx, settings, servePort)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	srv, err := server.New(client, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig builds the server settings; a non-zero port overrides the config
func serverConfig(ctx context.Context, cfg config.Config, port int) (server.Config, error) {
	if port == 0 {
		port = cfg.Port
	}
	if port < 0 || port > 65535 {
		return server.Config{}, &config.ConfigurationError{Message: fmt.Sprintf("invalid port %d", port)}
	}

	serverCfg := server.Config{
		Port:           port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Timeout:        cfg.TimeoutValue(),
		ArchiveName:    cfg.ArchiveName,
	}

	if cfg.S3.Enabled() {
		publisher, err := newPublisher(ctx, cfg.S3)
		if err != nil {
			return server.Config{}, fmt.Errorf("failed to create publisher: %w", err)
		}
		serverCfg.Publisher = publisher
	}

	return serverCfg, nil
}
