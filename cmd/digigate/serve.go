package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artpar/digigate/bootstrap"
	"github.com/artpar/digigate/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long: `Start the digigate server.

The server will:
  - Load configuration from digigate.yaml (or --config)
  - Or load configuration from DIGIGATE_* environment variables
  - Load member, module, and product records from the data directory
  - Watch the record files and hot-reload them on change
  - Authorize and dispatch inbound transaction requests

Environment variables (for container deployments):
  DIGIGATE_DATA_DIR         - Record file directory (required)
  DIGIGATE_SERVER_PORT      - Server port (default: 8080)
  DIGIGATE_DEFAULT_PROVIDER - Default provider tag (default: digipos)
  DIGIGATE_LOG_LEVEL        - Log level: debug, info, warn, error

Examples:
  digigate serve
  digigate serve --config /etc/digigate/config.yaml

  # Docker (env vars only):
  DIGIGATE_DATA_DIR=/data digigate serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return err
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		app.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Shutdown(ctx)
	}
}
