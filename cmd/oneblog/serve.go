// ABOUTME: Serve command that runs the gin HTTP server
// ABOUTME: Hosts the session-guarded app API and the service API with graceful shutdown

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/api"
	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/config"
	"github.com/harper/oneblog/internal/llm"
	"github.com/harper/oneblog/internal/writer"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the oneblog HTTP server.

The server provides:
  • /api/...        app API, authenticated with a session token (Bearer)
  • /service/v1/... service API for the MCP server, authenticated with X-Service-Secret
  • /healthz        health check

Requires auth.session_secret and auth.service_secret. Topic and post
generation also need llm.api_key (OPENAI_API_KEY).

Examples:
  oneblog serve
  oneblog serve --addr :3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	sessionSecret, err := cfg.RequireSessionSecret()
	if err != nil {
		return err
	}
	serviceSecret, err := cfg.RequireServiceSecret()
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("llm.api_key is not set; trending topics and post generation will fail")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	responder := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	srv := api.NewServer(api.Options{
		Blog:         blog.NewService(store),
		Writer:       writer.NewService(store, responder),
		SessionGuard: auth.NewSessionGuard(sessionSecret),
		ServiceGuard: auth.NewServiceGuard(serviceSecret),
		Mode:         cfg.Server.Mode,
	})

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("backend", cfg.GetBackend()).Msg("server listening")
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("server shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info().Msg("server stopped")
	}

	return nil
}
