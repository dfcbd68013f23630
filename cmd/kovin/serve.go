package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kovin-ide/kovin/internal/server"
	"github.com/kovin-ide/kovin/internal/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// sessionCheckTimeout bounds the startup session check so an unreachable
// backend cannot hold up the listener
const sessionCheckTimeout = 10 * time.Second

func restoreSession(ctx context.Context, auth *services.AuthStore, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return auth.CheckAuth(ctx)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.Close()

	// restore the session identity before the first request
	restoreSession(ctx, rt.app.Auth, sessionCheckTimeout)

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewHTTPServer(rt.cfg, server.NewRouter(rt.cfg, rt.app, rt.log))

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info().Str("addr", srv.Addr).Msg("kovin HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.log.Error().Err(err).Msg("server forced to shutdown")
	}

	rt.log.Info().Msg("server exited")
	return nil
}

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the project tools over the Model Context Protocol",
		RunE:  runMCP,
	}

	cmd.Flags().String("transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().String("addr", "127.0.0.1:8081", "Listen address (only used with --transport http)")

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	addr, _ := cmd.Flags().GetString("addr")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries the stdio transport
	rt, err := setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := server.NewMCPServer(rt.app)

	switch transport {
	case "stdio":
		rt.log.Info().Msg("kovin MCP server starting (stdio)")
		return srv.Run(ctx, &mcp.StdioTransport{})
	case "http":
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		httpSrv := &http.Server{Addr: addr, Handler: handler}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		rt.log.Info().Str("addr", addr).Msg("kovin MCP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return errors.New("unknown transport " + transport + " (use stdio or http)")
	}
}
