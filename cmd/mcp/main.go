package main

import (
	"context"
	"log/slog"
	"os"

	mcpadapter "github.com/Gaurav5289/rag-spec-extraction/internal/adapters/mcp"
	"github.com/Gaurav5289/rag-spec-extraction/internal/bootstrap"
	"github.com/Gaurav5289/rag-spec-extraction/internal/config"
	"github.com/Gaurav5289/rag-spec-extraction/internal/observability/logging"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()
	// Stdout carries the MCP protocol stream; logs go to stderr.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	app, err := bootstrap.NewWithOptions(context.Background(), cfg, bootstrap.Options{
		SkipPersistence: true,
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpadapter.NewServer(app.QueryUC, version)
	slog.Info("mcp_serving_stdio", "vector_backend", cfg.VectorBackend)
	if err := server.ServeStdio(); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
