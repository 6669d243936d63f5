package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/leaderboard-go/internal/api"
	"github.com/mcoot/leaderboard-go/internal/factory"
	"github.com/mcoot/leaderboard-go/internal/web"
)

func main() {
	os.Exit(run())
}

// run starts the server and blocks until it stops, returning the process exit code
func run() int {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	cfg.Factory.Logger = logger

	app, err := factory.New(cfg.Factory)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	go app.Hub.Run()

	server := api.NewServer(newHandler(app, logger), cfg.Server, logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Factory.StorageType),
		slog.Int("leaderboard_size", cfg.Factory.RegistryConfig.LeaderboardSize))

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Event streams only end when the hub closes, so close it before draining connections
		app.Hub.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("failed to close application", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	return exitCode
}

// newHandler mounts the JSON API and the web view on one mux
func newHandler(app *factory.App, logger *slog.Logger) http.Handler {
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		RegistryService: app.RegistryService,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:          logger,
		RegistryService: app.RegistryService,
		Hub:             app.Hub,
	})

	mux := http.NewServeMux()
	mux.Handle("/players/", apiRouter)
	mux.Handle("/health", apiRouter)
	mux.Handle("/", webRouter)
	return mux
}
