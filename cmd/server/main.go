// Command server starts the MoodMatch recommendation HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/avichal16/moodmatch-api/internal/adapter/ai"
	"github.com/avichal16/moodmatch-api/internal/adapter/catalog/books"
	"github.com/avichal16/moodmatch-api/internal/adapter/catalog/tmdb"
	httpserver "github.com/avichal16/moodmatch-api/internal/adapter/httpserver"
	"github.com/avichal16/moodmatch-api/internal/adapter/observability"
	"github.com/avichal16/moodmatch-api/internal/adapter/playlist/spotify"
	"github.com/avichal16/moodmatch-api/internal/app"
	"github.com/avichal16/moodmatch-api/internal/config"
	"github.com/avichal16/moodmatch-api/internal/domain"
	"github.com/avichal16/moodmatch-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, provider, and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Provider clients
	aicl := ai.New(cfg)
	tmdbcl := tmdb.NewClient(cfg)
	bookscl := books.NewClient(cfg)

	// Candidate sources: LLM first, TMDB trending as the degrade path.
	sources := []domain.CandidateSource{
		ai.NewLLMSource(aicl, cfg.PoolSize, cfg.ChatMaxTokens, cfg.PromptTokenBudget),
		tmdb.NewTrendingSource(tmdbcl),
	}

	catalogs := map[domain.MediaType]domain.CatalogProvider{
		domain.MediaMovie: tmdbcl,
		domain.MediaTV:    tmdbcl,
		domain.MediaBook:  bookscl,
	}
	resolvers := map[domain.MediaType]domain.ReferenceResolver{
		domain.MediaMovie: tmdbcl,
		domain.MediaTV:    tmdbcl,
		domain.MediaBook:  bookscl,
	}

	var playlist domain.PlaylistProvider
	if cfg.SpotifyEnabled() {
		playlist = spotify.NewClient(cfg)
	} else {
		slog.Info("spotify credentials not configured; playlist lookup disabled")
	}

	// Usecases
	recSvc := usecase.NewRecommendService(aicl, sources, catalogs, resolvers, playlist, cfg.ProviderTimeout)
	searchSvc := usecase.NewSearchService(catalogs, cfg.ProviderTimeout)

	// HTTP server
	srv := httpserver.NewServer(cfg, recSvc, searchSvc, tmdbcl.Ping)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
