package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"protrader/analyzer"
	"protrader/config"
	"protrader/internal/api"
	"protrader/internal/app"
	"protrader/observability"
	"protrader/repository"
	"protrader/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		observability.Info("no .env file found, using environment variables")
	}

	production := os.Getenv("ENV") == "production"
	observability.InitLogger(production)
	observability.InitMetrics()

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database is optional: without it the service runs uncached and the
	// watchlist lives in memory only.
	var repo *repository.Repository
	if cfg.HasDatabase() {
		repo, err = repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("failed to initialize database, running without cache", "error", err)
			repo = nil
		} else if err := repo.EnsureSchema(ctx); err != nil {
			observability.Warn("failed to ensure schema, running without cache", "error", err)
			repo.Close()
			repo = nil
		}
	} else {
		observability.Info("DATABASE_URL not set, running without cache or persistence")
	}

	if repo != nil {
		go cleanCacheLoop(ctx, repo, cfg.Cache.CleanupInterval)
	}

	yahoo := services.NewYahooService(cfg.Market)
	fetcher := services.NewFetcher(yahoo, cfg.Market, cfg.Analysis)

	var llm services.LLMService
	if cfg.HasGemini() {
		gemini, err := services.NewGeminiService(cfg)
		if err != nil {
			observability.Warn("failed to initialize text generation, AI summaries disabled", "error", err)
		} else {
			llm = gemini
		}
	} else {
		observability.Info("GOOGLE_API_KEY not set, AI summaries disabled")
	}

	summarizer := analyzer.NewSummarizer(llm, yahoo, cfg.Analysis.NewsHeadlines)

	var cache analyzer.SeriesCache
	if repo != nil {
		cache = repo
	}
	an := analyzer.New(fetcher, summarizer, cache, cfg)

	var appRepo app.RepositoryInterface
	if repo != nil {
		appRepo = repo
	}
	application := app.New(cfg, appRepo, an)
	application.Startup(ctx)

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		observability.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	observability.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Error("graceful shutdown failed", "error", err)
	}
	application.Shutdown(shutdownCtx)
}

// cleanCacheLoop periodically purges expired cache rows
func cleanCacheLoop(ctx context.Context, repo *repository.Repository, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.CleanExpiredCache(ctx)
			if err != nil {
				observability.Warn("cache cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				observability.Info("purged expired cache entries", "deleted", deleted)
			}
		}
	}
}
