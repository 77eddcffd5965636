package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/wortdrill/internal/api"
	"github.com/vytor/wortdrill/internal/config"
	"github.com/vytor/wortdrill/internal/lexicon"
	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/noun"
	"github.com/vytor/wortdrill/internal/progress"
	"github.com/vytor/wortdrill/internal/repository"
	"github.com/vytor/wortdrill/internal/repository/engine"
	"github.com/vytor/wortdrill/internal/scheduler"
	"github.com/vytor/wortdrill/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Wortdrill Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("lexicon_path=%s", cfg.LexiconPath)
	log.Debug("store_engine=%s store_path=%s", cfg.StoreEngine, cfg.StorePath)
	log.Debug("log_level=%s timezone=%s", cfg.LogLevel, cfg.Timezone)
	log.Debug("daily_goal=%d stats_retention_days=%d", cfg.DailyGoal, cfg.StatsRetentionDays)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Wortdrill Server Stopped")
	log.Info("===========================================")
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	words, err := lexicon.Load(ctx, cfg.LexiconPath)
	if err != nil {
		return err
	}
	log.Info("loaded %d words from %s", len(words), cfg.LexiconPath)

	kv := openStore(ctx, cfg, log)
	if kv != nil {
		defer func() {
			log.Debug("closing progress store")
			if err := kv.Close(); err != nil {
				log.Warn("failed to close progress store: %v", err)
			}
		}()
	}
	store := progress.New(kv, progress.WithLocation(loc))

	lex := services.NewLexiconService(words, noun.NewParser())
	stats := services.NewStatsService(lex, store, cfg.DailyGoal)
	defer stats.Close()

	srv := &api.Server{
		Lexicon:  lex,
		Quiz:     services.NewQuizService(lex, store),
		Stats:    stats,
		Progress: store,
	}

	sched := scheduler.New(store, cfg.StatsRetentionDays, loc)
	if store.Available() {
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore opens the configured backend. On failure the server keeps
// running without persistence.
func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) repository.KVStore {
	kv, err := engine.Open(ctx, cfg.StoreEngine, cfg.StorePath)
	if err != nil {
		log.Error("failed to open %s store at %s, progress will not be saved: %v", cfg.StoreEngine, cfg.StorePath, err)
		return nil
	}
	return kv
}
