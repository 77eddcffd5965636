// Command phonetics fills missing phonetic transcriptions in the lexicon
// file from Wiktionary and writes the file back in place.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/vytor/wortdrill/internal/config"
	"github.com/vytor/wortdrill/internal/lexicon"
	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/phonetics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	path := flag.String("lexicon", cfg.LexiconPath, "lexicon JSON file to update")
	workers := flag.Int("workers", cfg.PhoneticsWorkers, "concurrent lookups")
	delay := flag.Duration("delay", cfg.PhoneticsDelay, "pause after each request per worker")
	flag.Parse()

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)), logger.WithColors(true))
	logger.SetDefault(log)

	if !strings.EqualFold(filepath.Ext(*path), ".json") {
		log.Error("phonetics can only update JSON lexicons, got %s", *path)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	words, err := lexicon.Load(ctx, *path)
	if err != nil {
		log.Error("failed to load lexicon: %v", err)
		os.Exit(1)
	}

	save := func(ws []models.Word) error { return lexicon.Save(*path, ws) }
	f := phonetics.NewFetcher(
		phonetics.NewClient(cfg.PhoneticsBaseURL),
		save,
		phonetics.WithWorkers(*workers),
		phonetics.WithDelay(*delay),
	)

	_, sum, err := f.Run(ctx, words)
	log.Info("success=%d skipped=%d failed=%d total=%d", sum.Success, sum.Skipped, sum.Failed, sum.Total)
	if err != nil {
		log.Error("phonetics run stopped: %v", err)
		os.Exit(1)
	}
}
