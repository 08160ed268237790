package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	out := flag.String("out", "", "snapshot path (overrides index.snapshotPath)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *out != "" {
		cfg.Index.SnapshotPath = *out
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting index build",
		"source", cfg.Corpus.Source,
		"dir", cfg.Corpus.Dir,
		"stemmer", cfg.Corpus.Stemmer,
		"snapshot", cfg.Index.SnapshotPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := indexer.NewEngine(cfg, nil)
	idx, err := engine.Build(ctx)
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
	if err := engine.Flush(idx); err != nil {
		slog.Error("writing snapshot failed", "error", err)
		os.Exit(1)
	}
	if err := engine.Verify(idx); err != nil {
		slog.Error("snapshot verification failed", "error", err)
		os.Exit(1)
	}
	slog.Info("indexer finished", "fingerprint", indexer.Fingerprint(idx))
}
