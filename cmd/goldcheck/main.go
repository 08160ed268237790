package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/gold"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	goldPath := flag.String("gold", "", "gold query file (overrides gold.file)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *goldPath != "" {
		cfg.Gold.File = *goldPath
	}
	if cfg.Gold.File == "" {
		fmt.Fprintln(os.Stderr, "no gold file: set gold.file or pass -gold")
		os.Exit(2)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cases, err := gold.ParseFile(cfg.Gold.File)
	if err != nil {
		slog.Error("reading gold file failed", "error", err)
		os.Exit(1)
	}
	idx, err := indexer.NewEngine(cfg, nil).Load(ctx)
	if err != nil {
		slog.Error("loading index failed", "error", err)
		os.Exit(1)
	}
	exec := executor.New(query.NewEngine(idx, query.Options{MaxBooleanTerms: cfg.Search.MaxBooleanTerms}), nil)

	report, err := gold.Run(ctx, exec, cases)
	if err != nil {
		slog.Error("gold run interrupted", "error", err)
		os.Exit(1)
	}
	if err := report.Write(os.Stdout); err != nil {
		slog.Error("writing report failed", "error", err)
		os.Exit(1)
	}
	if report.Passed != report.Total {
		os.Exit(1)
	}
}
