// Package main запускает консольную кассу магазина.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/convenience-store/internal/config"
	"github.com/mmeshcher/convenience-store/internal/console"
	"github.com/mmeshcher/convenience-store/internal/inventory"
	"github.com/mmeshcher/convenience-store/internal/repository"
	"github.com/mmeshcher/convenience-store/internal/service"
)

type catalogSource interface {
	Load(ctx context.Context) (*repository.Catalog, error)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger initialization error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var src catalogSource
	switch {
	case cfg.DatabaseURI != "":
		repo, err := repository.NewPostgresCatalog(ctx, cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		defer repo.Close()
		src = repo
	case cfg.CatalogFile != "":
		src = repository.NewYAMLCatalog(cfg.CatalogFile)
	default:
		src = repository.NewFileCatalog(cfg.ProductsFile, cfg.PromotionsFile)
	}

	records, err := src.Load(ctx)
	if err != nil {
		sugar.Fatalw("catalog loading error", "error", err.Error())
	}

	catalog, err := inventory.NewCatalog(records.Products, records.Promotions)
	if err != nil {
		sugar.Fatalw("catalog validation error", "error", err.Error())
	}

	svc := service.NewService(catalog, logger)
	con := console.New(svc, os.Stdin, os.Stdout, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer stop()
		sugar.Infow("checkout counter opened", "products", len(records.Products))
		if err := con.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("console error: %w", err)
		}
		return nil
	})

	// Завершение по сигналу или после ухода последнего покупателя
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("checkout counter closed")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
