package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/magicletters/internal/client/cli"
	"github.com/dmitrijs2005/magicletters/internal/client/client"
	"github.com/dmitrijs2005/magicletters/internal/client/config"
	"github.com/dmitrijs2005/magicletters/internal/client/store"
	"github.com/dmitrijs2005/magicletters/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	logger := logging.New(os.Stderr, cfg.LogLevel)

	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
}

// run opens the local store last, so it is closed on every return path.
func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	opts := []client.Option{
		client.WithTimeout(cfg.RequestTimeout),
		client.WithPaths(cfg.PullPath, cfg.PushPath),
	}
	if cfg.APISecret != "" {
		opts = append(opts, client.WithSecret(cfg.APISecret))
	}
	api, err := client.NewHTTPClient(cfg.ServerBaseURL, opts...)
	if err != nil {
		return fmt.Errorf("create remote client: %w", err)
	}

	st, err := store.OpenDir(ctx, cfg.DataDir, cfg.DBFile,
		store.WithLogger(logger),
		store.WithStrictIntegrity(cfg.StrictMigrations))
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer st.Close()

	cli.NewApp(cfg, st.DB(), api, logger).Run(ctx)
	return nil
}
