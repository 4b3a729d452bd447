package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bikeshare-dashboard/config"
	"bikeshare-dashboard/dashboard"
	"bikeshare-dashboard/models"
	"bikeshare-dashboard/services"
	"bikeshare-dashboard/storage"
	"bikeshare-dashboard/utils"
)

const (
	exitFatal  = 1
	exitScoped = 2
)

func main() {
	report := flag.String("report", "", "print one view (seasonal, workday, casual-hourly, registered-clustering) and exit")
	seasons := flag.String("seasons", "", "comma separated season codes, e.g. 1,3 (default: all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open dataset source: %v", err)
		os.Exit(exitFatal)
	}
	defer source.Close()

	gen := services.NewGenerator(
		services.NewLoader(source, logger),
		services.NewFilter(logger),
		cfg.PreviewRows,
		logger,
	)

	if *report != "" {
		os.Exit(runReport(ctx, gen, *report, *seasons, logger))
	}

	if err := serve(ctx, cfg, gen, logger); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(exitFatal)
	}
}

func openSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.DatasetSource, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		retry := &utils.RetryConfig{MaxAttempts: cfg.PingRetries, BaseDelay: time.Second, Logger: logger}
		return storage.NewPostgresSource(ctx, cfg.DSN(), cfg.PostgresTable, retry)
	default:
		return storage.NewCSVSource(cfg.DatasetPath), nil
	}
}

func runReport(ctx context.Context, gen *services.Generator, rawView, rawSeasons string, logger *utils.Logger) int {
	view, err := models.ParseView(rawView)
	if err != nil {
		logger.Error("%v", err)
		return exitFatal
	}
	selected, err := models.ParseSeasons(rawSeasons)
	if err != nil {
		logger.Error("%v", err)
		return exitFatal
	}

	res, err := gen.Run(ctx, services.Request{View: view, Seasons: selected})
	if err != nil {
		logger.Error("Report failed: %v", err)
		return exitFatal
	}
	services.Print(os.Stdout, view, res)
	if res.ViewErr != nil {
		return exitScoped
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, gen *services.Generator, logger *utils.Logger) error {
	var snaps dashboard.Capturer
	if cfg.SnapshotEnabled {
		s := dashboard.NewSnapshotter(cfg, logger)
		if s.Available() {
			snaps = s
		} else {
			logger.Warn("PNG snapshots enabled but no Chrome/Chromium binary was found")
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           dashboard.NewServer(gen, snaps, cfg.EChartsAssetsHost, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("=== Bike sharing dashboard listening on %s ===", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
