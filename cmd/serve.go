package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waste-service/internal/model"
	"waste-service/internal/server"
	"waste-service/pkg/cache"
	"waste-service/pkg/config"
	"waste-service/pkg/database"
	"waste-service/pkg/media"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	defer log.Sync() //nolint:errcheck

	if err := database.MigrateModels(db, model.All()...); err != nil {
		return err
	}
	log.Info("Database migrations applied")

	snapshots, closeCache, err := openSnapshotCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	uploader, closeUploader, err := openUploader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeUploader()

	e := server.New(cfg, server.Dependencies{
		DB:        db,
		Uploader:  uploader,
		Snapshots: snapshots,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openSnapshotCache connects Redis when the dashboard cache is configured
func openSnapshotCache(ctx context.Context, cfg *config.Config) (cache.SnapshotCache, func(), error) {
	if !cfg.Cache.Enabled() {
		return cache.Noop{}, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		return nil, func() {}, err
	}
	return cache.NewRedisSnapshotCache(client, cfg.Cache.DashboardTTL), func() { _ = client.Close() }, nil
}

// openUploader builds the object storage uploader when a bucket is configured
func openUploader(ctx context.Context, cfg *config.Config) (media.Uploader, func(), error) {
	if cfg.Media.Bucket == "" {
		return media.Disabled{}, func() {}, nil
	}

	uploader, err := media.NewGCSUploader(ctx, cfg.Media.Bucket, cfg.Media.CredentialsFile, cfg.Server.UploadTimeout)
	if err != nil {
		return nil, func() {}, err
	}
	return uploader, func() { _ = uploader.Close() }, nil
}
