package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/config"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/logging"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/media"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/middleware"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/music"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/playlist"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/users"
)

const posterFolder = "playlist-posters"

func setup(cmd *cli.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetGlobal(logger)
	return cfg, logger, nil
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}

	pool, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := playlist.AutoMigrate(ctx, pool); err != nil {
		return err
	}
	logger.Info().Msg("schema up to date")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := playlist.AutoMigrate(ctx, pool); err != nil {
			return err
		}
	}

	uploader, err := newUploader(cfg, logger)
	if err != nil {
		return err
	}

	var opts []playlist.Option
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, events will be dropped until it recovers")
		}
		opts = append(opts, playlist.WithEvents(rdb))
	}
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		opts = append(opts, playlist.WithCreateLimit(limiter.Middleware))
	}

	srv := playlist.NewServer(
		playlist.NewPostgresStore(pool),
		users.NewClient(cfg.UserServiceURL, cfg.UpstreamTimeout),
		music.NewClient(cfg.MusicServiceURL, cfg.UpstreamTimeout),
		uploader,
		opts...,
	)

	httpServer := &http.Server{
		Addr: cfg.Addr(),
		Handler: srv.Router(
			chimw.RealIP,
			middleware.RequestLogging(logger),
			middleware.Recovery(),
			middleware.BodySizeLimit(cfg.MaxBodyBytes),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("playlist-service listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down playlist-service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("playlist-service exited")
	return nil
}

// newUploader prefers direct Cloudinary uploads and falls back to a media
// service over HTTP.
func newUploader(cfg config.Config, logger zerolog.Logger) (media.Uploader, error) {
	if cfg.CloudinaryURL != "" {
		return media.NewCloudinary(cfg.CloudinaryURL, posterFolder)
	}
	return media.NewHTTPUploader(cfg.MediaServiceURL, logger), nil
}
