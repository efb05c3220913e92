package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/maxviazov/users-admin/internal/config"
	"github.com/maxviazov/users-admin/internal/handler"
	"github.com/maxviazov/users-admin/internal/httpclient"
	"github.com/maxviazov/users-admin/internal/logger"
	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/repository"
	"github.com/maxviazov/users-admin/internal/repository/cache"
	"github.com/maxviazov/users-admin/internal/repository/remote"
	"github.com/maxviazov/users-admin/internal/service"
)

const (
	readHeaderTimeout      = 5 * time.Second
	defaultShutdownTimeout = 15 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	zlog.Logger = appLogger

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, appLogger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// every failed upstream call lands in the inbox of the request being served and in the log
	notifier := notify.Multi{notify.ContextInbox{}, notify.NewLog(appLogger)}

	opts := []httpclient.Option{
		httpclient.WithNotifier(notifier),
		httpclient.WithLogger(appLogger),
	}
	if cfg.Upstream.RateLimit > 0 {
		burst := max(cfg.Upstream.Burst, 1)
		opts = append(opts, httpclient.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Upstream.RateLimit), burst)))
	}
	client := httpclient.New(httpclient.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, opts...)

	users, closeRepo := composeRepository(ctx, cfg, client, appLogger)
	defer closeRepo()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine, handler.Deps{
		Users:          service.NewUserService(users, appLogger),
		Pinger:         remote.NewPinger(client),
		PageSizes:      cfg.Pagination.PageSizes,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         appLogger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	appLogger.Info().
		Str("addr", srv.Addr).
		Str("upstream", client.BaseURL()).
		Bool("cache", cfg.Redis.Enabled).
		Msg("HTTP server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
	}

	timeout := cfg.App.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	appLogger.Info().Dur("timeout", timeout).Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// composeRepository layers the Redis cache over the remote repository when enabled.
// An unreachable Redis is logged and kept: the cache falls back to the upstream per call.
func composeRepository(ctx context.Context, cfg *config.Config, client *httpclient.Client, l zerolog.Logger) (repository.UserRepository, func()) {
	var users repository.UserRepository = remote.NewUserRepository(client)
	if !cfg.Redis.Enabled {
		return users, func() {}
	}

	rdb, closeRedis := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		l.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis not reachable, serving from upstream until it is")
	}

	users = cache.NewUserCaching(users, rdb, cfg.Redis.TTL, l)
	return users, func() {
		if err := closeRedis(); err != nil {
			l.Error().Err(err).Msg("closing redis")
		}
	}
}
