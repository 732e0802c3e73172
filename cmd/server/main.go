package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/Clark-Hu/movies-catalog/internal/config"
	"github.com/Clark-Hu/movies-catalog/internal/fixture"
	httpserver "github.com/Clark-Hu/movies-catalog/internal/http"
	"github.com/Clark-Hu/movies-catalog/internal/repository"
	"github.com/Clark-Hu/movies-catalog/internal/store"
	"github.com/Clark-Hu/movies-catalog/internal/upstream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.NewHelper(log.DefaultLogger).Fatalf("config error: %v", err)
	}

	logger := log.With(
		log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.ParseLevel(cfg.LogLevel))),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service", "movies-catalog",
	)
	helper := log.NewHelper(logger)

	repo, health, closeBackend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		helper.Fatalf("open %s backend: %v", cfg.Backend, err)
	}
	defer closeBackend()

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			helper.Warnf("redis %s unreachable, reads fall through to the backend: %v", cfg.RedisAddr, err)
		}
		cancel()
		repo = repository.NewCached(repo, rdb, time.Duration(cfg.CacheTTLSecs)*time.Second, logger)
		helper.Infof("caching catalog reads in redis %s", cfg.RedisAddr)
	}

	server := httpserver.New(cfg, repo, health, logger)
	helper.Infof("listening on :%s with the %s backend", cfg.Port, cfg.Backend)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			helper.Errorf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		helper.Errorf("graceful shutdown error: %v", err)
	}
}

// openBackend builds the repository selected by CATALOG_BACKEND together with
// its health check (nil for the in-memory fixture) and a close function.
func openBackend(ctx context.Context, cfg config.Config, logger log.Logger) (*repository.Repository, httpserver.HealthChecker, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if cfg.DBMigrationsDir != "" {
			if err := st.Migrate(dbCtx, cfg.DBMigrationsDir); err != nil {
				st.Close()
				return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		return repository.New(st), st, st.Close, nil

	case config.BackendHTTP:
		client, err := upstream.NewClient(cfg.UpstreamURL, time.Duration(cfg.UpstreamTimeoutSecs)*time.Second, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return upstream.NewRepository(client), client, func() {}, nil

	default:
		catalog, err := fixture.Load(cfg.FixturePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewMemory(catalog), nil, func() {}, nil
	}
}
