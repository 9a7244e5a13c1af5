// trustcall-directory-service/internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/config"
	"github.com/trustcall/trustcall-directory-service/internal/database"
	"github.com/trustcall/trustcall-directory-service/internal/events"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
	"github.com/trustcall/trustcall-directory-service/internal/metrics"
	"github.com/trustcall/trustcall-directory-service/internal/ratelimit"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
	"github.com/trustcall/trustcall-directory-service/internal/repository/memory"
	"github.com/trustcall/trustcall-directory-service/internal/repository/postgres"
	"github.com/trustcall/trustcall-directory-service/internal/server"
	"github.com/trustcall/trustcall-directory-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Cfg *config.Config
	Log zerolog.Logger

	redis   *redis.Client
	closers []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	return &App{Cfg: cfg, Log: log}
}

// Run wires the service, serves gRPC and the ops endpoints, and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.closeAll()

	// 1. Infrastructure
	repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	store, err := a.openCache(ctx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	publisher := a.openPublisher()

	// 2. Repository -> Service -> Handler
	svc := service.NewDirectoryService(repo, cache.NewReadThrough(store, m), service.Options{
		ScoreTTL:  a.Cfg.ScoreCacheTTL,
		SearchTTL: a.Cfg.SearchCacheTTL,
		Publisher: publisher,
		Recorder:  m,
	}, a.Log)

	var warmer *events.ScoreWarmer
	if a.Cfg.ScoreWarmerEnabled {
		warmer = events.NewScoreWarmer(events.ConsumerConfig{
			Brokers:       a.Cfg.KafkaBrokers,
			Topic:         a.Cfg.KafkaTopic,
			ConsumerGroup: a.Cfg.KafkaGroupID,
		}, svc, a.Log)
		warmer.Start(ctx)
	}

	// 3. Servers
	grpcServer, err := server.NewGrpcServer(svc, a.openLimiter(), a.Cfg, a.Log)
	if err != nil {
		return err
	}
	deps := []dependency{
		{name: "store", ping: repo.Ping},
		{name: "cache", ping: store.Ping},
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Cfg.HttpPort),
		Handler:           newOpsRouter(deps, reg, a.Log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		a.Log.Info().Str("port", a.Cfg.GRPCPort).Msg("gRPC server listening")
		if err := server.Start(grpcServer, a.Cfg.GRPCPort); err != nil {
			errCh <- err
		}
	}()
	go func() {
		a.Log.Info().Str("port", a.Cfg.HttpPort).Msg("HTTP server (health, metrics) listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	// 4. Graceful shutdown
	var runErr error
	select {
	case <-ctx.Done():
		a.Log.Warn().Str("event", logger.EventSystemShutdown).Msg("Shutdown signal received, stopping servers")
	case runErr = <-errCh:
		a.Log.Error().Err(runErr).Msg("Server stopped unexpectedly")
	}
	a.shutdown(grpcServer, httpServer, warmer)
	return runErr
}

func (a *App) openStore(ctx context.Context) (repository.DirectoryRepository, error) {
	if a.Cfg.StoreDriver == config.StoreDriverMemory {
		a.Log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}

	db, err := database.Connect(ctx, a.Cfg.DatabaseURL, a.Cfg.MaxDBRetries, a.Log)
	if err != nil {
		return nil, err
	}
	a.track("postgres", db)
	if a.Cfg.AutoMigrate {
		if err := database.Migrate(db, a.Log); err != nil {
			return nil, err
		}
	}
	return postgres.NewPostgresRepository(db, a.Log), nil
}

func (a *App) openCache(ctx context.Context) (cache.Cache, error) {
	switch a.Cfg.CacheDriver {
	case config.CacheDriverRedis:
		client, err := cache.NewRedisClient(ctx, cache.RedisOptions{URL: a.Cfg.RedisURL})
		if err != nil {
			return nil, err
		}
		r := cache.NewRedis(client, a.Cfg.RedisKeyPrefix)
		a.redis = client
		a.track("redis", r)
		return r, nil
	case config.CacheDriverNone:
		return cache.Noop{}, nil
	default:
		return cache.NewMemory(), nil
	}
}

// openLimiter shares the Redis client when the cache runs on Redis, so every replica counts
// against the same window. Other cache drivers limit per process.
func (a *App) openLimiter() ratelimit.Limiter {
	rule := ratelimit.Rule{Limit: int64(a.Cfg.RateLimitPerWindow), Window: a.Cfg.RateLimitWindow}
	if !rule.Enabled() {
		a.Log.Warn().Msg("Per-requester rate limiting disabled")
		return nil
	}
	if a.redis != nil {
		return ratelimit.NewRedis(a.redis, a.Cfg.RedisKeyPrefix+"ratelimit:", rule)
	}
	return ratelimit.NewMemory(rule)
}

func (a *App) openPublisher() service.EventPublisher {
	if len(a.Cfg.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	p := events.NewProducer(events.ProducerConfig{
		Brokers: a.Cfg.KafkaBrokers,
		Topic:   a.Cfg.KafkaTopic,
	}, a.Log)
	a.track("kafka producer", p)
	return p
}

func (a *App) shutdown(grpcSrv *server.GrpcServer, httpSrv *http.Server, warmer *events.ScoreWarmer) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	server.Stop(grpcSrv)
	a.Log.Info().Msg("gRPC server stopped")

	if err := httpSrv.Shutdown(ctx); err != nil {
		a.Log.Error().Err(err).Msg("HTTP server did not shut down cleanly")
	} else {
		a.Log.Info().Msg("HTTP server stopped")
	}

	if warmer != nil {
		if err := warmer.Stop(); err != nil {
			a.Log.Error().Err(err).Msg("Score warmer did not stop cleanly")
		}
	}
}

func (a *App) track(name string, c io.Closer) {
	a.closers = append(a.closers, namedCloser{name: name, c: c})
}

// closeAll releases resources in reverse acquisition order.
func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.Log.Error().Err(err).Str("resource", nc.name).Msg("Close failed")
		}
	}
	a.closers = nil
	a.Log.Info().Msg("Service stopped")
}
