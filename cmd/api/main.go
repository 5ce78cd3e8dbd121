package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // business timezone must resolve in scratch images

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fastprodman/finrecon/internal/api"
	"github.com/fastprodman/finrecon/internal/events"
	"github.com/fastprodman/finrecon/internal/infra/logging"
	"github.com/fastprodman/finrecon/internal/infra/pgutils"
	"github.com/fastprodman/finrecon/internal/jobs"
	"github.com/fastprodman/finrecon/internal/metrics"
	"github.com/fastprodman/finrecon/internal/services/recon"
	"github.com/fastprodman/finrecon/internal/snapshotcache"
	"github.com/fastprodman/finrecon/pkg/envconf"
	"github.com/fastprodman/finrecon/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

//nolint:funlen
func run(ctx context.Context) (retErr error) {
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.SetupJSON(cfg.LogLevel, "finrecon-api")

	loc, err := cfg.location()
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("postgres", func(context.Context) error {
		return db.Close()
	})

	cache := openCache(ctx, cfg, logger)
	pub := openPublisher(cfg, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	// --- Engine ---
	svc := newReconService(db, cfg, logger)

	runner, err := jobs.NewRunner(svc, cache, pub, rec, jobs.RunnerConfig{
		Presets:    cfg.Recon.Presets,
		Location:   loc,
		RunTimeout: cfg.Recon.RunTimeout,
	}, logger.With("component", "runner"))
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}

	sched := jobs.NewScheduler(runner, cfg.Recon.Schedule, logger.With("component", "scheduler"))

	err = sched.Start(ctx)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	shutdownqueue.Add("scheduler", sched.Stop)

	// --- HTTP server ---
	h := api.NewHandler(runner, svc, loc, logger.With("component", "http"))
	srv := api.NewServer(cfg.Port, api.NewRouter(h, api.RouterConfig{
		AllowedOrigins: cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Gatherer:       reg,
	}))

	shutdownqueue.Add("http", func(c context.Context) error {
		logger.Info("shutting down http server")

		return srv.Shutdown(c)
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	logger.Info("api started", "port", cfg.Port, "presets", cfg.Recon.Presets)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func newReconService(db *sql.DB, cfg *apiConfig, logger *slog.Logger) *recon.ReconService {
	src := recon.NewPostgresSource(db, pgutils.Page{Size: cfg.Recon.PageSize, MaxRows: cfg.Recon.MaxRows})

	return recon.New(src,
		recon.WithWorkers(cfg.Recon.Workers),
		recon.WithLogger(logger.With("component", "recon")),
	)
}

// openCache prefers Redis and falls back to process memory when Redis is
// not configured or not reachable.
func openCache(ctx context.Context, cfg *apiConfig, logger *slog.Logger) snapshotcache.Cache {
	if cfg.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory snapshot cache")
		return snapshotcache.NewMemory()
	}

	rc, err := snapshotcache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory snapshot cache", "addr", cfg.Redis.Addr, "error", err)
		return snapshotcache.NewMemory()
	}

	shutdownqueue.Add("redis", func(context.Context) error {
		return rc.Close()
	})

	return rc
}

func openPublisher(cfg *apiConfig, logger *slog.Logger) events.Publisher {
	if cfg.AMQP.URL == "" {
		logger.Info("AMQP_URL not set, alert events are logged only")
		return events.NewLogPublisher(logger)
	}

	p, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		logger.Warn("rabbitmq unavailable, alert events are logged only", "error", err)
		return events.NewLogPublisher(logger)
	}

	shutdownqueue.Add("amqp", func(context.Context) error {
		return p.Close()
	})

	return p
}
