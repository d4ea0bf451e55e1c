package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/csvfile"
	"review_analyzer/internal/adapters/feed"
	server "review_analyzer/internal/adapters/http_server"
	"review_analyzer/internal/adapters/observability"
	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/sentiment"
	"review_analyzer/internal/shared"
	"review_analyzer/internal/storage/memory"
	mysqlrepo "review_analyzer/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// the lexicon must be usable before anything is scored
	scorer, err := sentiment.New()
	if err != nil {
		log.Fatal().Err(err).Msg("sentiment scorer unavailable")
	}

	store := memory.New()

	src, closeSrc := datasetSource(cfg)
	if src != nil {
		loader := app.NewLoadService(scorer, store, cfg.LoadWorkers)
		if _, err := loader.Load(ctx, cfg.DatasetSource, src); err != nil {
			log.Fatal().Err(err).Str("source", cfg.DatasetSource).Msg("initial dataset load failed")
		}
	}
	closeSrc()

	// optional query cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; serving without query cache")
		} else {
			cache = rc
		}
	}

	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	in := app.NewIntakeService(scorer, store, clockwork.NewRealClock())

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	var limit *rate.Limiter
	if cfg.SubmitRPS > 0 {
		limit = rate.NewLimiter(rate.Limit(cfg.SubmitRPS), cfg.SubmitBurst)
	}
	srv.MountHandlers(&server.Handlers{Q: q, S: in, SubmitLimit: limit})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Int("reviews", store.Len()).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// datasetSource picks the startup dataset. The returned func releases whatever
// the source opened and is always safe to call.
func datasetSource(cfg shared.Config) (domain.DatasetSource, func()) {
	noop := func() {}
	switch cfg.DatasetSource {
	case "none", "":
		log.Info().Msg("no initial dataset configured")
		return nil, noop
	case "csv":
		return csvfile.New(cfg.DatasetPath), noop
	case "http":
		c, err := feed.New(cfg.DatasetURL, cfg.DatasetKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize dataset feed client")
		}
		return c, noop
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }
	}
	log.Fatal().Str("source", cfg.DatasetSource).Msg("unknown DATASET_SOURCE")
	return nil, noop
}
