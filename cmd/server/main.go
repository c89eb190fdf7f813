// main wires the registration engine: stores, services, outbox pipeline and
// the ops HTTP surface. Business logic lives in the internal packages; this
// file only chooses implementations and manages lifecycle.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"concours/internal/outbox"
	"concours/internal/platform/config"
	"concours/internal/platform/httpserver"
	"concours/internal/platform/logger"
	"concours/internal/platform/metrics"
	"concours/internal/platform/middleware"
	"concours/internal/platform/postgres"
	platformredis "concours/internal/platform/redis"
	"concours/internal/registration/candidates"
	"concours/internal/registration/completion"
	"concours/internal/registration/documents"
	"concours/internal/registration/payments"
	"concours/internal/registration/sequence"
	"concours/internal/session"
	"concours/internal/storage"
	httptransport "concours/internal/transport/http"
)

func main() {
	log := logger.New(slog.LevelInfo)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	m := metrics.New()

	// Store selection: Postgres when configured, memory otherwise.
	var (
		counterStore   sequence.CounterStore
		candidateStore candidates.Store
		documentStore  documents.Store
		paymentStore   payments.Store
		sessionStore   session.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		counterStore = sequence.NewPostgresCounterStore(pool)
		candidateStore = candidates.NewPostgresStore(pool)
		documentStore = documents.NewPostgresStore(pool)
		paymentStore = payments.NewPostgresStore(pool)
		sessionStore = session.NewPostgresStore(pool)
	} else {
		log.Warn("DATABASE_URL not set, using memory stores")
		counterStore = sequence.NewMemoryCounterStore()
		candidateStore = candidates.NewMemoryStore()
		documentStore = documents.NewMemoryStore()
		paymentStore = payments.NewMemoryStore()
		sessionStore = session.NewMemoryStore()
	}

	// Sessions move to Redis when a URL is configured.
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient.Client)
	}

	// Outbox pipeline: queue feeding a worker; Kafka sink when brokers are
	// configured, log sink otherwise.
	queue := outbox.NewQueue(cfg.OutboxBuffer, log, m)
	var sink outbox.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := outbox.NewKafkaSink(cfg.KafkaBrokers, cfg.OutboxTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	} else {
		sink = outbox.NewLogSink(log)
	}
	worker := outbox.NewWorker(queue.Inbox(), sink, log)

	// Engine services.
	allocator := sequence.NewAllocator(counterStore, log, m)
	candidateSvc := candidates.NewService(candidateStore, allocator, log)
	coordinator := completion.NewCoordinator(candidateStore, documentStore, paymentStore, queue, log, m)
	docStore := storage.NewMemory()
	documentSvc := documents.NewService(documentStore, coordinator, docStore, log)
	paymentSvc := payments.NewService(paymentStore, candidateSvc, coordinator, queue, log)
	sessions := session.NewManager(sessionStore, candidateSvc, cfg.SessionTTL, log, m)

	handler := httptransport.NewHandler(candidateSvc, documentSvc, paymentSvc, sessions)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer, middleware.RequestID, middleware.RequestTime)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Mount("/", handler.Routes())

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting concours engine", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		ticker := time.NewTicker(cfg.SessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := sessions.PurgeExpired(ctx); err != nil {
					log.Error("session purge failed", "error", err)
				}
			}
		}
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
