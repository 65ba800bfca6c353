package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"kitchensink/internal/member"
	"kitchensink/internal/member/events"
	membermetrics "kitchensink/internal/member/metrics"
	"kitchensink/internal/member/service"
	"kitchensink/internal/member/store"
	"kitchensink/internal/platform/config"
	"kitchensink/internal/platform/httpserver"
	"kitchensink/internal/platform/logger"
	"kitchensink/internal/platform/metrics"
	"kitchensink/internal/platform/mongo"
	"kitchensink/internal/platform/redis"
	"kitchensink/internal/sequence"
	httptransport "kitchensink/internal/transport/http"
	"kitchensink/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// storage is the member store together with the surfaces bootstrap needs.
type storage interface {
	service.MemberStore
	member.SeedStore
}

type generator interface {
	service.SequenceGenerator
	member.SeedSequence
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	memberMetrics := membermetrics.New(reg)

	health := make(map[string]httptransport.HealthChecker)

	var members storage
	var ids generator
	mongoClient, err := mongo.New(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if mongoClient != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = mongoClient.Close(closeCtx)
		}()
		members = store.NewMongo(mongoClient.DB)
		ids = sequence.NewMongo(mongoClient.DB)
		health["mongo"] = mongoClient
		log.Info("using mongo member store", "database", cfg.Mongo.Database)
	} else {
		members = store.NewInMemory()
		ids = sequence.NewInMemory()
		log.Warn("MONGO_URI not set, using in-memory member store")
	}

	observers := []events.Observer{events.NewLogObserver(log)}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		observers = append(observers, guarded(events.NewRedisPublisher(redisClient.Client, cfg.Redis.Channel)))
		health["redis"] = redisClient
		log.Info("publishing registrations to redis", "channel", cfg.Redis.Channel)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			return fmt.Errorf("create kafka client: %w", err)
		}
		defer kafkaClient.Close()
		observers = append(observers, guarded(events.NewKafkaPublisher(kafkaClient, cfg.Kafka.Topic)))
		log.Info("publishing registrations to kafka", "topic", cfg.Kafka.Topic)
	}

	dispatcher := events.NewDispatcher(cfg.EventBufferSize, observers,
		events.WithLogger(log),
		events.WithMetrics(memberMetrics),
		events.WithDrainTimeout(shutdownTimeout),
	)

	svc := member.NewService(members, ids,
		service.WithLogger(log),
		service.WithMetrics(memberMetrics),
		service.WithPublisher(dispatcher),
	)

	if err := member.Bootstrap(ctx, members, ids, svc, cfg.SeedDefaultMember, log); err != nil {
		return fmt.Errorf("bootstrap members: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Health:         health,
		Modules:        []httptransport.RouteRegistrar{member.NewHandler(svc, log)},
	})
	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	// The dispatcher stops only after the server has drained.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(dispatchCtx)
	})
	g.Go(func() error {
		log.Info("starting kitchensink", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer stopDispatch()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// guarded wraps a remote observer in a circuit breaker.
func guarded(o events.Observer) events.Observer {
	return events.NewGuardedObserver(o, circuit.New(o.Name()))
}
