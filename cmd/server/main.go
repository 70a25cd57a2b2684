package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"supplierhub/internal/config"
	"supplierhub/internal/infrastructure/kafka"
	"supplierhub/internal/infrastructure/logger"
	"supplierhub/internal/infrastructure/mysql"
	"supplierhub/internal/infrastructure/redis"
	"supplierhub/internal/notification"
	"supplierhub/internal/order"
	"supplierhub/internal/order/events"
	"supplierhub/internal/order/usecase"
	"supplierhub/internal/product"
	"supplierhub/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Kafka.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	var rdb *rd.Client
	if cfg.Idempotency.Backend == config.GuardBackendRedis {
		rdb, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer rdb.Close()
		zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher usecase.TransitionPublisher = events.NopPublisher{}
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, 1024, zapLogger)
		producer.Start()
		publisher = events.NewKafkaPublisher(producer, cfg.Kafka.ServiceName)
	}

	stockSvc := product.NewModule(db, cfg, zapLogger)
	dispatcher := notification.NewModule(db, cfg, zapLogger)

	orderModule, err := order.NewModule(db, cfg, zapLogger, rdb, stockSvc, dispatcher, publisher)
	if err != nil {
		zapLogger.Fatal("wiring order module", zap.Error(err))
	}

	router := server.NewRouter(orderModule, zapLogger)
	srv := server.New(cfg.Server, router, zapLogger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, cfg.Kafka.Workers, zapLogger)
		g.Go(func() error {
			zapLogger.Info("change feed consumer started",
				zap.String("topic", cfg.Kafka.Topic),
				zap.String("groupId", cfg.Kafka.GroupID),
				zap.Int("workers", cfg.Kafka.Workers),
			)
			return consumer.Start(gctx, orderModule.EventHandler.Handle)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("server stopped with error", zap.Error(err))
	}

	if producer != nil {
		producer.Close()
	}

	zapLogger.Info("server stopped gracefully")
}
