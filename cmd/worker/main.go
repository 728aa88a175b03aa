package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/persistence"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devconnector-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Worker Use Case
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	profileCache := persistence.NewRedisProfileCache(redisClient, cfg.Redis.ProfileTTL)
	processProfileEventUC := profileUC.NewProcessProfileEventUseCase(profileRepo, profileCache, appLogger)

	// Kafka Consumer
	profileConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer profileConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := profileConsumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		log := appLogger.With(zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		payload, err := event.DecodeProfileEvent(msg)
		if err != nil {
			log.Error("Skipping undecodable event", err)
			commitMessage(ctx, profileConsumer, msg, log)
			continue
		}

		if err := processProfileEventUC.Execute(ctx, payload); err != nil {
			log.Error("Failed to process profile event", err, zap.String("event_type", string(payload.Type)))
			continue
		}

		commitMessage(ctx, profileConsumer, msg, log)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
