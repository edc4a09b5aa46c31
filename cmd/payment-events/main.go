package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"dialoom/internal/bookings/consumer"
	"dialoom/internal/bookings/events"
	"dialoom/internal/bookings/pricing"
	"dialoom/internal/bookings/repository"
	"dialoom/internal/bookings/service"
	"dialoom/internal/bookings/validator"
	userrepository "dialoom/internal/users/repository"
	"dialoom/pkg/config"
	"dialoom/pkg/kafka"
	kafka_config "dialoom/pkg/kafka/config"
	kafka_middleware "dialoom/pkg/kafka/middleware"
)

const ServiceName = "payment-events"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("KAFKA_ENABLED must be true for the payment events consumer")
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingsTopic, cfg.KafkaBookingsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewBookingLockRepository(cfg),
		userrepository.NewMongoUserRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		pricing.NewRateCardCalculator(cfg.PriceTolerance),
		events.NewKafkaPublisher(producer, cfg.Log),
		cfg,
	)

	paymentHandler := consumer.NewPaymentHandler(bookingService, cfg.Log)
	paymentConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.KafkaPaymentsTopic,
		cfg.KafkaPaymentsGroupID,
		cfg.KafkaPaymentsDLQTopic,
		paymentHandler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		paymentConsumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		paymentConsumer.Use(metrics.ConsumerMiddleware())
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting payment events consumer",
		"topic", cfg.KafkaPaymentsTopic,
		"group_id", cfg.KafkaPaymentsGroupID,
	)

	if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Payment events consumer stopped", "error", err)
	}

	if err := paymentConsumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Payment events consumer stopped", metrics.Snapshot().LogAttrs()...)
}
