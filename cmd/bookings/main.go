package main

import (
	"dialoom/internal/bookings/events"
	"dialoom/internal/bookings/handler"
	"dialoom/internal/bookings/pricing"
	"dialoom/internal/bookings/repository"
	"dialoom/internal/bookings/service"
	"dialoom/internal/bookings/validator"
	userhandler "dialoom/internal/users/handler"
	userrepository "dialoom/internal/users/repository"
	userservice "dialoom/internal/users/service"
	"dialoom/pkg/app"
	"dialoom/pkg/auth"
	"dialoom/pkg/config"
	"dialoom/pkg/kafka"
	kafka_config "dialoom/pkg/kafka/config"
	kafka_middleware "dialoom/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	if err := cfg.ValidateAuth(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication(cfg)
	publisher := initPublisher(cfg, serverApp)

	userRepo := userrepository.NewMongoUserRepository(cfg)
	userService := userservice.NewUserService(userRepo, cfg.Log)
	bookingService := initBookingService(cfg, userRepo, publisher)

	serverApp.SetApp(
		auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience),
		handler.NewBookingHandler(bookingService, cfg.Log),
		userhandler.NewUserHandler(userService, cfg.Log),
	)
	serverApp.Run()
}

func initBookingService(cfg *config.Config, userRepo userrepository.UserRepository, publisher service.EventPublisher) service.BookingService {
	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewBookingLockRepository(cfg),
		userRepo,
		validator.NewBookingValidator(cfg.Log),
		pricing.NewRateCardCalculator(cfg.PriceTolerance),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initPublisher wires the Kafka producer when enabled. The producer is
// closed after the HTTP server has drained.
func initPublisher(cfg *config.Config, serverApp *app.Application) service.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return events.NewNoopPublisher(cfg.Log)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingsTopic, cfg.KafkaBookingsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
	}

	serverApp.OnShutdown(func() {
		cfg.Log.Info("Kafka producer metrics", metrics.Snapshot().LogAttrs()...)
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka producer initialized", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, cfg.Log)
}
