package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/api"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/config"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/consumer"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/metrics"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/normalizer"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/publisher"
)

const serviceName = "incident-normalizer"

func main() {
	// Parse command-line flags (env vars provide deployment defaults)
	cfg := &config.Config{}
	flag.StringVar(&cfg.KafkaBrokers, "kafka-brokers", config.GetEnvOrDefault("KAFKA_BROKERS", "localhost:9092"), "Kafka broker addresses (comma-separated)")
	flag.StringVar(&cfg.AlertsTopic, "alerts-topic", config.GetEnvOrDefault("ALERTS_TOPIC", "alerts.notifications"), "Kafka topic for raw alert notifications")
	flag.StringVar(&cfg.ConsumerGroupID, "consumer-group-id", config.GetEnvOrDefault("CONSUMER_GROUP_ID", "incident-normalizer-group"), "Kafka consumer group ID")
	flag.StringVar(&cfg.Channel, "channel", os.Getenv("INCIDENT_CHANNEL"), "Destination channel for incident events (SNS topic ARN or Kafka topic)")
	flag.StringVar(&cfg.FallbackService, "fallback-service", config.GetEnvOrDefault("FALLBACK_SERVICE", "DocStorageService"), "Service name substituted when an alert has no service label")
	flag.StringVar(&cfg.EmitterService, "emitter-service", config.GetEnvOrDefault("EMITTER_SERVICE", serviceName), "Service identifier stamped on outbound incident events")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for metrics reporting (empty disables metrics)")
	flag.StringVar(&cfg.ListenAddr, "listen-addr", config.GetEnvOrDefault("LISTEN_ADDR", ":8080"), "HTTP listen address for health/metrics (empty disables)")
	flag.Parse()

	// Set up structured logging
	// Allow DEBUG level via environment variable for troubleshooting
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "DEBUG" || os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting incident-normalizer service",
		"kafka_brokers", cfg.KafkaBrokers,
		"alerts_topic", cfg.AlertsTopic,
		"consumer_group_id", cfg.ConsumerGroupID,
		"channel", cfg.Channel,
		"fallback_service", cfg.FallbackService,
		"emitter_service", cfg.EmitterService,
	)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Initialize metrics (optional, Redis-backed)
	var recorder metrics.Recorder = metrics.NewNoOp()
	var collector *metrics.Collector
	if cfg.RedisAddr != "" {
		redisClient, err := metrics.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			slog.Info("Tip: Start Redis with 'docker compose up -d redis' or unset -redis-addr")
			os.Exit(1)
		}
		defer redisClient.Close()

		collector = metrics.NewCollector(serviceName, redisClient)
		collector.Start(ctx)
		defer collector.Stop()
		recorder = metrics.NewCollectorAdapter(collector)
		slog.Info("Metrics reporting enabled", "redis_addr", cfg.RedisAddr)
	}

	// Initialize Kafka consumer
	slog.Info("Connecting to Kafka consumer", "topic", cfg.AlertsTopic)
	kafkaConsumer, err := consumer.NewConsumer(cfg.KafkaBrokers, cfg.AlertsTopic, cfg.ConsumerGroupID)
	if err != nil {
		slog.Error("Failed to create Kafka consumer", "error", err)
		slog.Info("Tip: Start Kafka with 'docker compose up -d kafka'")
		os.Exit(1)
	}
	defer kafkaConsumer.Close()
	slog.Info("Successfully connected to Kafka consumer")

	// Initialize outbound publisher (SNS topic ARN or Kafka topic)
	incidentPublisher, err := publisher.New(ctx, cfg.Channel, cfg.KafkaBrokers)
	if err != nil {
		slog.Error("Failed to create incident publisher", "error", err)
		os.Exit(1)
	}
	defer incidentPublisher.Close()

	// Initialize the normalizer
	norm := normalizer.New(normalizer.Options{
		FallbackService: cfg.FallbackService,
		EmitterService:  cfg.EmitterService,
	})

	// Start the health/metrics HTTP API
	if cfg.ListenAddr != "" {
		apiServer := api.NewServer(cfg.ListenAddr, collector)
		apiServer.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := apiServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP API shutdown failed", "error", err)
			}
		}()
	}

	// Main processing loop
	slog.Info("Starting alert processing loop")
	if err := processAlerts(ctx, kafkaConsumer, norm, incidentPublisher, recorder); err != nil {
		slog.Error("Alert processing failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Incident-normalizer service stopped")
}
