package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sms-gateway/internal/api"
	"sms-gateway/internal/config"
	"sms-gateway/internal/db"
	"sms-gateway/internal/events"
	"sms-gateway/internal/logging"
	"sms-gateway/internal/sms"
	"sms-gateway/internal/store"
	"sms-gateway/pkg/sns"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx := context.Background()

	// User record store
	users, err := store.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.UsersBucket)
	if err != nil {
		logger.Errorf("Failed to init user store: %v", err)
		log.Fatalf("User store init failed: %v", err)
	}

	// SMS sender
	sender, err := sns.New(ctx, cfg.AWS.Region)
	if err != nil {
		logger.Errorf("Failed to init SNS client: %v", err)
		log.Fatalf("SNS client init failed: %v", err)
	}

	// Delivery receipt log, on when a DSN is configured
	var dbConn *db.DB
	if cfg.DB.DSN != "" {
		dbConn, err = db.New(cfg.DB.DSN)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			log.Fatalf("Database connection failed: %v", err)
		}
		defer dbConn.Close()
	}

	// Dispatch event stream, on when a broker is configured
	var producer *events.Producer
	if cfg.Kafka.Broker != "" {
		producer = events.NewProducer(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer producer.Close()
		logger.Infof("Dispatch events on, topic: %s", cfg.Kafka.Topic)
	}

	// Initialize send service
	svc := sms.New(users, sender, dbConn, producer, logger, cfg)

	// Start API server
	handler := api.NewHandler(svc, dbConn, logger)
	router := api.NewRouter(logger, cfg, handler)
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
}
