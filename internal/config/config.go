package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	AWS struct {
		Region      string
		UsersBucket string
	}
	API struct {
		Port     string
		BasePath string
	}
	SMS struct {
		MessageTag      string
		AllowedPrefixes []string
	}
	DB struct {
		DSN string
	}
	Kafka struct {
		Broker string
		Topic  string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// AWS settings
	cfg.AWS.Region = os.Getenv("AWS_REGION")
	cfg.AWS.UsersBucket = os.Getenv("USERS_BUCKET")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// SMS settings
	cfg.SMS.MessageTag = os.Getenv("SMS_MESSAGE_TAG")
	for _, p := range strings.Split(os.Getenv("SMS_ALLOWED_PREFIXES"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.SMS.AllowedPrefixes = append(cfg.SMS.AllowedPrefixes, p)
		}
	}

	// Optional delivery receipt log
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// Optional dispatch event stream
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")

	// Logging settings
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.AWS.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if cfg.AWS.UsersBucket == "" {
		missing = append(missing, "USERS_BUCKET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if !strings.HasPrefix(cfg.API.Port, ":") {
		cfg.API.Port = ":" + cfg.API.Port
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.SMS.MessageTag == "" {
		cfg.SMS.MessageTag = "[Navi.AI]"
	}
	if len(cfg.SMS.AllowedPrefixes) == 0 {
		cfg.SMS.AllowedPrefixes = []string{"+8210", "+82010"}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "sms_dispatch"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
