package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Feed   FeedConfig
	JWT    JWTConfig
	Kafka  KafkaConfig
	MinIO  MinIOConfig
	SMTP   SMTPConfig
	Outbox OutboxConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Driver string // mysql, postgres or sqlite
	DSN    string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type FeedConfig struct {
	PageSize             int
	CacheTTL             time.Duration
	EnforceEditOwnership bool
}

type JWTConfig struct {
	Secret string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type MinIOConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type OutboxConfig struct {
	Interval  time.Duration
	BatchSize int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "mysql"),
			DSN:    getEnv("DB_DSN", "user:password@tcp(127.0.0.1:3306)/yatube?charset=utf8mb4&parseTime=True"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Feed: FeedConfig{
			PageSize:             getEnvAsInt("FEED_PAGE_SIZE", 10),
			CacheTTL:             getEnvAsDuration("FEED_CACHE_TTL", 20*time.Second),
			EnforceEditOwnership: getEnvAsBool("ENFORCE_EDIT_OWNERSHIP", true),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsList("KAFKA_BROKERS", []string{"127.0.0.1:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "yatube.social"),
		},
		MinIO: MinIOConfig{
			Enabled:   getEnvAsBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "yatube"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "yatube_secret"),
			Bucket:    getEnv("MINIO_BUCKET", "posts"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Enabled:  getEnvAsBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Yatube <no-reply@example.com>"),
		},
		Outbox: OutboxConfig{
			Interval:  getEnvAsDuration("OUTBOX_INTERVAL", time.Second),
			BatchSize: getEnvAsInt("OUTBOX_BATCH_SIZE", 200),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
