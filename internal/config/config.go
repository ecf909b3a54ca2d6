package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Chat     ChatConfig
	Snapshot SnapshotConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	StateChangedTopic  string
}

type ChatConfig struct {
	MessageCap     int
	MessageMaxLen  int
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	PresenceTTL    time.Duration
	TypingTTL      time.Duration
	HashIterations int
}

type SnapshotConfig struct {
	Provider    string // "redis", "s3" or "none"
	Interval    time.Duration
	RedisURL    string
	RedisKey    string
	S3Bucket    string
	S3Key       string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			StateChangedTopic:  getEnv("STATE_CHANGED_TOPIC_NAME", "STATE_CHANGED"),
		},
		Chat: ChatConfig{
			MessageCap:     getEnvAsInt("MESSAGE_CAP", 100),
			MessageMaxLen:  getEnvAsInt("MESSAGE_MAX_LEN", 500),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SweepInterval:  getEnvAsDuration("SWEEP_INTERVAL", 30*time.Second),
			PresenceTTL:    getEnvAsDuration("PRESENCE_TTL", 120*time.Second),
			TypingTTL:      getEnvAsDuration("TYPING_TTL", 10*time.Second),
			HashIterations: getEnvAsInt("HASH_ITERATIONS", 120000),
		},
		Snapshot: SnapshotConfig{
			Provider:    getEnv("SNAPSHOT_PROVIDER", "redis"),
			Interval:    getEnvAsDuration("SNAPSHOT_INTERVAL", 5*time.Minute),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			RedisKey:    getEnv("SNAPSHOT_REDIS_KEY", "chatroom:snapshot"),
			S3Bucket:    getEnv("SNAPSHOT_S3_BUCKET", "chatroom"),
			S3Key:       getEnv("SNAPSHOT_S3_KEY", "snapshots/latest.json"),
			S3Region:    getEnv("SNAPSHOT_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("SNAPSHOT_S3_ENDPOINT", ""),
			S3AccessKey: getEnv("SNAPSHOT_S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("SNAPSHOT_S3_SECRET_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
