package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string // пусто = история матчей выключена

	RedisAddr     string // пусто = rate limiter выключен
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	AllowedOrigin string

	// правила матча и косметические задержки между переходами
	TargetScore int
	TrickDelay  time.Duration
	HandDelay   time.Duration
}

// Load читает .env (если есть) и окружение; для всего есть дефолты,
// сервер поднимается без единой переменной
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		TargetScore:   getEnvInt("TARGET_SCORE", 12),
		TrickDelay:    getEnvDuration("TRICK_DELAY_MS", 2000),
		HandDelay:     getEnvDuration("HAND_DELAY_MS", 2000),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
