package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN     string
	RedisAddr string

	JWTSecret string

	// Seat-hold behaviour
	ReservationTTL time.Duration
	SweepInterval  time.Duration

	// Availability display cache
	AvailabilityTTL time.Duration
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/bookutu?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	return Env{
		AppAddr:         appAddr,
		GinMode:         ginMode,
		DBDSN:           dsn,
		RedisAddr:       redisAddr,
		JWTSecret:       secret,
		ReservationTTL:  envDuration("RESERVATION_TTL", 15*time.Minute),
		SweepInterval:   envDuration("SWEEP_INTERVAL", 2*time.Minute),
		AvailabilityTTL: envDuration("AVAILABILITY_TTL", 30*time.Second),
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
