package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	CountryCode string

	HoldTTL           time.Duration
	HoldSweepInterval time.Duration

	DayStartHour int
	DayEndHour   int

	RateLimitPerMinute         int
	RateLimitBurst             int
	InstanceRateLimitPerMinute int
	InstanceRateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	countryCode := os.Getenv("COUNTRY_CODE")
	if countryCode == "" {
		countryCode = "55"
	}

	return Config{
		Port:                       port,
		DatabaseURL:                os.Getenv("DB_DSN"),
		CountryCode:                countryCode,
		HoldTTL:                    readDurationSeconds("HOLD_TTL_SECONDS", 3600),
		HoldSweepInterval:          readDurationSeconds("HOLD_SWEEP_INTERVAL_SECONDS", 60),
		DayStartHour:               readInt("DAY_START_HOUR", 8),
		DayEndHour:                 readInt("DAY_END_HOUR", 18),
		RateLimitPerMinute:         readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:             readInt("RATE_LIMIT_BURST", 30),
		InstanceRateLimitPerMinute: readInt("INSTANCE_RATE_LIMIT_PER_MIN", 600),
		InstanceRateLimitBurst:     readInt("INSTANCE_RATE_LIMIT_BURST", 120),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
