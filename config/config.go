package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the server needs, loaded once at startup.
type Config struct {
	Port         string
	GinMode      string
	FrontendURLs []string

	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	GroqAPIKey      string
	GroqModel       string
	GroqBaseURL     string
	AmadeusID       string
	AmadeusSecret   string
	AmadeusEnv      string
	WeatherAPIKey   string
	CalendarificKey string
	ExchangerateKey string

	GatewayTimeout time.Duration
	SessionTTL     time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the environment into a Config.
func Load() *Config {
	// .env is for local dev; production sets env vars directly
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("GROQ_MODEL", "llama3-70b-8192")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("AMADEUS_ENV", "test")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GATEWAY_TIMEOUT", "10s")
	v.SetDefault("SESSION_TTL", "1h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		Port:            v.GetString("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisDB:         v.GetInt("REDIS_DB"),
		GroqAPIKey:      v.GetString("GROQ_API_KEY"),
		GroqModel:       v.GetString("GROQ_MODEL"),
		GroqBaseURL:     v.GetString("GROQ_BASE_URL"),
		AmadeusID:       v.GetString("AMADEUS_CLIENT_ID"),
		AmadeusSecret:   v.GetString("AMADEUS_CLIENT_SECRET"),
		AmadeusEnv:      v.GetString("AMADEUS_ENV"),
		WeatherAPIKey:   v.GetString("WEATHER_API_KEY"),
		CalendarificKey: v.GetString("CALENDARIFIC_API_KEY"),
		ExchangerateKey: v.GetString("EXCHANGERATE_API_KEY"),
		GatewayTimeout:  v.GetDuration("GATEWAY_TIMEOUT"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	for _, u := range strings.Split(v.GetString("FRONTEND_URL"), ",") {
		u = strings.TrimSpace(u)
		if u != "" {
			cfg.FrontendURLs = append(cfg.FrontendURLs, u)
		}
	}

	return cfg
}
