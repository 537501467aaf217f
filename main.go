package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wayfarer/config"
	"wayfarer/conversation"
	"wayfarer/database"
	"wayfarer/handlers"
	"wayfarer/logger"
	"wayfarer/recommend"
	"wayfarer/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		return
	}
	if db != nil {
		defer db.Close()
	}

	// External gateways. Each degrades to deterministic fallback data when
	// its credentials are missing or a call fails.
	currency := services.NewCurrencyClient(cfg.ExchangerateKey, cfg.GatewayTimeout)
	weather := services.NewWeatherClient(cfg.WeatherAPIKey, cfg.GatewayTimeout)
	holidays := services.NewHolidayClient(cfg.CalendarificKey, cfg.GatewayTimeout)
	travel := services.NewTravelClient(cfg.AmadeusID, cfg.AmadeusSecret, cfg.AmadeusEnv, cfg.GatewayTimeout)
	groq := services.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL, cfg.GatewayTimeout)

	catalog := recommend.DefaultCatalog()
	aggregator := recommend.NewCostAggregator(travel, travel, currency)
	orchestrator := recommend.NewOrchestrator(catalog, aggregator, currency, weather, holidays, groq)

	var sessions conversation.SessionStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		sessions = conversation.NewRedisStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	} else {
		sessions = conversation.NewMemoryStore(cfg.SessionTTL)
		logger.Info("using in-memory session store")
	}

	engine := conversation.NewEngine(sessions, orchestrator)
	h := handlers.New(engine, sessions, orchestrator, currency, weather, holidays, travel, db)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	allowedOrigins := append([]string{"http://localhost:5173", "http://localhost:3000"}, cfg.FrontendURLs...)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		api.POST("/chat", h.Chat)
		api.GET("/session/:id", h.Session)
		api.DELETE("/session/:id", h.ResetSession)
		api.GET("/session/:id/plan", h.SessionPlan)

		api.POST("/recommendations", h.Recommendations)

		api.GET("/currency/rates", h.CurrencyRates)
		api.GET("/currency/convert", h.CurrencyConvert)
		api.GET("/weather/:city", h.CurrentWeather)
		api.GET("/weather/:city/forecast", h.WeatherForecast)
		api.GET("/holidays/:country", h.Holidays)
		api.GET("/holidays/:country/upcoming", h.UpcomingHolidays)

		api.POST("/flights", h.SearchFlights)
		api.POST("/hotels", h.SearchHotels)
		api.GET("/activities/:destination", h.Activities)

		api.POST("/itinerary", h.Itinerary)
		api.GET("/download/:id", h.Download)
		api.GET("/plans/:id", h.TripPlan)
	}

	logger.Info("wayfarer backend starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
