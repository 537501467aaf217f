package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/conversation"
	"wayfarer/database"
	"wayfarer/logger"
	"wayfarer/recommend"
	"wayfarer/services"
)

// Handler carries the wired services behind the HTTP surface.
type Handler struct {
	engine       *conversation.Engine
	sessions     conversation.SessionStore
	orchestrator *recommend.Orchestrator
	currency     *services.CurrencyClient
	weather      *services.WeatherClient
	holidays     *services.HolidayClient
	travel       *services.TravelClient
	db           *database.Store
	log          *zap.Logger

	// pdfCache backs /api/download when no database is configured.
	pdfMu    sync.Mutex
	pdfCache map[string][]byte
}

func New(
	engine *conversation.Engine,
	sessions conversation.SessionStore,
	orchestrator *recommend.Orchestrator,
	currency *services.CurrencyClient,
	weather *services.WeatherClient,
	holidays *services.HolidayClient,
	travel *services.TravelClient,
	db *database.Store,
) *Handler {
	return &Handler{
		engine:       engine,
		sessions:     sessions,
		orchestrator: orchestrator,
		currency:     currency,
		weather:      weather,
		holidays:     holidays,
		travel:       travel,
		db:           db,
		log:          logger.Named("http"),
	}
}

func (h *Handler) Health(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "ok"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "Wayfarer API",
		"database": dbStatus,
	})
}
