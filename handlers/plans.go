package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/database"
)

type TripPlanResponse struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	Slots           json.RawMessage `json:"slots"`
	Recommendations json.RawMessage `json:"recommendations"`
	CreatedAt       string          `json:"created_at"`
}

// TripPlan returns a saved plan by ID.
func (h *Handler) TripPlan(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Trip plan persistence is not configured"})
		return
	}

	plan, err := h.db.GetTripPlan(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip plan not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to load trip plan", zap.String("plan", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trip plan"})
		return
	}

	c.JSON(http.StatusOK, planResponse(plan))
}

// SessionPlan returns the most recent plan saved for a session, so a client
// can pick up a finished conversation after the session itself expired.
func (h *Handler) SessionPlan(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Trip plan persistence is not configured"})
		return
	}

	plan, err := h.db.LatestTripPlanForSession(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No trip plan saved for this session"})
		return
	}
	if err != nil {
		h.log.Error("failed to load session plan", zap.String("session", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trip plan"})
		return
	}

	c.JSON(http.StatusOK, planResponse(plan))
}

func planResponse(p *database.TripPlan) TripPlanResponse {
	return TripPlanResponse{
		ID:              p.ID,
		SessionID:       p.SessionID,
		Slots:           json.RawMessage(p.SlotsJSON),
		Recommendations: json.RawMessage(p.RecommendationsJSON),
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
