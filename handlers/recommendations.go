package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/recommend"
)

type RecommendationsRequest struct {
	BudgetPerPerson string `json:"budget_per_person" binding:"required"`
	PeopleCount     int    `json:"people_count"`
	TravelFrom      string `json:"travel_from" binding:"required"`
	TravelType      string `json:"travel_type" binding:"required"`
	DestinationType string `json:"destination_type"`
	TravelDates     string `json:"travel_dates"`
	DurationDays    int    `json:"duration_days"`
	Currency        string `json:"currency"`
	Preferences     string `json:"additional_preferences"`
}

// Recommendations runs the pipeline directly from a complete preference
// payload, bypassing the dialogue.
func (h *Handler) Recommendations(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	scope := recommend.Scope(req.TravelType)
	if scope != recommend.ScopeDomestic && scope != recommend.ScopeInternational {
		c.JSON(http.StatusBadRequest, gin.H{"error": "travel_type must be domestic or international"})
		return
	}

	result, err := h.orchestrator.Recommend(c.Request.Context(), recommend.Preferences{
		BudgetPerPerson: req.BudgetPerPerson,
		People:          req.PeopleCount,
		TravelFrom:      req.TravelFrom,
		TravelType:      scope,
		DestinationType: req.DestinationType,
		TravelDates:     req.TravelDates,
		DurationDays:    req.DurationDays,
		Currency:        req.Currency,
		Preferences:     req.Preferences,
	})
	if err != nil {
		h.log.Warn("recommendation request rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
