package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wayfarer/database"
	"wayfarer/recommend"
	"wayfarer/services"
)

type ItineraryRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	TravelerName string `json:"traveler_name"`

	// DestinationIndex picks one recommendation for the plan. Absent means
	// the whole list goes into the PDF.
	DestinationIndex *int `json:"destination_index"`
}

type ItineraryResponse struct {
	ItineraryID string `json:"itinerary_id"`
	PDFURL      string `json:"pdf_url"`
	Message     string `json:"message"`
}

// Itinerary renders a finished session's recommendations into a PDF. The
// bytes go to the database when one is configured and to an in-memory cache
// either way, so /api/download works without persistence.
func (h *Handler) Itinerary(c *gin.Context) {
	var req ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
		return
	}
	if session.Recommendations == nil || len(session.Recommendations.Destinations) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Session has no recommendations yet. Finish the conversation first."})
		return
	}

	result := session.Recommendations
	chosen := result.Destinations
	if req.DestinationIndex != nil {
		idx := *req.DestinationIndex
		if idx < 0 || idx >= len(result.Destinations) {
			idx = 0
		}
		chosen = result.Destinations[idx : idx+1]
		session.SelectedDestination = &result.Destinations[idx]
		if err := h.sessions.Put(c.Request.Context(), session); err != nil {
			h.log.Warn("failed to persist destination selection", zap.Error(err))
		}
	}

	data := services.PDFData{
		TravelerName:    req.TravelerName,
		TravelFrom:      session.Slots.TravelFrom,
		TravelType:      string(session.Slots.TravelType),
		DestinationType: session.Slots.DestinationType,
		TravelDates:     session.Slots.TravelDates,
		People:          session.Slots.PeopleCount,
		Budget:          session.Slots.Budget,
		Currency:        currencyOf(result),
		Tips:            result.Tips,
		Estimated:       result.DataQuality != recommend.EstimateLive,
	}
	for _, d := range chosen {
		data.Destinations = append(data.Destinations, services.PDFDestination{
			Name:            d.Name,
			Country:         d.Country,
			Description:     d.Description,
			WhyPerfect:      d.WhyPerfect,
			Rating:          d.Rating,
			BestTime:        d.BestTime,
			TotalPerPerson:  d.Cost.TotalPerPerson,
			FlightPerPerson: d.Cost.FlightPerPerson,
			HotelPerPerson:  d.Cost.HotelPerPerson,
			LivingPerPerson: d.Cost.LivingPerPerson,
		})
	}

	pdfBytes, err := services.GeneratePDFBytes(data)
	if err != nil {
		h.log.Error("PDF generation failed", zap.String("session", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	itineraryID := uuid.New().String()
	h.cachePDF(itineraryID, pdfBytes)

	if h.db != nil {
		slotsJSON, _ := json.Marshal(session.Slots)
		recsJSON, _ := json.Marshal(result)
		planID := uuid.New().String()
		if err := h.db.SaveTripPlan(c.Request.Context(), &database.TripPlan{
			ID:                  planID,
			SessionID:           session.ID,
			SlotsJSON:           string(slotsJSON),
			RecommendationsJSON: string(recsJSON),
		}); err != nil {
			h.log.Error("failed to save trip plan", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trip plan"})
			return
		}
		if err := h.db.SaveItinerary(c.Request.Context(), &database.Itinerary{
			ID:           itineraryID,
			PlanID:       planID,
			Summary:      result.Summary(),
			PDFData:      pdfBytes,
			TravelerName: req.TravelerName,
		}); err != nil {
			h.log.Error("failed to save itinerary", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save itinerary"})
			return
		}
	}

	h.log.Info("PDF generated", zap.String("itinerary", itineraryID), zap.Int("bytes", len(pdfBytes)))

	c.JSON(http.StatusOK, ItineraryResponse{
		ItineraryID: itineraryID,
		PDFURL:      "/api/download/" + itineraryID,
		Message:     "PDF generated successfully",
	})
}

func currencyOf(result *recommend.Result) string {
	if len(result.Destinations) > 0 && result.Destinations[0].Cost.Currency != "" {
		return result.Destinations[0].Cost.Currency
	}
	return "USD"
}

func (h *Handler) cachePDF(id string, data []byte) {
	h.pdfMu.Lock()
	defer h.pdfMu.Unlock()
	if h.pdfCache == nil {
		h.pdfCache = make(map[string][]byte)
	}
	h.pdfCache[id] = data
}

func (h *Handler) cachedPDF(id string) []byte {
	h.pdfMu.Lock()
	defer h.pdfMu.Unlock()
	return h.pdfCache[id]
}
