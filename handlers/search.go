package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type FlightSearchRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date"`
	Passengers    int    `json:"passengers"`
}

func (h *Handler) SearchFlights(c *gin.Context) {
	var req FlightSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	if len(req.Origin) != 3 || len(req.Destination) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Airport codes must be exactly 3 characters (e.g. LHR, JFK)"})
		return
	}
	if req.Passengers <= 0 {
		req.Passengers = 1
	}

	depDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid departure date format. Use YYYY-MM-DD"})
		return
	}
	if req.ReturnDate != "" {
		retDate, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return date format. Use YYYY-MM-DD"})
			return
		}
		if !retDate.After(depDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Return date must be after departure date"})
			return
		}
	}

	flights, source := h.travel.SearchFlights(c.Request.Context(),
		req.Origin, req.Destination, req.DepartureDate, req.ReturnDate, req.Passengers)

	c.JSON(http.StatusOK, gin.H{
		"flights": flights,
		"source":  source,
	})
}

type HotelSearchRequest struct {
	CityCode string `json:"city_code" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Guests   int    `json:"guests"`
}

func (h *Handler) SearchHotels(c *gin.Context) {
	var req HotelSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.CityCode = strings.ToUpper(strings.TrimSpace(req.CityCode))
	if len(req.CityCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City code must be exactly 3 characters (e.g. PAR, NYC)"})
		return
	}
	if req.Guests <= 0 {
		req.Guests = 1
	}

	in, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check_in date format. Use YYYY-MM-DD"})
		return
	}
	out, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check_out date format. Use YYYY-MM-DD"})
		return
	}
	if !out.After(in) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check-out must be after check-in"})
		return
	}

	hotels, source := h.travel.SearchHotels(c.Request.Context(),
		req.CityCode, req.CheckIn, req.CheckOut, req.Guests)

	c.JSON(http.StatusOK, gin.H{
		"hotels": hotels,
		"source": source,
	})
}

func (h *Handler) Activities(c *gin.Context) {
	destination := c.Param("destination")
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing destination"})
		return
	}

	activities, source := h.travel.SearchActivities(c.Request.Context(), destination)
	c.JSON(http.StatusOK, gin.H{
		"destination": destination,
		"activities":  activities,
		"source":      source,
	})
}
