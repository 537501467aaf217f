package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CurrentWeather(c *gin.Context) {
	city := c.Param("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing city"})
		return
	}

	c.JSON(http.StatusOK, h.weather.Current(c.Request.Context(), city))
}

func (h *Handler) WeatherForecast(c *gin.Context) {
	city := c.Param("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing city"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 10"})
		return
	}

	c.JSON(http.StatusOK, h.weather.ForecastDays(c.Request.Context(), city, days))
}
