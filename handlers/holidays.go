package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Holidays(c *gin.Context) {
	country := c.Param("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing country"})
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
		return
	}

	holidays, source := h.holidays.Holidays(c.Request.Context(), country, year)
	c.JSON(http.StatusOK, gin.H{
		"country":  country,
		"year":     year,
		"holidays": holidays,
		"source":   source,
	})
}

func (h *Handler) UpcomingHolidays(c *gin.Context) {
	country := c.Param("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing country"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "90"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}

	holidays, source := h.holidays.Upcoming(c.Request.Context(), country, days)
	c.JSON(http.StatusOK, gin.H{
		"country":  country,
		"days":     days,
		"holidays": holidays,
		"source":   source,
	})
}
