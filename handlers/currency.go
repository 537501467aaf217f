package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CurrencyRates returns exchange rates for a base currency. The source tag
// says whether the rates are live or static fallbacks.
func (h *Handler) CurrencyRates(c *gin.Context) {
	base := strings.ToUpper(c.DefaultQuery("base", "USD"))

	rates, source := h.currency.Rates(c.Request.Context(), base)
	c.JSON(http.StatusOK, gin.H{
		"base":      base,
		"rates":     rates,
		"source":    source,
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) CurrencyConvert(c *gin.Context) {
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to currencies are required"})
		return
	}

	amount, err := strconv.ParseFloat(c.DefaultQuery("amount", "1"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative number"})
		return
	}

	converted, rate, source, err := h.currency.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":      from,
		"to":        to,
		"amount":    amount,
		"converted": converted,
		"rate":      rate,
		"source":    source,
	})
}
