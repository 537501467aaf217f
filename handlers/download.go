package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Download(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing itinerary ID"})
		return
	}

	pdfData := h.cachedPDF(id)
	if pdfData == nil && h.db != nil {
		itinerary, err := h.db.GetItinerary(c.Request.Context(), id)
		if err == nil {
			pdfData = itinerary.PDFData
		}
	}
	if len(pdfData) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=wayfarer-trip-plan.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfData)
}
