package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFDestination is one recommended destination rendered into the itinerary.
type PDFDestination struct {
	Name            string
	Country         string
	Description     string
	WhyPerfect      string
	Rating          float64
	BestTime        string
	TotalPerPerson  float64
	FlightPerPerson float64
	HotelPerPerson  float64
	LivingPerPerson float64
}

type PDFData struct {
	TravelerName    string
	TravelFrom      string
	TravelType      string
	DestinationType string
	TravelDates     string
	People          int
	Budget          string
	Currency        string
	Destinations    []PDFDestination
	Tips            []string
	Estimated       bool // true when any price came from fallback data
}

// GeneratePDFBytes renders a trip plan to a PDF and returns the raw bytes.
func GeneratePDFBytes(data PDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Watermark
	pdf.SetTextColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 55)
	pdf.TransformBegin()
	pdf.TransformRotate(42, 60, 200)
	pdf.Text(60, 200, "SAMPLE")
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)

	// Header bar
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "Wayfarer", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Personalized Travel Plan", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// Disclaimer
	pdf.SetFillColor(255, 248, 225)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetTextColor(130, 90, 20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	disclaimer := "This is NOT a booking confirmation. Prices are estimates and subject to change. Please verify with providers before booking."
	if data.Estimated {
		disclaimer = "ESTIMATED PRICES - some providers were unavailable, so parts of this plan use modeled costs. This is NOT a booking confirmation."
	}
	pdf.MultiCell(164, 4, disclaimer, "", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// Traveler info
	sectionHeader("Traveler Information")
	name := data.TravelerName
	if name == "" {
		name = "Guest Traveler"
	}
	row("Name", name)
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// Trip preferences
	sectionHeader("Trip Preferences")
	row("Traveling from", data.TravelFrom)
	row("Trip type", fmt.Sprintf("%s, %s", data.TravelType, data.DestinationType))
	row("Travelers", fmt.Sprintf("%d", data.People))
	row("Dates", data.TravelDates)
	row("Budget per person", fmt.Sprintf("%s %s", data.Budget, data.Currency))
	pdf.Ln(4)

	// Destinations
	for i, d := range data.Destinations {
		sectionHeader(fmt.Sprintf("%d. %s, %s", i+1, d.Name, d.Country))
		if d.Description != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(170, 5, d.Description, "", "L", false)
			pdf.Ln(1)
		}
		if d.WhyPerfect != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(80, 80, 80)
			pdf.MultiCell(170, 5, "Why it fits: "+d.WhyPerfect, "", "L", false)
			pdf.Ln(1)
		}
		if d.Rating > 0 {
			row("Rating", fmt.Sprintf("%.1f / 5.0", d.Rating))
		}
		if d.BestTime != "" {
			row("Best time to visit", d.BestTime)
		}
		row("Flight (per person)", fmt.Sprintf("%.0f %s", d.FlightPerPerson, data.Currency))
		row("Hotel (per person)", fmt.Sprintf("%.0f %s", d.HotelPerPerson, data.Currency))
		row("Living costs (per person)", fmt.Sprintf("%.0f %s", d.LivingPerPerson, data.Currency))

		pdf.SetFillColor(212, 168, 67)
		pdf.SetTextColor(13, 24, 37)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(55, 9, "TOTAL PER PERSON", "", 0, "L", true, 0, "")
		pdf.CellFormat(115, 9, fmt.Sprintf("%.0f %s", d.TotalPerPerson, data.Currency), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	// Tips
	if len(data.Tips) > 0 {
		sectionHeader("Travel Tips")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		for _, tip := range data.Tips {
			pdf.MultiCell(170, 5, "- "+tip, "", "L", false)
		}
		pdf.Ln(4)
	}

	// Footer
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by Wayfarer Travel Planner - Not a booking confirmation - Prices subject to change",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}
