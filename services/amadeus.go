package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfarer/logger"
	"wayfarer/metrics"
)

type Flight struct {
	Price         float64 `json:"price"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number,omitempty"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	Currency      string  `json:"currency,omitempty"`
}

type Hotel struct {
	Name     string  `json:"name"`
	HotelID  string  `json:"hotel_id,omitempty"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Location string  `json:"location"`
	Currency string  `json:"currency,omitempty"`
}

type Activity struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
}

// TravelClient talks to the Amadeus self-service APIs for flight and hotel
// offers, degrading to deterministic estimates when credentials are missing
// or a call fails.
type TravelClient struct {
	clientID     string
	clientSecret string
	baseURL      string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	httpClient *http.Client
	log        *zap.Logger
}

func NewTravelClient(clientID, clientSecret, env string, timeout time.Duration) *TravelClient {
	baseURL := "https://api.amadeus.com"
	if env == "" || env == "test" {
		baseURL = "https://test.api.amadeus.com"
	}

	c := &TravelClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		log:          logger.Named("amadeus"),
	}

	if clientID == "" || clientSecret == "" {
		c.log.Warn("amadeus credentials not set, flight and hotel search will use fallback data")
	}
	return c
}

func (c *TravelClient) configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ─── OAuth2 ──────────────────────────────────────────────────────────────────

func (c *TravelClient) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()
	return nil
}

func (c *TravelClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *TravelClient) doRequest(ctx context.Context, path string) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// ─── Flights ─────────────────────────────────────────────────────────────────

// SearchFlights returns flight offers for the route, live when possible and
// estimated otherwise. The second return is the data source tag.
func (c *TravelClient) SearchFlights(ctx context.Context, origin, destination, departureDate, returnDate string, adults int) ([]Flight, string) {
	if c.configured() {
		flights, err := c.searchFlightsLive(ctx, origin, destination, departureDate, returnDate, adults)
		if err != nil {
			c.log.Warn("flight search failed, using fallback",
				zap.String("route", origin+"-"+destination), zap.Error(err))
		} else if len(flights) > 0 {
			return flights, SourceLive
		}
	}

	metrics.GatewayFallbacks.WithLabelValues("flights").Inc()
	return estimateFlights(origin, destination, departureDate), SourceFallback
}

// AverageFlightPrice returns the mean offer price for a route and date. The
// boolean reports whether live data backed the figure.
func (c *TravelClient) AverageFlightPrice(ctx context.Context, origin, destination, date string, adults int) (float64, bool) {
	flights, source := c.SearchFlights(ctx, origin, destination, date, "", adults)
	if len(flights) == 0 {
		return 0, false
	}

	var sum float64
	for _, f := range flights {
		sum += f.Price
	}
	return sum / float64(len(flights)), source == SourceLive
}

func (c *TravelClient) searchFlightsLive(ctx context.Context, origin, destination, departureDate, returnDate string, adults int) ([]Flight, error) {
	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", departureDate)
	if returnDate != "" {
		q.Set("returnDate", returnDate)
	}
	q.Set("adults", strconv.Itoa(adults))
	q.Set("max", "6")
	q.Set("currencyCode", "USD")

	body, err := c.doRequest(ctx, "/v2/shopping/flight-offers?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}
	return parseFlightOffers(body)
}

type flightOffersResponse struct {
	Data []struct {
		Price struct {
			GrandTotal string `json:"grandTotal"`
			Currency   string `json:"currency"`
		} `json:"price"`
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				Departure struct {
					At string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					At string `json:"at"`
				} `json:"arrival"`
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

func parseFlightOffers(data []byte) ([]Flight, error) {
	var resp flightOffersResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	flights := make([]Flight, 0, len(resp.Data))
	for _, offer := range resp.Data {
		if len(offer.Itineraries) == 0 {
			continue
		}
		price, _ := strconv.ParseFloat(offer.Price.GrandTotal, 64)
		if price <= 0 {
			continue
		}

		outbound := offer.Itineraries[0]
		f := Flight{
			Price:    price,
			Currency: offer.Price.Currency,
			Stops:    maxInt(0, len(outbound.Segments)-1),
			Duration: humanDuration(outbound.Duration),
		}
		if len(outbound.Segments) > 0 {
			seg := outbound.Segments[0]
			f.Airline = airlineName(seg.CarrierCode)
			f.FlightNumber = seg.CarrierCode + seg.Number
			f.DepartureTime = seg.Departure.At
			f.ArrivalTime = outbound.Segments[len(outbound.Segments)-1].Arrival.At
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// ─── Hotels ──────────────────────────────────────────────────────────────────

// SearchHotels returns hotel offers for a city, live when possible.
func (c *TravelClient) SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, guests int) ([]Hotel, string) {
	if c.configured() {
		hotels, err := c.searchHotelsLive(ctx, cityCode, checkIn, checkOut, guests)
		if err != nil {
			c.log.Warn("hotel search failed, using fallback",
				zap.String("city", cityCode), zap.Error(err))
		} else if len(hotels) > 0 {
			return hotels, SourceLive
		}
	}

	metrics.GatewayFallbacks.WithLabelValues("hotels").Inc()
	return estimateHotels(cityCode), SourceFallback
}

// AverageNightlyRate reports the mean nightly price across available offers.
func (c *TravelClient) AverageNightlyRate(ctx context.Context, cityCode, checkIn, checkOut string, guests int) (float64, bool) {
	hotels, source := c.SearchHotels(ctx, cityCode, checkIn, checkOut, guests)
	if len(hotels) == 0 {
		return 0, false
	}

	var sum float64
	for _, h := range hotels {
		sum += h.Price
	}
	return sum / float64(len(hotels)), source == SourceLive
}

func (c *TravelClient) searchHotelsLive(ctx context.Context, cityCode, checkIn, checkOut string, guests int) ([]Hotel, error) {
	ids, err := c.hotelIDsByCity(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no hotels found for city %s", cityCode)
	}
	if len(ids) > 20 {
		ids = ids[:20] // rate-limit headroom
	}

	q := url.Values{}
	q.Set("hotelIds", strings.Join(ids, ","))
	q.Set("checkInDate", checkIn)
	q.Set("checkOutDate", checkOut)
	q.Set("adults", strconv.Itoa(guests))
	q.Set("roomQuantity", "1")
	q.Set("currency", "USD")
	q.Set("bestRateOnly", "true")

	body, err := c.doRequest(ctx, "/v3/shopping/hotel-offers?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("hotel offers failed: %w", err)
	}

	var resp struct {
		Data []struct {
			Hotel struct {
				HotelID  string `json:"hotelId"`
				Name     string `json:"name"`
				CityCode string `json:"cityCode"`
				Rating   string `json:"rating"`
				Address  struct {
					CityName string `json:"cityName"`
				} `json:"address"`
			} `json:"hotel"`
			Available bool `json:"available"`
			Offers    []struct {
				Price struct {
					Total    string `json:"total"`
					Currency string `json:"currency"`
				} `json:"price"`
			} `json:"offers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel offers: %w", err)
	}

	hotels := make([]Hotel, 0, len(resp.Data))
	for _, item := range resp.Data {
		if !item.Available || len(item.Offers) == 0 {
			continue
		}
		price, _ := strconv.ParseFloat(item.Offers[0].Price.Total, 64)
		if price <= 0 {
			continue
		}

		rating, _ := strconv.ParseFloat(item.Hotel.Rating, 64)
		if rating <= 0 || rating > 5 {
			rating = 4.0
		}
		location := item.Hotel.Address.CityName
		if location == "" {
			location = item.Hotel.CityCode
		}

		hotels = append(hotels, Hotel{
			Name:     item.Hotel.Name,
			HotelID:  item.Hotel.HotelID,
			Price:    price,
			Rating:   rating,
			Location: location,
			Currency: item.Offers[0].Price.Currency,
		})
	}
	return hotels, nil
}

func (c *TravelClient) hotelIDsByCity(ctx context.Context, cityCode string) ([]string, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)
	q.Set("radius", "5")
	q.Set("radiusUnit", "KM")
	q.Set("hotelSource", "ALL")

	body, err := c.doRequest(ctx, "/v1/reference-data/locations/hotels/by-city?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		ids = append(ids, h.HotelID)
	}
	return ids, nil
}

// ─── Activities ──────────────────────────────────────────────────────────────

// SearchActivities has no live provider wired; it serves curated estimates so
// the planning flow stays complete without a Places API key.
func (c *TravelClient) SearchActivities(ctx context.Context, destination string) ([]Activity, string) {
	metrics.GatewayFallbacks.WithLabelValues("activities").Inc()
	return []Activity{
		{Name: "City Walking Tour", Description: "Explore " + destination + " with a local guide", Duration: "3 hours", Price: 45, Rating: 4.7, Category: "Cultural"},
		{Name: "Food & Market Tour", Description: "Taste the local cuisine of " + destination, Duration: "2.5 hours", Price: 60, Rating: 4.8, Category: "Food"},
		{Name: "Day Trip & Highlights", Description: "Full-day excursion around " + destination, Duration: "8 hours", Price: 110, Rating: 4.6, Category: "Sightseeing"},
		{Name: "Outdoor Adventure", Description: "Active excursion near " + destination, Duration: "4 hours", Price: 80, Rating: 4.9, Category: "Adventure"},
	}, SourceFallback
}

// ─── Fallback estimates ──────────────────────────────────────────────────────

// seedFor gives a stable per-route seed so estimates stay identical across
// calls and restarts.
func seedFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToUpper(key)))
	return h.Sum32()
}

func estimateFlights(origin, destination, departureDate string) []Flight {
	base := 150 + float64(seedFor(origin+"-"+destination)%451) // $150-$600
	options := []struct {
		airline  string
		priceMod float64
		stops    int
		durMin   int
	}{
		{"United Airlines", 1.00, 0, 240},
		{"Delta Air Lines", 1.10, 0, 235},
		{"Lufthansa", 1.20, 0, 260},
		{"Turkish Airlines", 0.85, 1, 340},
		{"Wizz Air", 0.65, 1, 360},
	}

	dep, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		dep = time.Now().AddDate(0, 1, 0)
	}

	flights := make([]Flight, 0, len(options))
	for i, opt := range options {
		price := float64(int(base*opt.priceMod/5) * 5)
		depTime := time.Date(dep.Year(), dep.Month(), dep.Day(), 6+i*3, 0, 0, 0, time.UTC)
		arrTime := depTime.Add(time.Duration(opt.durMin) * time.Minute)

		flights = append(flights, Flight{
			Price:         price,
			Airline:       opt.airline,
			DepartureTime: depTime.Format(time.RFC3339),
			ArrivalTime:   arrTime.Format(time.RFC3339),
			Duration:      fmt.Sprintf("%dh %dm", opt.durMin/60, opt.durMin%60),
			Stops:         opt.stops,
			Currency:      "USD",
		})
	}
	return flights
}

func estimateHotels(cityCode string) []Hotel {
	base := 60 + float64(seedFor(cityCode)%121) // $60-$180 per night
	tiers := []struct {
		name     string
		priceMod float64
		rating   float64
		area     string
	}{
		{"Grand City Hotel", 1.6, 4.6, "Historic Center"},
		{"Central Plaza Hotel", 1.2, 4.4, "City Center"},
		{"Boutique Residence", 1.0, 4.3, "Arts District"},
		{"Business Inn", 0.8, 4.1, "Business District"},
		{"Budget Suites", 0.5, 3.8, "Near Airport"},
	}

	hotels := make([]Hotel, 0, len(tiers))
	for _, t := range tiers {
		hotels = append(hotels, Hotel{
			Name:     t.name,
			Price:    float64(int(base*t.priceMod/5) * 5),
			Rating:   t.rating,
			Location: t.area + ", " + cityCode,
			Currency: "USD",
		})
	}
	return hotels
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// humanDuration converts ISO 8601 durations (PT5H30M) to "5h 30m".
func humanDuration(iso string) string {
	iso = strings.TrimPrefix(iso, "PT")
	var out []string
	if i := strings.Index(iso, "H"); i >= 0 {
		out = append(out, iso[:i]+"h")
		iso = iso[i+1:]
	}
	if i := strings.Index(iso, "M"); i >= 0 {
		out = append(out, iso[:i]+"m")
	}
	return strings.Join(out, " ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func airlineName(code string) string {
	names := map[string]string{
		"TK": "Turkish Airlines",
		"LH": "Lufthansa",
		"AF": "Air France",
		"BA": "British Airways",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"FR": "Ryanair",
		"U2": "EasyJet",
		"W6": "Wizz Air",
		"UA": "United Airlines",
		"AA": "American Airlines",
		"DL": "Delta Air Lines",
		"KL": "KLM",
		"IB": "Iberia",
		"SQ": "Singapore Airlines",
		"NH": "ANA",
		"JL": "Japan Airlines",
		"EY": "Etihad Airways",
	}
	if name, ok := names[code]; ok {
		return name
	}
	if code != "" {
		return code + " Airlines"
	}
	return "Unknown Airline"
}
