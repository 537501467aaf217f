package recommend

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"wayfarer/logger"
)

// Provenance tags for a cost estimate.
const (
	EstimateLive            = "live"
	EstimatePartialFallback = "partial-fallback"
	EstimateFullFallback    = "full-fallback"
)

// Defaults used when neither live data nor a catalog figure is available.
const (
	defaultFlightUSD      = 400
	defaultNightlyUSD     = 110
	defaultDailyLivingUSD = 75
)

// FlightPricer supplies an average one-way-equivalent flight price per
// person. The boolean reports whether live data backed the figure.
type FlightPricer interface {
	AverageFlightPrice(ctx context.Context, origin, destination, date string, adults int) (float64, bool)
}

// HotelPricer supplies an average nightly room rate.
type HotelPricer interface {
	AverageNightlyRate(ctx context.Context, cityCode, checkIn, checkOut string, guests int) (float64, bool)
}

// Converter converts between currencies, returning the converted amount, the
// rate used, the data source tag, and an error only for unknown currencies.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, float64, string, error)
}

// Estimate is the per-person cost breakdown for one candidate trip. The
// total always equals the sum of the three components.
type Estimate struct {
	FlightPerPerson float64 `json:"flight_per_person"`
	HotelPerPerson  float64 `json:"hotel_per_person"`
	LivingPerPerson float64 `json:"living_per_person"`
	TotalPerPerson  float64 `json:"total_per_person"`
	Currency        string  `json:"currency"`
	Source          string  `json:"source"`
}

// TripQuery describes one trip to be costed. FallbackFlightUSD and
// FallbackDailyUSD come from the candidate catalog and stand in for a failed
// or missing live fetch.
type TripQuery struct {
	Origin        string
	CityCode      string
	DepartureDate string
	ReturnDate    string
	Nights        int
	People        int
	Currency      string

	FallbackFlightUSD float64
	FallbackDailyUSD  float64
}

// CostAggregator merges flight, hotel and daily-living figures into one
// per-person estimate. Every fetch failure degrades that component to its
// fallback value; the aggregate call itself only fails on invalid input.
type CostAggregator struct {
	flights   FlightPricer
	hotels    HotelPricer
	converter Converter
	log       *zap.Logger
}

func NewCostAggregator(flights FlightPricer, hotels HotelPricer, converter Converter) *CostAggregator {
	return &CostAggregator{
		flights:   flights,
		hotels:    hotels,
		converter: converter,
		log:       logger.Named("aggregator"),
	}
}

// Estimate costs a trip. Nights and People must be positive; everything else
// degrades rather than fails.
func (a *CostAggregator) Estimate(ctx context.Context, q TripQuery) (Estimate, error) {
	if q.Nights <= 0 {
		return Estimate{}, fmt.Errorf("nights must be positive, got %d", q.Nights)
	}
	if q.People <= 0 {
		return Estimate{}, fmt.Errorf("party size must be positive, got %d", q.People)
	}
	if q.Currency == "" {
		q.Currency = "USD"
	}

	var (
		wg sync.WaitGroup

		flightUSD  float64
		flightLive bool

		nightlyUSD float64
		hotelLive  bool
	)

	// Flight and hotel prices come from the network and run concurrently.
	// The daily-living figure is a catalog lookup.
	wg.Add(2)
	go func() {
		defer wg.Done()
		price, live := a.flights.AverageFlightPrice(ctx, q.Origin, q.CityCode, q.DepartureDate, q.People)
		if price <= 0 {
			live = false
			price = q.FallbackFlightUSD
			if price <= 0 {
				price = defaultFlightUSD
			}
		}
		flightUSD, flightLive = price, live
	}()
	go func() {
		defer wg.Done()
		rate, live := a.hotels.AverageNightlyRate(ctx, q.CityCode, q.DepartureDate, q.ReturnDate, q.People)
		if rate <= 0 {
			live = false
			rate = defaultNightlyUSD
		}
		nightlyUSD, hotelLive = rate, live
	}()
	wg.Wait()

	dailyUSD := q.FallbackDailyUSD
	livingKnown := dailyUSD > 0
	if !livingKnown {
		dailyUSD = defaultDailyLivingUSD
	}

	people := float64(q.People)
	nights := float64(q.Nights)

	flightPP := flightUSD
	hotelPP := nightlyUSD * nights / people
	livingPP := dailyUSD * nights / people

	est := Estimate{
		Currency: q.Currency,
		Source:   provenance(flightLive, hotelLive, livingKnown),
	}

	var err error
	if est.FlightPerPerson, err = a.toCurrency(ctx, flightPP, q.Currency); err != nil {
		return Estimate{}, err
	}
	if est.HotelPerPerson, err = a.toCurrency(ctx, hotelPP, q.Currency); err != nil {
		return Estimate{}, err
	}
	if est.LivingPerPerson, err = a.toCurrency(ctx, livingPP, q.Currency); err != nil {
		return Estimate{}, err
	}
	est.TotalPerPerson = round2(est.FlightPerPerson + est.HotelPerPerson + est.LivingPerPerson)

	a.log.Debug("trip costed",
		zap.String("city", q.CityCode),
		zap.String("source", est.Source),
		zap.Float64("total_per_person", est.TotalPerPerson))

	return est, nil
}

func (a *CostAggregator) toCurrency(ctx context.Context, amountUSD float64, currency string) (float64, error) {
	converted, _, _, err := a.converter.Convert(ctx, amountUSD, "USD", currency)
	if err != nil {
		return 0, fmt.Errorf("currency conversion: %w", err)
	}
	return round2(converted), nil
}

func provenance(parts ...bool) string {
	live := 0
	for _, p := range parts {
		if p {
			live++
		}
	}
	switch live {
	case len(parts):
		return EstimateLive
	case 0:
		return EstimateFullFallback
	default:
		return EstimatePartialFallback
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
