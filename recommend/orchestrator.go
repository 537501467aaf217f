package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfarer/logger"
	"wayfarer/metrics"
	"wayfarer/services"
)

// TopCandidates bounds how many destinations get live cost estimates, which
// caps the gateway fan-out per request.
const TopCandidates = 5

// DefaultTripDays is assumed when the user gave no duration.
const DefaultTripDays = 7

// Result source tags.
const (
	SourceAI     = "ai"
	SourceRanked = "ranked"
)

// Preferences is the completed slot set the orchestrator works from.
type Preferences struct {
	BudgetPerPerson string `json:"budget_per_person"`
	People          int    `json:"people_count"`
	TravelFrom      string `json:"travel_from"`
	TravelType      Scope  `json:"travel_type"`
	DestinationType string `json:"destination_type"`
	TravelDates     string `json:"travel_dates"`
	DurationDays    int    `json:"duration_days"`
	Currency        string `json:"currency"`
	Preferences     string `json:"additional_preferences"`
}

// Destination is one ranked result with its cost breakdown and best-effort
// enrichment. Enrichment fields stay nil when their gateways fail.
type Destination struct {
	Ranked
	Cost       Estimate                 `json:"cost"`
	WhyPerfect string                   `json:"why_perfect,omitempty"`
	Weather    *services.WeatherSummary `json:"weather,omitempty"`
	Holidays   []services.Holiday       `json:"holidays,omitempty"`
}

// Result is a full recommendation run.
type Result struct {
	Destinations []Destination `json:"destinations"`
	TotalFound   int           `json:"total_found"`
	Source       string        `json:"source"`
	DataQuality  string        `json:"data_quality"`
	Tips         []string      `json:"tips,omitempty"`
}

// WeatherSource and HolidaySource are the enrichment gateways.
type WeatherSource interface {
	Summary(ctx context.Context, place string) *services.WeatherSummary
}

type HolidaySource interface {
	Upcoming(ctx context.Context, country string, daysAhead int) ([]services.Holiday, string)
}

// Completer is the optional LLM used to re-rank and describe destinations.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, system string, turns []services.ChatTurn) (string, error)
}

// Orchestrator runs the full recommendation pipeline: candidate selection,
// concurrent costing, budget filtering, optional AI re-ranking, and
// enrichment of the top pick.
type Orchestrator struct {
	catalog    *Catalog
	aggregator *CostAggregator
	converter  Converter
	weather    WeatherSource
	holidays   HolidaySource
	llm        Completer
	log        *zap.Logger
}

func NewOrchestrator(catalog *Catalog, aggregator *CostAggregator, converter Converter, weather WeatherSource, holidays HolidaySource, llm Completer) *Orchestrator {
	return &Orchestrator{
		catalog:    catalog,
		aggregator: aggregator,
		converter:  converter,
		weather:    weather,
		holidays:   holidays,
		llm:        llm,
		log:        logger.Named("orchestrator"),
	}
}

// Recommend produces a ranked destination list for a completed preference
// set. It fails only on invalid input (unparseable budget, unknown
// currency); gateway trouble degrades the data instead.
func (o *Orchestrator) Recommend(ctx context.Context, prefs Preferences) (*Result, error) {
	started := time.Now()
	defer func() {
		metrics.OrchestrationDuration.Observe(time.Since(started).Seconds())
	}()

	env, err := ParseEnvelope(prefs.BudgetPerPerson)
	if err != nil {
		return nil, err
	}
	if prefs.People <= 0 {
		prefs.People = 1
	}
	days := prefs.DurationDays
	if days <= 0 {
		days = DefaultTripDays
	}
	if prefs.Currency == "" {
		prefs.Currency = "USD"
	}

	category := matchCategory(prefs.DestinationType)
	pool := SelectByCategory(o.catalog.Pool(prefs.TravelType), category)

	ranked, err := Rank(ctx, pool, env, days, o.converter, prefs.Currency)
	if err != nil {
		return nil, err
	}
	totalFound := len(ranked)
	if len(ranked) > TopCandidates {
		ranked = ranked[:TopCandidates]
	}

	destinations := o.costAll(ctx, ranked, prefs, days)

	result := &Result{
		Destinations: destinations,
		TotalFound:   totalFound,
		Source:       SourceRanked,
		DataQuality:  overallQuality(destinations),
		Tips:         travelTips(prefs.TravelType, category),
	}

	if o.llm != nil && o.llm.Configured() && len(destinations) > 0 {
		o.applyAIRerank(ctx, result, prefs)
	}

	o.enrichTop(ctx, result)

	metrics.Orchestrations.WithLabelValues(result.Source).Inc()
	return result, nil
}

// costAll runs the aggregator for every candidate concurrently, bounded by
// TopCandidates upstream.
func (o *Orchestrator) costAll(ctx context.Context, ranked []Ranked, prefs Preferences, days int) []Destination {
	destinations := make([]Destination, len(ranked))

	var wg sync.WaitGroup
	for i, r := range ranked {
		wg.Add(1)
		go func(i int, r Ranked) {
			defer wg.Done()
			est, err := o.aggregator.Estimate(ctx, TripQuery{
				Origin:            prefs.TravelFrom,
				CityCode:          r.CityCode,
				DepartureDate:     departureDateFor(prefs.TravelDates),
				ReturnDate:        returnDateFor(prefs.TravelDates, days),
				Nights:            days,
				People:            prefs.People,
				Currency:          prefs.Currency,
				FallbackFlightUSD: r.AvgFlightCostUSD,
				FallbackDailyUSD:  r.DailyCostUSD,
			})
			if err != nil {
				// Invalid input is caught before costing; only defensive.
				o.log.Warn("cost estimate failed", zap.String("city", r.CityCode), zap.Error(err))
				est = Estimate{Currency: prefs.Currency, Source: EstimateFullFallback}
			}
			destinations[i] = Destination{Ranked: r, Cost: est}
		}(i, r)
	}
	wg.Wait()

	return destinations
}

// applyAIRerank asks the LLM to reorder and describe the computed results,
// grounded on the real cost data. An unparseable or failed reply leaves the
// deterministic order untouched.
func (o *Orchestrator) applyAIRerank(ctx context.Context, result *Result, prefs Preferences) {
	raw, err := o.llm.Complete(ctx, rerankSystemPrompt, []services.ChatTurn{
		{Role: "user", Content: buildRerankPrompt(result.Destinations, prefs)},
	})
	if err != nil {
		o.log.Warn("AI re-rank call failed, keeping ranked order", zap.Error(err))
		return
	}

	outcome := ParseAIPlan(raw)
	if !outcome.Structured() {
		o.log.Warn("AI reply was not valid JSON, keeping ranked order",
			zap.Int("raw_len", len(outcome.Raw)))
		return
	}

	reordered := make([]Destination, 0, len(result.Destinations))
	used := make(map[int]bool)
	for _, ai := range outcome.Plan.Destinations {
		for i, d := range result.Destinations {
			if used[i] || !strings.EqualFold(strings.TrimSpace(ai.Name), d.Name) {
				continue
			}
			d.WhyPerfect = ai.WhyPerfect
			if ai.Description != "" {
				d.Description = ai.Description
			}
			reordered = append(reordered, d)
			used[i] = true
			break
		}
	}
	// Anything the model dropped keeps its deterministic position at the end.
	for i, d := range result.Destinations {
		if !used[i] {
			reordered = append(reordered, d)
		}
	}

	result.Destinations = reordered
	result.Source = SourceAI
}

// enrichTop attaches weather and holidays to the first destination. Failures
// leave the fields nil; the destination is never dropped.
func (o *Orchestrator) enrichTop(ctx context.Context, result *Result) {
	if len(result.Destinations) == 0 {
		return
	}
	top := &result.Destinations[0]

	if o.weather != nil {
		top.Weather = o.weather.Summary(ctx, top.Name)
	}
	if o.holidays != nil {
		holidays, _ := o.holidays.Upcoming(ctx, top.Country, 90)
		top.Holidays = holidays
	}
}

const rerankSystemPrompt = "You are an expert travel advisor. " +
	"Always respond with valid JSON in exactly the requested format, no other text."

func buildRerankPrompt(destinations []Destination, prefs Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A traveler from %s wants a %s %s trip for %d people, budget %s %s per person, dates: %s.",
		prefs.TravelFrom, prefs.TravelType, prefs.DestinationType, prefs.People,
		prefs.BudgetPerPerson, prefs.Currency, prefs.TravelDates)
	if prefs.Preferences != "" {
		fmt.Fprintf(&b, " Additional preferences: %s.", prefs.Preferences)
	}

	b.WriteString("\n\nComputed options with real cost estimates per person:\n")
	for i, d := range destinations {
		fmt.Fprintf(&b, "%d. %s, %s - total %.0f %s (flight %.0f, hotel %.0f, living %.0f)\n",
			i+1, d.Name, d.Country, d.Cost.TotalPerPerson, d.Cost.Currency,
			d.Cost.FlightPerPerson, d.Cost.HotelPerPerson, d.Cost.LivingPerPerson)
	}

	b.WriteString("\nOrder these destinations from best to worst fit and explain each. ")
	b.WriteString(`Respond ONLY with JSON: {"destinations": [{"name": "...", "country": "...", "description": "...", "why_perfect": "...", "highlights": ["..."]}]}. `)
	b.WriteString("Use the exact destination names given above.")
	return b.String()
}

// matchCategory maps a free-text destination type onto the closed category
// set. First match in fixed category order wins; no match means no filter.
func matchCategory(s string) Category {
	lower := strings.ToLower(s)
	for _, cat := range Categories {
		if strings.Contains(lower, string(cat)) {
			return cat
		}
	}
	return ""
}

// overallQuality folds per-destination provenance into one tag: live only
// when everything was live, full-fallback only when nothing was.
func overallQuality(destinations []Destination) string {
	if len(destinations) == 0 {
		return EstimateFullFallback
	}
	allLive, allFallback := true, true
	for _, d := range destinations {
		switch d.Cost.Source {
		case EstimateLive:
			allFallback = false
		case EstimateFullFallback:
			allLive = false
		default:
			allLive, allFallback = false, false
		}
	}
	switch {
	case allLive:
		return EstimateLive
	case allFallback:
		return EstimateFullFallback
	default:
		return EstimatePartialFallback
	}
}

func travelTips(scope Scope, category Category) []string {
	var tips []string
	if scope == ScopeDomestic {
		tips = append(tips,
			"Book flights 2-3 months ahead for the best domestic fares",
			"Check for local events and festivals during your visit")
	} else {
		tips = append(tips,
			"Book international flights 3-6 months in advance",
			"Check visa requirements and passport validity",
			"Consider travel insurance for international trips")
	}

	switch category {
	case CategoryBeach:
		tips = append(tips, "Pack sunscreen and book beachfront stays early in peak season")
	case CategoryMountain:
		tips = append(tips, "Check trail and weather conditions before heading out")
	case CategoryCity:
		tips = append(tips, "Look into public transport passes, they usually beat taxis")
	case CategoryHistoric, CategoryReligious:
		tips = append(tips, "Reserve timed-entry tickets for major sites ahead of time")
	}
	return tips
}

// departureDateFor picks a concrete search date from the free-text travel
// dates. Month names map to the next occurrence of that month; anything else
// defaults to one month out.
func departureDateFor(travelDates string) string {
	now := time.Now()
	lower := strings.ToLower(travelDates)

	for m := time.January; m <= time.December; m++ {
		if strings.Contains(lower, strings.ToLower(m.String())) {
			year := now.Year()
			if m < now.Month() || (m == now.Month() && now.Day() > 15) {
				year++
			}
			return time.Date(year, m, 15, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		}
	}
	return now.AddDate(0, 1, 0).Format("2006-01-02")
}

func returnDateFor(travelDates string, days int) string {
	dep, err := time.Parse("2006-01-02", departureDateFor(travelDates))
	if err != nil {
		dep = time.Now().AddDate(0, 1, 0)
	}
	return dep.AddDate(0, 0, days).Format("2006-01-02")
}

// Summary renders a compact text version of the result for chat replies.
func (r *Result) Summary() string {
	if len(r.Destinations) == 0 {
		return "I couldn't find destinations matching your budget. Try widening the range or a different destination type."
	}

	var b strings.Builder
	b.WriteString("Here are your top matches:\n")
	for i, d := range r.Destinations {
		fmt.Fprintf(&b, "%d. %s, %s - about %.0f %s per person", i+1, d.Name, d.Country, d.Cost.TotalPerPerson, d.Cost.Currency)
		if d.WhyPerfect != "" {
			b.WriteString(": " + d.WhyPerfect)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
