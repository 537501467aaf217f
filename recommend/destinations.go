package recommend

// Category classifies a destination for slot matching. The set is closed;
// extraction maps free-text keywords onto it.
type Category string

const (
	CategoryBeach     Category = "beach"
	CategoryMountain  Category = "mountain"
	CategoryCity      Category = "city"
	CategoryHistoric  Category = "historic"
	CategoryReligious Category = "religious"
	CategoryAdventure Category = "adventure"
	CategoryRelaxing  Category = "relaxing"
)

// Categories in their fixed matching and mixing order.
var Categories = []Category{
	CategoryBeach,
	CategoryMountain,
	CategoryCity,
	CategoryHistoric,
	CategoryReligious,
	CategoryAdventure,
	CategoryRelaxing,
}

// Scope distinguishes the two candidate pools.
type Scope string

const (
	ScopeDomestic      Scope = "domestic"
	ScopeInternational Scope = "international"
)

// Candidate is one destination the ranker can propose. DailyCostUSD and
// AvgFlightCostUSD are catalog estimates used for filtering and as fallback
// figures when live pricing is unavailable.
type Candidate struct {
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	CityCode         string   `json:"city_code"`
	Category         Category `json:"type"`
	Description      string   `json:"description"`
	Rating           float64  `json:"rating"`
	DailyCostUSD     float64  `json:"daily_cost_usd"`
	AvgFlightCostUSD float64  `json:"avg_flight_cost_usd"`
	Highlights       []string `json:"highlights"`
	BestTime         string   `json:"best_time"`
}

// Catalog holds the candidate pools keyed by travel scope.
type Catalog struct {
	domestic      []Candidate
	international []Candidate
}

// Pool returns the candidates for a scope. Unknown scopes get the
// international pool.
func (c *Catalog) Pool(scope Scope) []Candidate {
	if scope == ScopeDomestic {
		return c.domestic
	}
	return c.international
}

// All returns every candidate, domestic first.
func (c *Catalog) All() []Candidate {
	out := make([]Candidate, 0, len(c.domestic)+len(c.international))
	out = append(out, c.domestic...)
	out = append(out, c.international...)
	return out
}

// DefaultCatalog is the built-in destination set, assuming a US origin for
// the domestic/international split.
func DefaultCatalog() *Catalog {
	return &Catalog{
		domestic: []Candidate{
			{Name: "Miami Beach, Florida", Country: "USA", CityCode: "MIA", Category: CategoryBeach, Description: "Sunny beaches with vibrant nightlife and culture", Rating: 4.6, DailyCostUSD: 80, AvgFlightCostUSD: 200, Highlights: []string{"Beaches", "Nightlife", "Culture"}, BestTime: "March-May, September-November"},
			{Name: "Hawaii, USA", Country: "USA", CityCode: "HNL", Category: CategoryBeach, Description: "Paradise islands with stunning beaches and volcanoes", Rating: 4.8, DailyCostUSD: 120, AvgFlightCostUSD: 400, Highlights: []string{"Beaches", "Volcanoes", "Adventure"}, BestTime: "April-October"},
			{Name: "San Diego, California", Country: "USA", CityCode: "SAN", Category: CategoryBeach, Description: "Laid-back coastal city with year-round sunshine", Rating: 4.5, DailyCostUSD: 110, AvgFlightCostUSD: 250, Highlights: []string{"Beaches", "Zoo", "Food"}, BestTime: "March-November"},
			{Name: "Rocky Mountains, Colorado", Country: "USA", CityCode: "DEN", Category: CategoryMountain, Description: "Majestic mountains perfect for skiing and hiking", Rating: 4.7, DailyCostUSD: 100, AvgFlightCostUSD: 300, Highlights: []string{"Skiing", "Hiking", "Scenic Views"}, BestTime: "December-March, June-September"},
			{Name: "Lake Tahoe, Nevada", Country: "USA", CityCode: "RNO", Category: CategoryMountain, Description: "Alpine lake with slopes in winter and trails in summer", Rating: 4.6, DailyCostUSD: 115, AvgFlightCostUSD: 280, Highlights: []string{"Skiing", "Lake", "Hiking"}, BestTime: "December-April, June-September"},
			{Name: "New York City", Country: "USA", CityCode: "NYC", Category: CategoryCity, Description: "The city that never sleeps with endless entertainment", Rating: 4.5, DailyCostUSD: 150, AvgFlightCostUSD: 100, Highlights: []string{"Culture", "Food", "Shopping"}, BestTime: "April-June, September-November"},
			{Name: "Chicago, Illinois", Country: "USA", CityCode: "CHI", Category: CategoryCity, Description: "Architecture, museums and deep-dish on Lake Michigan", Rating: 4.4, DailyCostUSD: 120, AvgFlightCostUSD: 150, Highlights: []string{"Architecture", "Museums", "Food"}, BestTime: "May-October"},
			{Name: "Washington, D.C.", Country: "USA", CityCode: "WAS", Category: CategoryHistoric, Description: "Monuments, memorials and world-class free museums", Rating: 4.5, DailyCostUSD: 130, AvgFlightCostUSD: 140, Highlights: []string{"History", "Museums", "Monuments"}, BestTime: "March-June, September-November"},
			{Name: "Sedona, Arizona", Country: "USA", CityCode: "PHX", Category: CategoryRelaxing, Description: "Red rock country known for spas and quiet canyons", Rating: 4.7, DailyCostUSD: 140, AvgFlightCostUSD: 220, Highlights: []string{"Spas", "Hiking", "Scenery"}, BestTime: "March-May, September-November"},
			{Name: "Moab, Utah", Country: "USA", CityCode: "SLC", Category: CategoryAdventure, Description: "Arches, canyons and slickrock for every adrenaline level", Rating: 4.8, DailyCostUSD: 95, AvgFlightCostUSD: 260, Highlights: []string{"Climbing", "Rafting", "National Parks"}, BestTime: "April-May, September-October"},
		},
		international: []Candidate{
			{Name: "Bali, Indonesia", Country: "Indonesia", CityCode: "DPS", Category: CategoryBeach, Description: "Tropical paradise with beautiful beaches, temples, and culture", Rating: 4.8, DailyCostUSD: 100, AvgFlightCostUSD: 500, Highlights: []string{"Beaches", "Temples", "Culture"}, BestTime: "April-October"},
			{Name: "Maldives", Country: "Maldives", CityCode: "MLE", Category: CategoryBeach, Description: "Luxury overwater bungalows and crystal clear waters", Rating: 4.9, DailyCostUSD: 150, AvgFlightCostUSD: 600, Highlights: []string{"Luxury", "Snorkeling", "Relaxation"}, BestTime: "November-April"},
			{Name: "Santorini, Greece", Country: "Greece", CityCode: "JTR", Category: CategoryBeach, Description: "Stunning white buildings and blue waters", Rating: 4.7, DailyCostUSD: 120, AvgFlightCostUSD: 500, Highlights: []string{"Beaches", "Sunsets", "Romance"}, BestTime: "June-September"},
			{Name: "Swiss Alps", Country: "Switzerland", CityCode: "ZRH", Category: CategoryMountain, Description: "Majestic peaks for skiing, hiking and scenic rail", Rating: 4.9, DailyCostUSD: 120, AvgFlightCostUSD: 400, Highlights: []string{"Skiing", "Hiking", "Scenic Views"}, BestTime: "December-March, June-September"},
			{Name: "Banff, Canada", Country: "Canada", CityCode: "YYC", Category: CategoryMountain, Description: "Turquoise lakes and glacier peaks in the Rockies", Rating: 4.8, DailyCostUSD: 105, AvgFlightCostUSD: 350, Highlights: []string{"Lakes", "Wildlife", "Hiking"}, BestTime: "June-September, December-March"},
			{Name: "Tokyo, Japan", Country: "Japan", CityCode: "TYO", Category: CategoryCity, Description: "Modern metropolis with rich culture and technology", Rating: 4.7, DailyCostUSD: 100, AvgFlightCostUSD: 500, Highlights: []string{"Technology", "Culture", "Food"}, BestTime: "March-May, September-November"},
			{Name: "Barcelona, Spain", Country: "Spain", CityCode: "BCN", Category: CategoryCity, Description: "Gaudí architecture, tapas and Mediterranean beaches", Rating: 4.6, DailyCostUSD: 110, AvgFlightCostUSD: 450, Highlights: []string{"Architecture", "Food", "Beaches"}, BestTime: "May-June, September-October"},
			{Name: "Rome, Italy", Country: "Italy", CityCode: "ROM", Category: CategoryHistoric, Description: "Ancient city with incredible history and architecture", Rating: 4.6, DailyCostUSD: 150, AvgFlightCostUSD: 500, Highlights: []string{"History", "Architecture", "Food"}, BestTime: "April-June, September-October"},
			{Name: "Paris, France", Country: "France", CityCode: "PAR", Category: CategoryHistoric, Description: "City of love with iconic landmarks and culture", Rating: 4.5, DailyCostUSD: 180, AvgFlightCostUSD: 600, Highlights: []string{"History", "Art", "Food"}, BestTime: "April-June, September-October"},
			{Name: "Kyoto, Japan", Country: "Japan", CityCode: "UKY", Category: CategoryReligious, Description: "Thousands of temples and shrines amid old-town lanes", Rating: 4.8, DailyCostUSD: 90, AvgFlightCostUSD: 520, Highlights: []string{"Temples", "Gardens", "Tradition"}, BestTime: "March-May, October-November"},
			{Name: "Queenstown, New Zealand", Country: "New Zealand", CityCode: "ZQN", Category: CategoryAdventure, Description: "Bungee, jet boats and alpine treks at the adventure capital", Rating: 4.8, DailyCostUSD: 110, AvgFlightCostUSD: 700, Highlights: []string{"Bungee", "Hiking", "Scenery"}, BestTime: "December-February, June-August"},
			{Name: "Ubud, Indonesia", Country: "Indonesia", CityCode: "DPS", Category: CategoryRelaxing, Description: "Rice terraces, yoga retreats and slow mornings", Rating: 4.7, DailyCostUSD: 70, AvgFlightCostUSD: 500, Highlights: []string{"Yoga", "Nature", "Spas"}, BestTime: "April-October"},
		},
	}
}
