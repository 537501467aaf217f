package recommend

import (
	"context"
	"sort"
)

// MixPerCategoryCap bounds how many candidates each category contributes
// when a requested category has no matches and the pool falls back to a mix.
const MixPerCategoryCap = 2

// Ranked is a candidate with its computed trip total in the target currency.
type Ranked struct {
	Candidate
	TotalCost float64 `json:"total_cost"`
	Currency  string  `json:"currency"`
}

// SelectByCategory restricts the pool to one category. When nothing matches
// (or no category is given) it returns a capped round-robin mix across all
// categories in their fixed order, preserving insertion order within each.
func SelectByCategory(pool []Candidate, category Category) []Candidate {
	if category != "" {
		var matched []Candidate
		for _, c := range pool {
			if c.Category == category {
				matched = append(matched, c)
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}
	return cappedMix(pool)
}

func cappedMix(pool []Candidate) []Candidate {
	byCategory := make(map[Category][]Candidate)
	for _, c := range pool {
		if len(byCategory[c.Category]) < MixPerCategoryCap {
			byCategory[c.Category] = append(byCategory[c.Category], c)
		}
	}

	var mixed []Candidate
	for round := 0; round < MixPerCategoryCap; round++ {
		for _, cat := range Categories {
			if cs := byCategory[cat]; round < len(cs) {
				mixed = append(mixed, cs[round])
			}
		}
	}
	return mixed
}

// Rank computes each candidate's trip total (daily cost times days plus
// average flight), converts it to the target currency, keeps the ones inside
// the envelope (inclusive at both ends), and orders them by total ascending.
// Ties keep pool order, so output is reproducible.
func Rank(ctx context.Context, pool []Candidate, env Envelope, days int, conv Converter, currency string) ([]Ranked, error) {
	if days <= 0 {
		days = DefaultTripDays
	}
	if currency == "" {
		currency = "USD"
	}

	ranked := make([]Ranked, 0, len(pool))
	for _, c := range pool {
		totalUSD := c.DailyCostUSD*float64(days) + c.AvgFlightCostUSD
		total, _, _, err := conv.Convert(ctx, totalUSD, "USD", currency)
		if err != nil {
			return nil, err
		}
		if !env.Contains(total) {
			continue
		}
		ranked = append(ranked, Ranked{Candidate: c, TotalCost: round2(total), Currency: currency})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCost < ranked[j].TotalCost
	})
	return ranked, nil
}
