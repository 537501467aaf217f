package recommend

import (
	"fmt"
	"strconv"
	"strings"
)

// OpenEndedBudgetFactor caps an open-ended budget ("1500+") at N times the
// stated minimum. The multiplier is a product decision carried over from the
// original pricing heuristics, not derived from data.
const OpenEndedBudgetFactor = 2

// Envelope is the inclusive total-cost range a destination must fit.
type Envelope struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether a total falls inside the envelope, inclusive at
// both ends.
func (e Envelope) Contains(total float64) bool {
	return total >= e.Min && total <= e.Max
}

// ParseEnvelope turns a free-form budget string into an Envelope:
//
//	"1000-2000" -> {1000, 2000}
//	"1500+"     -> {1500, 1500 * OpenEndedBudgetFactor}
//	"800"       -> {0, 800}
//
// Currency symbols, commas and surrounding text are ignored.
func ParseEnvelope(s string) (Envelope, error) {
	cleaned := cleanBudget(s)
	if cleaned == "" {
		return Envelope{}, fmt.Errorf("no amount found in budget %q", s)
	}

	switch {
	case strings.Contains(cleaned, "-"):
		parts := strings.SplitN(cleaned, "-", 2)
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return Envelope{}, fmt.Errorf("invalid budget range %q", s)
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return Envelope{Min: lo, Max: hi}, nil

	case strings.HasSuffix(cleaned, "+"):
		lo, err := strconv.ParseFloat(strings.TrimSuffix(cleaned, "+"), 64)
		if err != nil {
			return Envelope{}, fmt.Errorf("invalid budget %q", s)
		}
		return Envelope{Min: lo, Max: lo * OpenEndedBudgetFactor}, nil

	default:
		hi, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return Envelope{}, fmt.Errorf("invalid budget %q", s)
		}
		return Envelope{Min: 0, Max: hi}, nil
	}
}

// cleanBudget extracts the first numeric expression, keeping range and
// open-ended markers attached to it.
func cleanBudget(s string) string {
	s = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(s)

	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := start
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			end++
			continue
		}
		break
	}
	return s[start:end]
}
