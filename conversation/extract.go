package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"wayfarer/recommend"
)

// Slot extraction is deliberately rule-based and deterministic: the same
// message always yields the same slot value, so a replayed turn cannot move
// the dialogue differently.

var (
	fromPattern     = regexp.MustCompile(`(?i)\b(?:from|in|at|near)\s+([a-zA-Z][a-zA-Z .,'-]*)`)
	peoplePattern   = regexp.MustCompile(`(?i)\b(\d+)\s*(?:people|person(?:s)?|travell?ers?|adults?|pax|of us)\b`)
	familyPattern   = regexp.MustCompile(`(?i)\bfamily\s+of\s+(\d+)\b`)
	barePeoplePat   = regexp.MustCompile(`^\s*(\d{1,2})\s*$`)
	rangePattern    = regexp.MustCompile(`\d[\d,]*\s*-\s*\d[\d,]*`)
	openPattern     = regexp.MustCompile(`\d[\d,]*\s*\+`)
	numberPattern   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	durationPattern = regexp.MustCompile(`(?i)\b(\d+)\s*(?:days?|nights?)\b`)
)

// Whole words only, so "maybe" does not read as "may".
var monthPattern = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\b`)

var datePhrases = []string{
	"next week", "next month", "this weekend", "next weekend",
	"summer", "winter", "spring", "fall", "autumn", "holidays", "christmas", "new year",
}

// categoryKeywords maps synonyms onto the closed category set. Checked in
// recommend.Categories order, first match wins.
var categoryKeywords = map[recommend.Category][]string{
	recommend.CategoryBeach:     {"beach", "ocean", "sea", "coast", "island", "tropical"},
	recommend.CategoryMountain:  {"mountain", "ski", "hiking", "alps", "trek"},
	recommend.CategoryCity:      {"city", "urban", "metropol", "nightlife"},
	recommend.CategoryHistoric:  {"histor", "heritage", "ancient", "museum"},
	recommend.CategoryReligious: {"religio", "temple", "pilgrim", "spiritual", "sacred"},
	recommend.CategoryAdventure: {"adventure", "adrenaline", "extreme", "rafting", "diving"},
	recommend.CategoryRelaxing:  {"relax", "spa", "peaceful", "quiet", "calm", "wellness"},
}

// ExtractTravelFrom pulls an origin place out of the message. A short
// message with no digits is taken verbatim, so "Dallas" works as well as
// "I'm traveling from Dallas".
func ExtractTravelFrom(message string) string {
	if m := fromPattern.FindStringSubmatch(message); m != nil {
		return cleanPlace(m[1])
	}
	trimmed := strings.TrimSpace(message)
	if trimmed != "" && len(trimmed) <= 40 && !strings.ContainsAny(trimmed, "0123456789?") {
		return cleanPlace(trimmed)
	}
	return ""
}

func cleanPlace(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".,!?")
	// Cut trailing clauses like "from Dallas and we want..."
	for _, stop := range []string{" and ", " but ", " with "} {
		if i := strings.Index(strings.ToLower(s), stop); i > 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func ExtractTravelType(message string) recommend.Scope {
	lower := strings.ToLower(message)
	for _, kw := range []string{"domestic", "local", "within"} {
		if strings.Contains(lower, kw) {
			return recommend.ScopeDomestic
		}
	}
	for _, kw := range []string{"international", "abroad", "overseas", "foreign"} {
		if strings.Contains(lower, kw) {
			return recommend.ScopeInternational
		}
	}
	return ""
}

func ExtractDestinationType(message string) string {
	lower := strings.ToLower(message)
	for _, cat := range recommend.Categories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return string(cat)
			}
		}
	}
	return ""
}

func ExtractPeopleCount(message string) int {
	for _, pat := range []*regexp.Regexp{peoplePattern, familyPattern, barePeoplePat} {
		if m := pat.FindStringSubmatch(message); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 && n <= 50 {
				return n
			}
		}
	}
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "solo"), strings.Contains(lower, "alone"),
		strings.Contains(lower, "just me"), strings.Contains(lower, "myself"):
		return 1
	case strings.Contains(lower, "couple"), strings.Contains(lower, "two of us"):
		return 2
	}
	return 0
}

// ExtractBudget returns the normalized budget string ("1000-2000", "1500+",
// "800") and the detected currency, defaulting to USD.
func ExtractBudget(message string) (budget, currency string) {
	currency = "USD"
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(message, "€"), strings.Contains(lower, "eur"):
		currency = "EUR"
	case strings.Contains(message, "£"), strings.Contains(lower, "gbp"), strings.Contains(lower, "pound"):
		currency = "GBP"
	case strings.Contains(lower, "jpy"), strings.Contains(lower, "yen"):
		currency = "JPY"
	}

	compact := strings.NewReplacer(",", "", "$", "", "€", "", "£", "").Replace(message)
	if m := rangePattern.FindString(compact); m != "" {
		return strings.ReplaceAll(strings.TrimSpace(m), " ", ""), currency
	}
	if m := openPattern.FindString(compact); m != "" {
		return strings.ReplaceAll(strings.TrimSpace(m), " ", ""), currency
	}
	if m := numberPattern.FindString(compact); m != "" {
		return m, currency
	}
	return "", currency
}

// ExtractDates returns the free-text travel dates plus an optional duration
// in days when one was stated.
func ExtractDates(message string) (dates string, durationDays int) {
	lower := strings.ToLower(message)

	if m := durationPattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n <= 365 {
			durationDays = n
		}
	}

	if monthPattern.MatchString(message) {
		return strings.TrimSpace(message), durationDays
	}
	for _, phrase := range datePhrases {
		if strings.Contains(lower, phrase) {
			return strings.TrimSpace(message), durationDays
		}
	}
	if durationDays > 0 {
		return strings.TrimSpace(message), durationDays
	}
	// Concrete dates like "2026-10-01" or "10/15" also count.
	if regexp.MustCompile(`\d`).MatchString(message) {
		return strings.TrimSpace(message), durationDays
	}
	return "", 0
}

// ExtractPreferences treats negatives as "none" and keeps everything else
// verbatim. The bool reports whether the question was answered at all.
func ExtractPreferences(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", false
	}
	lower := strings.ToLower(strings.TrimRight(trimmed, ".,!"))
	for _, neg := range []string{"no", "none", "nothing", "nope", "no thanks", "that's all", "thats all", "nah"} {
		if lower == neg {
			return "", true
		}
	}
	return trimmed, true
}
