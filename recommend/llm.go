package recommend

import (
	"encoding/json"
	"strings"
)

// AIPlan is the structured shape the LLM is asked to produce.
type AIPlan struct {
	Destinations []AIDestination `json:"destinations"`
}

type AIDestination struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	WhyPerfect  string   `json:"why_perfect"`
	Highlights  []string `json:"highlights"`
}

// AIOutcome is the two-variant result of parsing an LLM reply: either a
// structured plan or the raw text it could not be parsed from. Exactly one
// branch is meaningful; callers switch on Structured().
type AIOutcome struct {
	Plan *AIPlan
	Raw  string
}

// Structured reports whether the reply parsed into a usable plan.
func (o AIOutcome) Structured() bool {
	return o.Plan != nil && len(o.Plan.Destinations) > 0
}

// ParseAIPlan extracts a JSON plan from a raw LLM reply. Models often wrap
// JSON in code fences or prose, so it scans for the outermost object before
// unmarshalling. Any failure yields the Unparseable branch, never an error.
func ParseAIPlan(raw string) AIOutcome {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return AIOutcome{Raw: raw}
	}

	var plan AIPlan
	if err := json.Unmarshal([]byte(text[start:end+1]), &plan); err != nil {
		return AIOutcome{Raw: raw}
	}
	if len(plan.Destinations) == 0 {
		return AIOutcome{Raw: raw}
	}
	return AIOutcome{Plan: &plan}
}
