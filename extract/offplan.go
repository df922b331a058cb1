package extract

import (
	"regexp"
	"strings"
)

var (
	offPlanTokens   = []string{"off plan", "offplan", "off-plan", "under construction"}
	offPlanSpacedRe = regexp.MustCompile(`(?i)\boff[\s\d\w]+plan\b`)
)

// NormalizeOffPlan collapses spacing variants like "off  the  plan" to the
// canonical "off-plan" token so the keyword scan catches them.
func NormalizeOffPlan(text string) string {
	if text == "" {
		return text
	}
	return offPlanSpacedRe.ReplaceAllString(text, "off-plan")
}

// HasOffPlan reports whether a single fragment mentions an off-plan or
// under-construction state.
func HasOffPlan(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, token := range offPlanTokens {
		if strings.Contains(t, token) {
			return true
		}
	}
	return false
}

// IsOffPlan runs the off-plan detector over title, description and any
// scraped labels, normalizing spacing variants first.
func IsOffPlan(title, description string, labels []string) bool {
	if HasOffPlan(NormalizeOffPlan(title)) || HasOffPlan(NormalizeOffPlan(description)) {
		return true
	}
	for _, l := range labels {
		if HasOffPlan(NormalizeOffPlan(l)) {
			return true
		}
	}
	return false
}

// FoldAvailability reduces scraped status labels to a single availability
// state: any "sold" label wins over "delisted", everything else is
// Available.
func FoldAvailability(labels []string) string {
	anyContains := func(sub string) bool {
		for _, l := range labels {
			if strings.Contains(strings.ToLower(l), sub) {
				return true
			}
		}
		return false
	}
	if anyContains("sold") {
		return "Sold"
	}
	if anyContains("delisted") {
		return "Delisted"
	}
	return "Available"
}
