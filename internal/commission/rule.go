package commission

import "strings"

// Flat commission tiers (euros). Achat and Location alone carry no prime.
const (
	standardAmount    = 100
	recruitmentAmount = 500
)

// eligibleKeywords are matched as substrings of the normalized project title,
// so "Location & Gestion" qualifies through "gestion" while "Location" alone
// does not.
var eligibleKeywords = []string{"vente", "gestion", "syndic", "ona", "entreprise"}

// AmountForProject maps a project category to its flat commission amount.
// Matching is case-insensitive on the trimmed title; unknown or empty titles
// yield 0.
func AmountForProject(projectTitle string) float64 {
	t := strings.ToLower(strings.TrimSpace(projectTitle))
	if t == "" {
		return 0
	}
	if strings.Contains(t, "recrutement") {
		return recruitmentAmount
	}
	for _, k := range eligibleKeywords {
		if strings.Contains(t, k) {
			return standardAmount
		}
	}
	return 0
}
