// Package scan finds allergen categories in food names and ingredient lists
// and assesses them against a user's allergen profile.
package scan

import (
	"strings"
	"unicode"

	"github.com/pageza/allergyaid/backend/internal/crossreact"
	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/pageza/allergyaid/backend/internal/openfoodfacts"
)

// Match is a food allergen that hits an allergen in the profile.
type Match struct {
	Allergen string               `json:"allergen"`
	Found    string               `json:"found"`
	Level    float64              `json:"level"`
	Severity models.SeverityClass `json:"severity"`
}

// Warning flags a food allergen that cross-reacts with a profile allergen.
type Warning struct {
	Allergen string `json:"allergen"`
	Found    string `json:"found"`
}

// Assessment is the verdict for one food.
type Assessment struct {
	Allergens     []string  `json:"allergens"`
	Matches       []Match   `json:"matches"`
	CrossReactive []Warning `json:"cross_reactive"`
	Severity      string    `json:"severity"`
	Safe          bool      `json:"safe"`
}

type Scanner struct {
	keywords []Keywords
	resolver *crossreact.Resolver
}

// NewScanner returns a scanner using DefaultKeywords. A nil resolver uses the
// built-in cross-reactivity table.
func NewScanner(resolver *crossreact.Resolver) *Scanner {
	if resolver == nil {
		resolver = crossreact.NewResolver(nil)
	}
	return &Scanner{keywords: DefaultKeywords, resolver: resolver}
}

// ScanText returns the categories whose keywords start a word in text.
func (s *Scanner) ScanText(text string) []string {
	padded := " " + normalizeText(text) + " "
	found := make([]string, 0)
	for _, k := range s.keywords {
		for _, w := range k.Words {
			if strings.Contains(padded, " "+w) {
				found = append(found, k.Category)
				break
			}
		}
	}
	return found
}

// Assess compares food allergens with the profile. A profile allergen hit
// directly is not also reported as a cross-reaction.
func (s *Scanner) Assess(foodAllergens []string, profile []models.Allergen) Assessment {
	a := Assessment{
		Allergens:     append([]string{}, foodAllergens...),
		Matches:       []Match{},
		CrossReactive: []Warning{},
	}

	var highest models.SeverityClass
	for _, p := range profile {
		direct := false
		for _, f := range foodAllergens {
			if !similar(p.Name, f) {
				continue
			}
			direct = true
			sev := models.ClassifySeverity(p.Level)
			a.Matches = append(a.Matches, Match{Allergen: p.Name, Found: f, Level: p.Level, Severity: sev})
			if sev.Rank() > highest.Rank() {
				highest = sev
			}
		}
		if direct {
			continue
		}

		related := s.resolver.Related(p.Name)
	found:
		for _, f := range foodAllergens {
			for _, r := range related {
				if similar(r, f) {
					a.CrossReactive = append(a.CrossReactive, Warning{Allergen: p.Name, Found: f})
					continue found
				}
			}
		}
	}

	if highest != "" {
		a.Severity = string(highest)
	} else {
		a.Severity = openfoodfacts.FoodSeverity(foodAllergens)
	}
	a.Safe = len(a.Matches) == 0 && len(a.CrossReactive) == 0
	return a
}

// similar matches case-insensitively on substrings in either direction.
func similar(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalizeText(text string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
