package scan

import (
	"testing"

	"github.com/pageza/allergyaid/backend/internal/crossreact"
	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanText(t *testing.T) {
	s := NewScanner(nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"nothing recognised", "Apple juice", []string{}},
		{"table order and no duplicates", "Cheese & egg sandwich with peanuts, extra cheese", []string{"peanuts", "milk", "eggs"}},
		{"case and punctuation", "TOFU-MISO soup", []string{"soy"}},
		{"keywords match word starts only", "Scotch whisky", []string{}},
		{"plural via prefix", "Shrimps and mussels", []string{"shellfish", "mollusks"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ScanText(tt.text))
		})
	}
}

func TestAssessDirectMatch(t *testing.T) {
	s := NewScanner(nil)
	profile := []models.Allergen{
		{Name: "Milk", Level: 4, Severity: models.SeverityModerate},
		{Name: "Peanuts", Level: 8.5, Severity: models.SeveritySevere},
	}

	a := s.Assess([]string{"peanuts", "milk"}, profile)

	require.Len(t, a.Matches, 2)
	assert.Equal(t, Match{Allergen: "Milk", Found: "milk", Level: 4, Severity: models.SeverityModerate}, a.Matches[0])
	assert.Equal(t, "Severe", a.Severity)
	assert.False(t, a.Safe)
	assert.Empty(t, a.CrossReactive)
}

func TestAssessSeverityFollowsLevelNotStoredClass(t *testing.T) {
	s := NewScanner(nil)
	profile := []models.Allergen{{Name: "Soy", Level: 2, Severity: models.SeveritySevere}}

	a := s.Assess([]string{"soy"}, profile)
	assert.Equal(t, "Mild", a.Severity)
}

func TestAssessCrossReactive(t *testing.T) {
	s := NewScanner(nil)
	profile := []models.Allergen{{Name: "Peanuts", Level: 8.5}}

	a := s.Assess([]string{"tree nuts", "soy"}, profile)

	assert.Empty(t, a.Matches)
	assert.Equal(t, []Warning{
		{Allergen: "Peanuts", Found: "tree nuts"},
		{Allergen: "Peanuts", Found: "soy"},
	}, a.CrossReactive)
	// no direct hit, so the food label rule applies
	assert.Equal(t, "Moderate", a.Severity)
	assert.False(t, a.Safe)
}

func TestAssessSafe(t *testing.T) {
	s := NewScanner(nil)

	a := s.Assess(nil, []models.Allergen{{Name: "Shellfish", Level: 9.1}})
	assert.True(t, a.Safe)
	assert.Equal(t, models.FoodSeverityNone, a.Severity)
	assert.Equal(t, []string{}, a.Allergens)

	a = s.Assess([]string{"shellfish"}, nil)
	assert.True(t, a.Safe)
	assert.Equal(t, "Severe", a.Severity)
}

func TestAssessUsesResolverTable(t *testing.T) {
	s := NewScanner(crossreact.NewResolver([]crossreact.Entry{{Allergen: "birch", Related: []string{"apple"}}}))

	a := s.Assess([]string{"apple"}, []models.Allergen{{Name: "Birch", Level: 5}})
	assert.Equal(t, []Warning{{Allergen: "Birch", Found: "apple"}}, a.CrossReactive)
}

func TestSimilar(t *testing.T) {
	assert.True(t, similar("Tree Nuts", "nuts"))
	assert.True(t, similar("nut", " Peanuts "))
	assert.False(t, similar("", "milk"))
	assert.False(t, similar("milk", "soy"))
}
