package crossreact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedExactMatch(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, []string{"tree nuts", "legumes", "soy"}, r.Related("peanuts"))
	assert.Equal(t, []string{"tree nuts", "legumes", "soy"}, r.Related("Peanuts"))
	assert.Equal(t, []string{"fish", "mollusks", "crustaceans"}, r.Related("SHELLFISH"))
}

func TestRelatedPartialKeyMatch(t *testing.T) {
	r := NewResolver(nil)

	t.Run("input contains key", func(t *testing.T) {
		assert.Equal(t, []string{"shellfish", "seafood", "crustaceans"}, r.Related("fish oil"))
		assert.Equal(t, []string{"beef", "whey", "casein", "lactose"}, r.Related("Cow Milk"))
	})

	t.Run("key contains input", func(t *testing.T) {
		assert.Equal(t, []string{"tree nuts", "legumes", "soy"}, r.Related("peanut"))
		assert.Equal(t, []string{"chicken", "feathers", "albumin"}, r.Related("egg"))
	})

	t.Run("first key in table order wins", func(t *testing.T) {
		// "nut" is contained in both "peanuts" and "tree nuts"
		assert.Equal(t, []string{"tree nuts", "legumes", "soy"}, r.Related("nut"))
	})
}

func TestRelatedValueMatchPrependsKey(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, []string{"milk", "beef", "whey", "casein", "lactose"}, r.Related("casein"))
	assert.Equal(t, []string{"latex", "banana", "avocado", "kiwi", "chestnut"}, r.Related("Banana"))
	assert.Equal(t, []string{"tree nuts", "peanuts", "seeds", "fruits"}, r.Related("seeds"))
}

func TestRelatedNoMatch(t *testing.T) {
	r := NewResolver(nil)

	got := r.Related("xyz-unknown")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, r.Related(""))
	assert.Empty(t, r.Related("   "))
}

func TestRelatedReturnsCopy(t *testing.T) {
	r := NewResolver(nil)

	got := r.Related("peanuts")
	got[0] = "changed"

	assert.Equal(t, []string{"tree nuts", "legumes", "soy"}, r.Related("peanuts"))
}

func TestLikelyFor(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, []string{NoKnownPlaceholder}, r.LikelyFor("xyz-unknown"))
	assert.Equal(t, []string{"gluten", "rye", "barley", "oats"}, r.LikelyFor("Wheat"))
}

func TestAnalyze(t *testing.T) {
	r := NewResolver(nil)

	got := r.Analyze([]string{"Peanuts", "xyz-unknown", "Sesame"})
	require.Len(t, got, 2)

	assert.Equal(t, "Peanuts", got[0].Allergen)
	assert.Equal(t, []string{"tree nuts", "legumes", "soy"}, got[0].CrossReactiveAllergens)
	assert.Equal(t, 0.8, got[0].Confidence)

	assert.Equal(t, "Sesame", got[1].Allergen)
	assert.Equal(t, []string{"tree nuts", "seeds", "tahini"}, got[1].CrossReactiveAllergens)

	assert.Empty(t, r.Analyze(nil))
}

func TestCategoriesKeepTableOrder(t *testing.T) {
	r := NewResolver(nil)

	cats := r.Categories()
	require.Len(t, cats, 18)
	assert.Equal(t, "peanuts", cats[0])
	assert.Equal(t, "mollusks", cats[17])
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	data := `
entries:
  - allergen: Kiwi
    related: [Latex, banana, " "]
  - allergen: buckwheat
    related: [rice]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, Entry{Allergen: "kiwi", Related: []string{"latex", "banana"}}, table[0])

	r := NewResolver(table)
	assert.Equal(t, []string{"latex", "banana"}, r.Related("KIWI"))
	assert.Equal(t, []string{"buckwheat", "rice"}, r.Related("rice"))
	assert.Empty(t, r.Related("peanuts"))
}

func TestLoadTableErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	dup := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(dup, []byte("entries:\n  - allergen: soy\n  - allergen: SOY\n"), 0o644))
	_, err = LoadTable(dup)
	assert.ErrorContains(t, err, "duplicate allergen")

	blank := filepath.Join(dir, "blank.yaml")
	require.NoError(t, os.WriteFile(blank, []byte("entries:\n  - related: [x]\n"), 0o644))
	_, err = LoadTable(blank)
	assert.ErrorContains(t, err, "has no allergen")
}
