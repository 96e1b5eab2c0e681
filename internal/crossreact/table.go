package crossreact

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry maps one allergen category to the categories it cross-reacts with.
type Entry struct {
	Allergen string   `yaml:"allergen" json:"allergen"`
	Related  []string `yaml:"related" json:"related"`
}

// DefaultTable is the built-in cross-reactivity table. Order matters: partial
// matches resolve to the first entry that matches.
var DefaultTable = []Entry{
	{"peanuts", []string{"tree nuts", "legumes", "soy"}},
	{"tree nuts", []string{"peanuts", "seeds", "fruits"}},
	{"milk", []string{"beef", "whey", "casein", "lactose"}},
	{"eggs", []string{"chicken", "feathers", "albumin"}},
	{"fish", []string{"shellfish", "seafood", "crustaceans"}},
	{"shellfish", []string{"fish", "mollusks", "crustaceans"}},
	{"wheat", []string{"gluten", "rye", "barley", "oats"}},
	{"soy", []string{"peanuts", "legumes", "beans"}},
	{"sesame", []string{"tree nuts", "seeds", "tahini"}},
	{"gluten", []string{"wheat", "rye", "barley", "spelt"}},
	{"fruits", []string{"latex", "pollen", "tree nuts"}},
	{"vegetables", []string{"latex", "pollen", "herbs"}},
	{"latex", []string{"banana", "avocado", "kiwi", "chestnut"}},
	{"mustard", []string{"seeds", "spices", "condiments"}},
	{"celery", []string{"birch pollen", "carrot", "fennel"}},
	{"sulfites", []string{"wine", "dried fruits", "preserved foods"}},
	{"lupine", []string{"peanuts", "legumes", "flour"}},
	{"mollusks", []string{"shellfish", "seafood", "dust mites"}},
}

type tableFile struct {
	Entries []Entry `yaml:"entries"`
}

// LoadTable reads a YAML cross-reactivity table of the form
//
//	entries:
//	  - allergen: peanuts
//	    related: [tree nuts, legumes]
//
// Keys and values are lowercased. Entry order is kept.
func LoadTable(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cross-reactivity table: %w", err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cross-reactivity table %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Entries))
	table := make([]Entry, 0, len(f.Entries))
	for i, e := range f.Entries {
		key := strings.ToLower(strings.TrimSpace(e.Allergen))
		if key == "" {
			return nil, fmt.Errorf("entry %d in %s has no allergen", i, path)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate allergen %q in %s", key, path)
		}
		seen[key] = true

		related := make([]string, 0, len(e.Related))
		for _, r := range e.Related {
			if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
				related = append(related, r)
			}
		}
		table = append(table, Entry{Allergen: key, Related: related})
	}
	return table, nil
}
