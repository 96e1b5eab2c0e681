// Package crossreact suggests allergens that commonly cross-react with a known one.
package crossreact

import "strings"

// NoKnownPlaceholder is shown when an allergen has no known cross-reactions.
const NoKnownPlaceholder = "No known cross-reactive allergens"

// Confidence is attached to every non-empty suggestion. It is not a computed score.
const Confidence = 0.8

// CrossAllergen is the cross-reactivity suggestion for one profile allergen.
type CrossAllergen struct {
	Allergen               string   `json:"allergen"`
	CrossReactiveAllergens []string `json:"cross_reactive_allergens"`
	Confidence             float64  `json:"confidence"`
}

// Resolver looks allergens up in a fixed, ordered table. It is safe for
// concurrent use because the table is never modified after construction.
type Resolver struct {
	entries []Entry
	index   map[string]int
}

// NewResolver builds a resolver over table. A nil or empty table falls back
// to DefaultTable.
func NewResolver(table []Entry) *Resolver {
	if len(table) == 0 {
		table = DefaultTable
	}
	r := &Resolver{
		entries: make([]Entry, len(table)),
		index:   make(map[string]int, len(table)),
	}
	for i, e := range table {
		r.entries[i] = Entry{Allergen: e.Allergen, Related: append([]string(nil), e.Related...)}
		if _, ok := r.index[e.Allergen]; !ok {
			r.index[e.Allergen] = i
		}
	}
	return r
}

// Related returns the allergens associated with name. Lookup order is exact
// key, then partial key match, then partial match against related values, in
// which case the matching key is prepended to its list. The result is never
// nil and is a copy the caller may modify.
func (r *Resolver) Related(name string) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return []string{}
	}

	if i, ok := r.index[needle]; ok {
		return r.copyRelated(i)
	}

	for i, e := range r.entries {
		if strings.Contains(needle, e.Allergen) || strings.Contains(e.Allergen, needle) {
			return r.copyRelated(i)
		}
	}

	for _, e := range r.entries {
		for _, v := range e.Related {
			if strings.Contains(v, needle) || strings.Contains(needle, v) {
				out := make([]string, 0, len(e.Related)+1)
				out = append(out, e.Allergen)
				return append(out, e.Related...)
			}
		}
	}

	return []string{}
}

// LikelyFor is Related with the placeholder substituted for an empty result.
func (r *Resolver) LikelyFor(name string) []string {
	if related := r.Related(name); len(related) > 0 {
		return related
	}
	return []string{NoKnownPlaceholder}
}

// Analyze returns one suggestion per allergen that has any cross-reactions.
func (r *Resolver) Analyze(names []string) []CrossAllergen {
	results := make([]CrossAllergen, 0, len(names))
	for _, name := range names {
		related := r.Related(name)
		if len(related) == 0 {
			continue
		}
		results = append(results, CrossAllergen{
			Allergen:               name,
			CrossReactiveAllergens: related,
			Confidence:             Confidence,
		})
	}
	return results
}

// Categories lists the table keys in order.
func (r *Resolver) Categories() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Allergen
	}
	return keys
}

func (r *Resolver) copyRelated(i int) []string {
	return append([]string{}, r.entries[i].Related...)
}
