package openfoodfacts

import (
	"strings"

	"github.com/pageza/allergyaid/backend/internal/models"
)

// Product holds the Open Food Facts product fields the app consumes.
type Product struct {
	Barcode         string   `json:"code,omitempty"`
	ProductName     string   `json:"product_name"`
	Brands          string   `json:"brands"`
	ImageURL        string   `json:"image_url"`
	AllergensTags   []string `json:"allergens_tags"`
	Allergens       string   `json:"allergens"`
	IngredientsText string   `json:"ingredients_text"`
}

// productResponse is the envelope of GET /api/v2/product/{barcode}.json.
// Status is nil when the field is absent, which is not the same as 0.
type productResponse struct {
	Status        *int     `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Product       *Product `json:"product"`
}

// DisplayName falls back to a barcode label when the product has no name.
func (p *Product) DisplayName(barcode string) string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return "Product (" + barcode + ")"
}

// ExtractAllergens lists the product's allergens. Tags such as
// "en:tree-nuts" become "tree nuts"; without tags the comma separated
// allergens field is used.
func ExtractAllergens(p *Product) []string {
	if p == nil {
		return []string{}
	}

	if len(p.AllergensTags) > 0 {
		out := make([]string, 0, len(p.AllergensTags))
		for _, tag := range p.AllergensTags {
			tag = strings.Replace(tag, "en:", "", 1)
			out = append(out, strings.ReplaceAll(tag, "-", " "))
		}
		return out
	}

	if p.Allergens != "" {
		parts := strings.Split(p.Allergens, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			out = append(out, strings.TrimSpace(part))
		}
		return out
	}

	return []string{}
}

// FoodSeverity is the label given to a saved product: None without
// allergens, Severe when peanut or shellfish is listed, Moderate otherwise.
func FoodSeverity(allergens []string) string {
	if len(allergens) == 0 {
		return models.FoodSeverityNone
	}
	for _, a := range allergens {
		if strings.Contains(a, "peanut") || strings.Contains(a, "shellfish") {
			return string(models.SeveritySevere)
		}
	}
	return string(models.SeverityModerate)
}
