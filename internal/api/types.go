package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/allergyaid/backend/internal/models"
)

// AllergenRequest is the body for adding or updating one allergen. Any
// severity sent by the client is ignored; it follows from the level.
type AllergenRequest struct {
	Name  string  `json:"name" binding:"required"`
	Level float64 `json:"level"`
	Date  string  `json:"date"`
}

func (r AllergenRequest) toModel() (models.Allergen, error) {
	if strings.TrimSpace(r.Name) == "" {
		return models.Allergen{}, errors.New("allergen name is required")
	}
	if !models.ValidLevel(r.Level) {
		return models.Allergen{}, fmt.Errorf("level for %q must be between %g and %g", r.Name, models.MinLevel, models.MaxLevel)
	}
	return models.Allergen{Name: r.Name, Level: r.Level, Date: r.Date}.Normalize(), nil
}

// TestResultRequest is one test result in a PUT /test-results body.
type TestResultRequest struct {
	Allergen string  `json:"allergen" binding:"required"`
	Level    float64 `json:"level"`
	Date     string  `json:"date"`
}

func (r TestResultRequest) toModel() (models.TestResult, error) {
	if strings.TrimSpace(r.Allergen) == "" {
		return models.TestResult{}, errors.New("test result allergen is required")
	}
	if !models.ValidLevel(r.Level) {
		return models.TestResult{}, fmt.Errorf("level for %q must be between %g and %g", r.Allergen, models.MinLevel, models.MaxLevel)
	}
	return models.TestResult{Allergen: r.Allergen, Level: r.Level, Date: r.Date}, nil
}

// SavedFoodRequest is the body for saving a food by hand.
type SavedFoodRequest struct {
	Name      string   `json:"name" binding:"required"`
	Allergens []string `json:"allergens"`
	Severity  string   `json:"severity"`
	Timestamp string   `json:"timestamp"`
}

// ScanNameRequest is the body of POST /scan/name.
type ScanNameRequest struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
}
