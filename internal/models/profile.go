package models

import "time"

// ProfileSnapshot is the whole profile exported as a single document.
type ProfileSnapshot struct {
	ExportedAt  time.Time    `json:"exported_at"`
	Allergens   []Allergen   `json:"allergens"`
	TestResults []TestResult `json:"test_results"`
	SavedFoods  []SavedFood  `json:"saved_foods"`
}
