package models

// TestResult is one allergy test reading. An allergen may have many over time.
type TestResult struct {
	Allergen string  `json:"allergen"`
	Level    float64 `json:"level"`
	Date     string  `json:"date"`
}
