package models

import "time"

// FoodSeverityNone marks a saved food with no listed allergens.
const FoodSeverityNone = "None"

// TimestampLayout keeps nanoseconds so saves made close together stay distinct.
const TimestampLayout = time.RFC3339Nano

// SavedFood is a scanned food kept for later reference. Timestamp is unique.
type SavedFood struct {
	Name      string   `json:"name"`
	Allergens []string `json:"allergens"`
	Severity  string   `json:"severity"`
	Timestamp string   `json:"timestamp"`
}

// FormatTimestamp renders t in UTC with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
