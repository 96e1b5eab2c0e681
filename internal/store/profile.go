package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pageza/allergyaid/backend/internal/models"
	"go.uber.org/zap"
)

// Storage keys for the three persisted collections.
const (
	AllergensKey   = "allergy-aid-allergens"
	TestResultsKey = "allergy-aid-test-results"
	SavedFoodsKey  = "allergy-aid-saved-foods"
)

// DefaultAllergens seeds a new installation.
var DefaultAllergens = []models.Allergen{
	{Name: "Peanuts", Level: 8.5, Severity: models.SeveritySevere, Date: "2023-09-15"},
	{Name: "Shellfish", Level: 9.1, Severity: models.SeveritySevere, Date: "2023-07-22"},
}

// ProfileStore reads and writes whole collections through a KV. Every call
// goes to the backend; nothing is cached. Backend and encoding failures are
// logged and absorbed: reads fall back to a default and writes are dropped.
type ProfileStore struct {
	kv     KV
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a ProfileStore.
type Option func(*ProfileStore)

// WithClock overrides the clock used to date merged test results.
func WithClock(now func() time.Time) Option {
	return func(s *ProfileStore) {
		s.now = now
	}
}

func NewProfileStore(kv KV, logger *zap.Logger, opts ...Option) *ProfileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProfileStore{kv: kv, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load decodes the JSON value at key into dst. It reports whether dst was
// filled; when it was not, dst is left untouched and the caller keeps its default.
func (s *ProfileStore) Load(ctx context.Context, key string, dst any) bool {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Error("error reading from store", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok || len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Error("error decoding stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Save encodes value as JSON and overwrites key.
func (s *ProfileStore) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("error encoding value for store", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.logger.Error("error writing to store", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProfileStore) Allergens(ctx context.Context) []models.Allergen {
	var allergens []models.Allergen
	if !s.Load(ctx, AllergensKey, &allergens) || allergens == nil {
		return []models.Allergen{}
	}
	return allergens
}

// SaveAllergens replaces the allergen list. Severity is re-derived from each level.
func (s *ProfileStore) SaveAllergens(ctx context.Context, allergens []models.Allergen) {
	normalized := make([]models.Allergen, len(allergens))
	for i, a := range allergens {
		normalized[i] = a.Normalize()
	}
	s.Save(ctx, AllergensKey, normalized)
}

// AddOrUpdateAllergen replaces the allergen with the same name (exact,
// case-sensitive) or appends it, and returns the resulting list.
func (s *ProfileStore) AddOrUpdateAllergen(ctx context.Context, allergen models.Allergen) []models.Allergen {
	allergen = allergen.Normalize()
	allergens := s.Allergens(ctx)
	if i := indexAllergen(allergens, allergen.Name); i >= 0 {
		allergens[i] = allergen
	} else {
		allergens = append(allergens, allergen)
	}
	s.SaveAllergens(ctx, allergens)
	return allergens
}

func (s *ProfileStore) TestResults(ctx context.Context) []models.TestResult {
	var results []models.TestResult
	if !s.Load(ctx, TestResultsKey, &results) || results == nil {
		return []models.TestResult{}
	}
	return results
}

// SaveTestResults replaces the test result list and merges every result into
// the allergen list: a known allergen gets the result's level, the derived
// severity and today's date in place; an unknown one is appended.
func (s *ProfileStore) SaveTestResults(ctx context.Context, results []models.TestResult) {
	if results == nil {
		results = []models.TestResult{}
	}
	s.Save(ctx, TestResultsKey, results)
	if len(results) == 0 {
		return
	}

	allergens := s.Allergens(ctx)
	today := models.FormatDate(s.now())
	for _, r := range results {
		severity := models.ClassifySeverity(r.Level)
		if i := indexAllergen(allergens, r.Allergen); i >= 0 {
			allergens[i].Level = r.Level
			allergens[i].Severity = severity
			allergens[i].Date = today
			continue
		}
		allergens = append(allergens, models.Allergen{
			Name:     r.Allergen,
			Level:    r.Level,
			Severity: severity,
			Date:     today,
		})
	}
	s.SaveAllergens(ctx, allergens)
}

// RemoveTestResult drops every result for allergen and saves the remainder,
// which re-merges it into the allergen list.
func (s *ProfileStore) RemoveTestResult(ctx context.Context, allergen string) []models.TestResult {
	results := s.TestResults(ctx)
	kept := make([]models.TestResult, 0, len(results))
	for _, r := range results {
		if r.Allergen != allergen {
			kept = append(kept, r)
		}
	}
	s.SaveTestResults(ctx, kept)
	return kept
}

func (s *ProfileStore) SavedFoods(ctx context.Context) []models.SavedFood {
	var foods []models.SavedFood
	if !s.Load(ctx, SavedFoodsKey, &foods) || foods == nil {
		return []models.SavedFood{}
	}
	return foods
}

func (s *ProfileStore) SaveFoods(ctx context.Context, foods []models.SavedFood) {
	if foods == nil {
		foods = []models.SavedFood{}
	}
	s.Save(ctx, SavedFoodsKey, foods)
}

// AddSavedFood appends food and returns the resulting list. A timestamp
// already in the list is moved forward until it is unique, so the new food
// is always the last element.
func (s *ProfileStore) AddSavedFood(ctx context.Context, food models.SavedFood) []models.SavedFood {
	if food.Allergens == nil {
		food.Allergens = []string{}
	}
	foods := s.SavedFoods(ctx)
	food.Timestamp = uniqueTimestamp(foods, food.Timestamp)
	foods = append(foods, food)
	s.SaveFoods(ctx, foods)
	return foods
}

// uniqueTimestamp bumps ts by a nanosecond until no food carries it.
// Timestamps that do not parse get a numeric suffix instead.
func uniqueTimestamp(foods []models.SavedFood, ts string) string {
	taken := make(map[string]struct{}, len(foods))
	for _, f := range foods {
		taken[f.Timestamp] = struct{}{}
	}
	if _, dup := taken[ts]; !dup {
		return ts
	}

	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		for {
			t = t.Add(time.Nanosecond)
			candidate := models.FormatTimestamp(t)
			if _, dup := taken[candidate]; !dup {
				return candidate
			}
		}
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", ts, i)
		if _, dup := taken[candidate]; !dup {
			return candidate
		}
	}
}

// RemoveSavedFood drops the food with the given timestamp. Absent timestamps are a no-op.
func (s *ProfileStore) RemoveSavedFood(ctx context.Context, timestamp string) []models.SavedFood {
	foods := s.SavedFoods(ctx)
	kept := make([]models.SavedFood, 0, len(foods))
	for _, f := range foods {
		if f.Timestamp != timestamp {
			kept = append(kept, f)
		}
	}
	s.SaveFoods(ctx, kept)
	return kept
}

// Initialize seeds DefaultAllergens when the allergen list is empty.
func (s *ProfileStore) Initialize(ctx context.Context) bool {
	if len(s.Allergens(ctx)) > 0 {
		return false
	}
	s.SaveAllergens(ctx, DefaultAllergens)
	s.logger.Info("seeded default allergen profile", zap.Int("allergens", len(DefaultAllergens)))
	return true
}

// Snapshot exports the whole profile.
func (s *ProfileStore) Snapshot(ctx context.Context) models.ProfileSnapshot {
	return models.ProfileSnapshot{
		ExportedAt:  s.now().UTC(),
		Allergens:   s.Allergens(ctx),
		TestResults: s.TestResults(ctx),
		SavedFoods:  s.SavedFoods(ctx),
	}
}

// Restore overwrites all three collections from a snapshot. Test results are
// written raw so the restored allergen dates are kept.
func (s *ProfileStore) Restore(ctx context.Context, snap models.ProfileSnapshot) {
	s.SaveAllergens(ctx, snap.Allergens)
	results := snap.TestResults
	if results == nil {
		results = []models.TestResult{}
	}
	s.Save(ctx, TestResultsKey, results)
	s.SaveFoods(ctx, snap.SavedFoods)
}

func indexAllergen(allergens []models.Allergen, name string) int {
	for i, a := range allergens {
		if a.Name == name {
			return i
		}
	}
	return -1
}
