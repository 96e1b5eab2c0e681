package service

import (
	"context"

	"github.com/pageza/allergyaid/backend/internal/crossreact"
	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/pageza/allergyaid/backend/internal/store"
)

// ProfileService handles the allergen profile
type ProfileService struct {
	store    *store.ProfileStore
	resolver *crossreact.Resolver
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(s *store.ProfileStore, resolver *crossreact.Resolver) *ProfileService {
	if resolver == nil {
		resolver = crossreact.NewResolver(nil)
	}
	return &ProfileService{store: s, resolver: resolver}
}

func (s *ProfileService) Allergens(ctx context.Context) []models.Allergen {
	return s.store.Allergens(ctx)
}

// ReplaceAllergens overwrites the whole list and returns what was stored.
func (s *ProfileService) ReplaceAllergens(ctx context.Context, allergens []models.Allergen) []models.Allergen {
	s.store.SaveAllergens(ctx, allergens)
	return s.store.Allergens(ctx)
}

func (s *ProfileService) AddOrUpdateAllergen(ctx context.Context, allergen models.Allergen) []models.Allergen {
	return s.store.AddOrUpdateAllergen(ctx, allergen)
}

func (s *ProfileService) TestResults(ctx context.Context) []models.TestResult {
	return s.store.TestResults(ctx)
}

// SaveTestResults stores results and returns them with the merged allergen list.
func (s *ProfileService) SaveTestResults(ctx context.Context, results []models.TestResult) ([]models.TestResult, []models.Allergen) {
	s.store.SaveTestResults(ctx, results)
	return s.store.TestResults(ctx), s.store.Allergens(ctx)
}

func (s *ProfileService) RemoveTestResult(ctx context.Context, allergen string) []models.TestResult {
	return s.store.RemoveTestResult(ctx, allergen)
}

func (s *ProfileService) SavedFoods(ctx context.Context) []models.SavedFood {
	return s.store.SavedFoods(ctx)
}

func (s *ProfileService) AddSavedFood(ctx context.Context, food models.SavedFood) []models.SavedFood {
	return s.store.AddSavedFood(ctx, food)
}

func (s *ProfileService) RemoveSavedFood(ctx context.Context, timestamp string) []models.SavedFood {
	return s.store.RemoveSavedFood(ctx, timestamp)
}

// CrossReactivity returns likely cross-reactive allergens for name, or the
// placeholder when none are known.
func (s *ProfileService) CrossReactivity(name string) []string {
	return s.resolver.LikelyFor(name)
}

// Analysis runs the cross-reactivity analysis over every allergen in the profile.
func (s *ProfileService) Analysis(ctx context.Context) []crossreact.CrossAllergen {
	allergens := s.store.Allergens(ctx)
	names := make([]string, len(allergens))
	for i, a := range allergens {
		names[i] = a.Name
	}
	return s.resolver.Analyze(names)
}
