package service

import (
	"context"

	"github.com/pageza/allergyaid/backend/internal/crossreact"
	"github.com/pageza/allergyaid/backend/internal/models"
)

// IProfileService defines the interface for allergen profile operations
type IProfileService interface {
	Allergens(ctx context.Context) []models.Allergen
	ReplaceAllergens(ctx context.Context, allergens []models.Allergen) []models.Allergen
	AddOrUpdateAllergen(ctx context.Context, allergen models.Allergen) []models.Allergen
	TestResults(ctx context.Context) []models.TestResult
	SaveTestResults(ctx context.Context, results []models.TestResult) ([]models.TestResult, []models.Allergen)
	RemoveTestResult(ctx context.Context, allergen string) []models.TestResult
	SavedFoods(ctx context.Context) []models.SavedFood
	AddSavedFood(ctx context.Context, food models.SavedFood) []models.SavedFood
	RemoveSavedFood(ctx context.Context, timestamp string) []models.SavedFood
	CrossReactivity(name string) []string
	Analysis(ctx context.Context) []crossreact.CrossAllergen
}

// IScanService defines the interface for food scanning operations
type IScanService interface {
	LookupBarcode(ctx context.Context, barcode string) (*BarcodeResult, error)
	SaveProduct(ctx context.Context, barcode string) (*models.SavedFood, error)
	ScanName(ctx context.Context, name, ingredients string) *NameScanResult
}

// IBackupService defines the interface for profile backups
type IBackupService interface {
	Backup(ctx context.Context) (string, error)
	Rotate(ctx context.Context) (int, error)
	Run(ctx context.Context) (string, error)
}
