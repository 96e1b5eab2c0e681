package service

import (
	"context"
	"strings"
	"time"

	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/pageza/allergyaid/backend/internal/openfoodfacts"
	"github.com/pageza/allergyaid/backend/internal/scan"
	"github.com/pageza/allergyaid/backend/internal/store"
	"go.uber.org/zap"
)

// BarcodeResult is a looked-up product together with its assessment.
type BarcodeResult struct {
	Barcode    string                 `json:"barcode"`
	Name       string                 `json:"name"`
	Product    *openfoodfacts.Product `json:"product"`
	Assessment scan.Assessment        `json:"assessment"`
}

// NameScanResult is the outcome of scanning a food name and ingredient text.
type NameScanResult struct {
	Name       string          `json:"name"`
	Assessment scan.Assessment `json:"assessment"`
}

// ScanService checks foods against the stored profile
type ScanService struct {
	store   *store.ProfileStore
	lookup  openfoodfacts.Lookup
	scanner *scan.Scanner
	logger  *zap.Logger
	now     func() time.Time
}

// Ensure ScanService implements IScanService
var _ IScanService = (*ScanService)(nil)

// NewScanService creates a new ScanService instance
func NewScanService(s *store.ProfileStore, lookup openfoodfacts.Lookup, scanner *scan.Scanner, logger *zap.Logger) *ScanService {
	if scanner == nil {
		scanner = scan.NewScanner(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{store: s, lookup: lookup, scanner: scanner, logger: logger, now: time.Now}
}

// LookupBarcode fetches the product and assesses its allergens against the profile.
// Errors are the openfoodfacts sentinels.
func (s *ScanService) LookupBarcode(ctx context.Context, barcode string) (*BarcodeResult, error) {
	code, err := openfoodfacts.NormalizeBarcode(barcode)
	if err != nil {
		return nil, err
	}
	p, err := s.lookup.Product(ctx, code)
	if err != nil {
		return nil, err
	}

	allergens := openfoodfacts.ExtractAllergens(p)
	return &BarcodeResult{
		Barcode:    code,
		Name:       p.DisplayName(code),
		Product:    p,
		Assessment: s.scanner.Assess(allergens, s.store.Allergens(ctx)),
	}, nil
}

// SaveProduct looks the barcode up and appends it to the saved foods.
func (s *ScanService) SaveProduct(ctx context.Context, barcode string) (*models.SavedFood, error) {
	code, err := openfoodfacts.NormalizeBarcode(barcode)
	if err != nil {
		return nil, err
	}
	p, err := s.lookup.Product(ctx, code)
	if err != nil {
		return nil, err
	}

	allergens := openfoodfacts.ExtractAllergens(p)
	food := models.SavedFood{
		Name:      p.DisplayName(code),
		Allergens: allergens,
		Severity:  openfoodfacts.FoodSeverity(allergens),
		Timestamp: models.FormatTimestamp(s.now()),
	}
	foods := s.store.AddSavedFood(ctx, food)
	food = foods[len(foods)-1]
	s.logger.Info("saved scanned product",
		zap.String("barcode", code),
		zap.String("name", food.Name),
		zap.Int("allergens", len(allergens)))
	return &food, nil
}

// ScanName finds allergen keywords in the name and ingredient text.
func (s *ScanService) ScanName(ctx context.Context, name, ingredients string) *NameScanResult {
	found := s.scanner.ScanText(strings.TrimSpace(name + " " + ingredients))
	return &NameScanResult{
		Name:       strings.TrimSpace(name),
		Assessment: s.scanner.Assess(found, s.store.Allergens(ctx)),
	}
}
