package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allergyaid/backend/internal/models"
	"github.com/pageza/allergyaid/backend/internal/openfoodfacts"
)

func (h *Handler) GetAllergens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"allergens": h.profile.Allergens(c.Request.Context())})
}

// ReplaceAllergens overwrites the allergen list with the request body.
func (h *Handler) ReplaceAllergens(c *gin.Context) {
	var req []AllergenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	allergens := make([]models.Allergen, 0, len(req))
	for _, r := range req {
		a, err := r.toModel()
		if err != nil {
			badRequest(c, err)
			return
		}
		allergens = append(allergens, a)
	}

	c.JSON(http.StatusOK, gin.H{"allergens": h.profile.ReplaceAllergens(c.Request.Context(), allergens)})
}

// AddOrUpdateAllergen replaces the allergen with the same name or appends it.
func (h *Handler) AddOrUpdateAllergen(c *gin.Context) {
	var req AllergenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	allergen, err := req.toModel()
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allergens": h.profile.AddOrUpdateAllergen(c.Request.Context(), allergen)})
}

func (h *Handler) GetTestResults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"test_results": h.profile.TestResults(c.Request.Context())})
}

// SaveTestResults stores the results and merges them into the allergen list.
func (h *Handler) SaveTestResults(c *gin.Context) {
	var req []TestResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results := make([]models.TestResult, 0, len(req))
	for _, r := range req {
		tr, err := r.toModel()
		if err != nil {
			badRequest(c, err)
			return
		}
		results = append(results, tr)
	}

	saved, allergens := h.profile.SaveTestResults(c.Request.Context(), results)
	c.JSON(http.StatusOK, gin.H{
		"test_results": saved,
		"allergens":    allergens,
	})
}

func (h *Handler) RemoveTestResult(c *gin.Context) {
	kept := h.profile.RemoveTestResult(c.Request.Context(), c.Param("allergen"))
	c.JSON(http.StatusOK, gin.H{"test_results": kept})
}

func (h *Handler) GetSavedFoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"saved_foods": h.profile.SavedFoods(c.Request.Context())})
}

// AddSavedFood saves a food entered by hand. A missing severity is derived
// from the allergens and a missing timestamp is set to now.
func (h *Handler) AddSavedFood(c *gin.Context) {
	var req SavedFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	food := models.SavedFood{
		Name:      req.Name,
		Allergens: req.Allergens,
		Severity:  req.Severity,
		Timestamp: req.Timestamp,
	}
	if food.Severity == "" {
		food.Severity = openfoodfacts.FoodSeverity(req.Allergens)
	}
	if food.Timestamp == "" {
		food.Timestamp = models.FormatTimestamp(time.Now())
	}

	c.JSON(http.StatusCreated, gin.H{"saved_foods": h.profile.AddSavedFood(c.Request.Context(), food)})
}

func (h *Handler) RemoveSavedFood(c *gin.Context) {
	kept := h.profile.RemoveSavedFood(c.Request.Context(), c.Param("timestamp"))
	c.JSON(http.StatusOK, gin.H{"saved_foods": kept})
}

// GetCrossReactivity lists likely cross-reactive allergens, or the placeholder.
func (h *Handler) GetCrossReactivity(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"allergen":                 name,
		"cross_reactive_allergens": h.profile.CrossReactivity(name),
	})
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"analysis": h.profile.Analysis(c.Request.Context())})
}
