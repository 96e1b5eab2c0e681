package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allergyaid/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker func(ctx context.Context) error

// Handler serves the /api/v1 routes
type Handler struct {
	profile service.IProfileService
	scan    service.IScanService
	logger  *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(profile service.IProfileService, scan service.IScanService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{profile: profile, scan: scan, logger: logger}
}

// RegisterRoutes registers all API routes. lookupLimit guards the routes that
// call Open Food Facts and may be nil.
func (h *Handler) RegisterRoutes(router *gin.Engine, health HealthChecker, lookupLimit gin.HandlerFunc) {
	router.GET("/health", healthCheck(health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/allergens", h.GetAllergens)
		v1.PUT("/allergens", h.ReplaceAllergens)
		v1.POST("/allergens", h.AddOrUpdateAllergen)

		v1.GET("/test-results", h.GetTestResults)
		v1.PUT("/test-results", h.SaveTestResults)
		v1.DELETE("/test-results/:allergen", h.RemoveTestResult)

		v1.GET("/saved-foods", h.GetSavedFoods)
		v1.POST("/saved-foods", h.AddSavedFood)
		v1.DELETE("/saved-foods/:timestamp", h.RemoveSavedFood)

		v1.GET("/cross-reactivity/:name", h.GetCrossReactivity)
		v1.GET("/analysis", h.GetAnalysis)
	}

	scan := v1.Group("/scan")
	if lookupLimit != nil {
		scan.GET("/barcode/:barcode", lookupLimit, h.LookupBarcode)
		scan.POST("/barcode/:barcode/save", lookupLimit, h.SaveProduct)
	} else {
		scan.GET("/barcode/:barcode", h.LookupBarcode)
		scan.POST("/barcode/:barcode/save", h.SaveProduct)
	}
	scan.POST("/name", h.ScanName)
}

// healthCheck returns the health status of the API
func healthCheck(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "AllergyAid API is running",
			"version": "v1.0.0",
		})
	}
}

// badRequest hands err to the error middleware with a 400 status.
func badRequest(c *gin.Context, err error) {
	c.Status(http.StatusBadRequest)
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
}
