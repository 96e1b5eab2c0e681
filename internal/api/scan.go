package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allergyaid/backend/internal/openfoodfacts"
	"go.uber.org/zap"
)

// LookupBarcode fetches a product and assesses it against the profile.
func (h *Handler) LookupBarcode(c *gin.Context) {
	res, err := h.scan.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SaveProduct looks a product up and keeps it in the saved foods.
func (h *Handler) SaveProduct(c *gin.Context) {
	food, err := h.scan.SaveProduct(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved_food": food})
}

// ScanName checks a food name and its ingredient text for allergen keywords.
func (h *Handler) ScanName(c *gin.Context) {
	var req ScanNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Ingredients) == "" {
		badRequest(c, errors.New("name or ingredients is required"))
		return
	}
	c.JSON(http.StatusOK, h.scan.ScanName(c.Request.Context(), req.Name, req.Ingredients))
}

func (h *Handler) lookupFailed(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, openfoodfacts.ErrInvalidBarcode):
		status = http.StatusBadRequest
	case errors.Is(err, openfoodfacts.ErrProductNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusBadGateway {
		h.logger.Warn("barcode lookup failed", zap.String("barcode", c.Param("barcode")), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": openfoodfacts.UserMessage(err)})
}
