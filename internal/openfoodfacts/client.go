// Package openfoodfacts looks products up by barcode in the public Open Food Facts database.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	DefaultTimeout = 15 * time.Second

	minBarcodeDigits = 8
	userAgent        = "AllergyAid/1.0 (+https://github.com/pageza/allergyaid)"
)

var (
	ErrInvalidBarcode  = errors.New("invalid barcode: at least 8 digits required")
	ErrProductNotFound = errors.New("product not found")
	ErrNoProductInfo   = errors.New("response carried no product information")
	ErrLookupFailed    = errors.New("product lookup failed")
)

var userMessages = map[error]string{
	ErrInvalidBarcode:  "Please enter a valid barcode (at least 8 digits)",
	ErrProductNotFound: "Product not found. Please try another barcode.",
	ErrNoProductInfo:   "Could not retrieve product information",
	ErrLookupFailed:    "Error fetching product data. Please try again.",
}

var lookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "allergyaid_barcode_lookups_total",
		Help: "Barcode lookups against Open Food Facts by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(lookupsTotal)
}

// Lookup is what callers need from a barcode lookup.
type Lookup interface {
	Product(ctx context.Context, barcode string) (*Product, error)
}

// Client queries the Open Food Facts v2 product API. Lookups are not retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *ProductCache
	logger     *zap.Logger
}

var _ Lookup = (*Client)(nil)

// NewClient returns a client for baseURL. Zero values select the public
// server and DefaultTimeout. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache *ProductCache, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		logger:     logger,
	}
}

// NormalizeBarcode keeps only the digits of raw and checks the minimum length.
func NormalizeBarcode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) < minBarcodeDigits {
		return "", ErrInvalidBarcode
	}
	return code, nil
}

// Product fetches the product for barcode.
func (c *Client) Product(ctx context.Context, barcode string) (*Product, error) {
	code, err := NormalizeBarcode(barcode)
	if err != nil {
		lookupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	log := c.logger.With(zap.String("barcode", code))

	if p, ok := c.cache.Get(ctx, code); ok {
		lookupsTotal.WithLabelValues("cached").Inc()
		log.Debug("product served from cache")
		return p, nil
	}

	p, err := c.fetch(ctx, code)
	if err != nil {
		lookupsTotal.WithLabelValues(outcome(err)).Inc()
		log.Warn("product lookup failed", zap.Error(err))
		return nil, err
	}

	lookupsTotal.WithLabelValues("found").Inc()
	c.cache.Set(ctx, code, p)
	return p, nil
}

func (c *Client) fetch(ctx context.Context, code string) (*Product, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	// unknown barcodes come back as 404 with a status 0 body
	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response (HTTP %d): %v", ErrLookupFailed, resp.StatusCode, err)
	}

	if body.Status != nil && *body.Status == 0 {
		return nil, ErrProductNotFound
	}
	if body.Product == nil {
		return nil, ErrNoProductInfo
	}
	if body.Product.Barcode == "" {
		body.Product.Barcode = code
	}
	return body.Product, nil
}

// UserMessage maps a lookup error to the text shown to the user.
func UserMessage(err error) string {
	for _, known := range []error{ErrInvalidBarcode, ErrProductNotFound, ErrNoProductInfo} {
		if errors.Is(err, known) {
			return userMessages[known]
		}
	}
	return userMessages[ErrLookupFailed]
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return "not_found"
	case errors.Is(err, ErrNoProductInfo):
		return "no_product"
	default:
		return "error"
	}
}
