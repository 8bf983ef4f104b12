// =============================================================================
// Sales Analytics - Product Catalog Client
// =============================================================================
//
// This module fetches product metadata from the external catalog.
//
// SOURCES:
//   - HTTPClient: the public DummyJSON listing (GET, bounded by a timeout)
//   - FileSource: a JSON snapshot with the same shape, for offline runs
//
// WIRE FORMAT:
//   {"products": [{"id": 1, "title": "...", "category": "...",
//                  "brand": "...", "price": 9.99, "rating": 4.5}, ...]}
//
// ERROR HANDLING:
//   Every failure is wrapped in common.ErrCatalogUnavailable. Fetch turns it
//   into an empty product list and a warning; enrichment then reports every
//   transaction as unmatched. A catalog problem never aborts a run.
//
// =============================================================================

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/common"
	"github.com/ginjaninja78/sales-analytics/internal/logging"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Defaults for the public catalog.
const (
	DefaultURL     = "https://dummyjson.com/products?limit=100"
	DefaultTimeout = 10 * time.Second
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// Source supplies the product list used to build the catalog mapping.
type Source interface {
	Products(ctx context.Context) ([]types.CatalogEntry, error)
}

// listing is the top-level catalog document.
type listing struct {
	Products []types.CatalogEntry `json:"products"`
}

// =============================================================================
// HTTP SOURCE
// =============================================================================

// HTTPClient fetches the product listing over HTTP.
type HTTPClient struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.Logger
}

// NewHTTPClient creates a catalog client.
//
// PARAMETERS:
//   - url: The listing endpoint. Empty means DefaultURL.
//   - timeout: Upper bound for the whole request. Non-positive means DefaultTimeout.
//   - logger: Logger for request diagnostics. Nil discards output.
func NewHTTPClient(url string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &HTTPClient{
		url:        url,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Products implements Source.
func (c *HTTPClient) Products(ctx context.Context) ([]types.CatalogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", common.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching product catalog from %s (timeout %s)", c.url, c.timeout)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", common.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", common.ErrCatalogUnavailable, resp.StatusCode)
	}

	products, err := decodeListing(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Catalog returned %d products", len(products))
	return products, nil
}

// =============================================================================
// FILE SOURCE
// =============================================================================

// FileSource reads the product listing from a JSON snapshot.
type FileSource struct {
	path string
}

// NewFileSource creates a snapshot-backed Source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Products implements Source.
func (s *FileSource) Products(ctx context.Context) ([]types.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCatalogUnavailable, err)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open snapshot: %w", common.ErrCatalogUnavailable, err)
	}
	defer f.Close()

	return decodeListing(f)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Fetch retrieves products from src and degrades any failure to an empty list.
//
// RETURNS:
//   - The product list, or an empty (non-nil) slice if the source failed.
func Fetch(ctx context.Context, src Source, logger logging.Logger) []types.CatalogEntry {
	if logger == nil {
		logger = logging.Nop()
	}
	if src == nil {
		return []types.CatalogEntry{}
	}

	products, err := src.Products(ctx)
	if err != nil {
		logger.Warn("Product catalog unavailable, continuing without enrichment: %v", err)
		return []types.CatalogEntry{}
	}
	if products == nil {
		products = []types.CatalogEntry{}
	}
	return products
}

func decodeListing(r io.Reader) ([]types.CatalogEntry, error) {
	var doc listing
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode listing: %w", common.ErrCatalogUnavailable, err)
	}
	return doc.Products, nil
}
