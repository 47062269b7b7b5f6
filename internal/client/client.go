// Package client provides an HTTP client for the outfit recommendation service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/raphaelgruber/wardrobe-go/internal/metrics"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
)

// DefaultBaseAddress is used when Options.BaseAddress is empty.
const DefaultBaseAddress = "http://localhost:8000"

// Options configures a Client.
type Options struct {
	// BaseAddress is the service root, e.g. http://localhost:8000.
	BaseAddress string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport (tests). Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Collector
}

// Client talks to the catalog and recommendation endpoints.
// It does not retry, cache or authenticate.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// New creates a new client.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseAddress, "/")
	if base == "" {
		base = DefaultBaseAddress
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// BaseAddress returns the service root the client was built with.
func (c *Client) BaseAddress() string {
	return c.baseURL
}

// do sends one request. A nil in sends no body; a nil out skips decoding.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	requestID := uuid.New().String()
	defer func() {
		duration := time.Since(start)
		c.metrics.RecordTiming(op, duration, err != nil)
		logRequest(c.logger, op, method, path, requestID, in, duration, err)
	}()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return goerr.Wrap(err, "marshal request", goerr.V("op", op))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "create request", goerr.V("op", op), goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "execute request", goerr.V("op", op), goerr.V("path", path))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "read response", goerr.V("op", op), goerr.V("path", path))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
		return goerr.Wrap(apiErr, op+" failed",
			goerr.V("path", path), goerr.V("status", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return goerr.Wrap(ErrMalformedResponse, "decode "+op+" response",
			goerr.V("path", path), goerr.V("cause", err.Error()), goerr.V("body", truncate(string(respBody), maxArgLogLen)))
	}
	return nil
}

// AsAPIError extracts the *APIError from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Confirmation is the free-form acknowledgement returned by mutating endpoints.
type Confirmation map[string]any

// =============================================================================
// CATALOG OPERATIONS
// =============================================================================

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Search runs a text search over the catalog.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.Garment, error) {
	var result struct {
		Items []models.Garment `json:"items"`
	}
	if err := c.do(ctx, metrics.OpSearch, http.MethodPost, "/v1/items/search", searchRequest{Query: query, Limit: limit}, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// ListCatalog returns the whole catalog. A body that is not a JSON array
// yields ErrMalformedResponse.
func (c *Client) ListCatalog(ctx context.Context) ([]models.Garment, error) {
	var items []models.Garment
	if err := c.do(ctx, metrics.OpListCatalog, http.MethodGet, "/v1/items/catalog", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "catalog is not an array")
	}
	return items, nil
}

// GetItem fetches one item by identifier.
func (c *Client) GetItem(ctx context.Context, id string) (*models.Garment, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var item models.Garment
	if err := c.do(ctx, metrics.OpGetItem, http.MethodGet, "/v1/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem stores a new garment. Blank optional attributes are omitted.
func (c *Client) CreateItem(ctx context.Context, g models.Garment) (*models.Garment, error) {
	var created models.Garment
	if err := c.do(ctx, metrics.OpCreateItem, http.MethodPost, "/v1/items", g.Normalized(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteItem removes an item from the catalog.
func (c *Client) DeleteItem(ctx context.Context, id string) (Confirmation, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var conf Confirmation
	if err := c.do(ctx, metrics.OpDeleteItem, http.MethodDelete, "/v1/items/"+url.PathEscape(id), nil, &conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// =============================================================================
// RECOMMENDATION OPERATIONS
// =============================================================================

// ComplementaryRequest asks for items that go with the given look.
type ComplementaryRequest struct {
	TopK        int               `json:"top_k"`
	Threshold   float64           `json:"threshold"`
	Items       []string          `json:"itens"`
	Constraints map[string]string `json:"constraints,omitempty"`
}

// RecommendComplementary returns scored suggestions above the threshold.
func (c *Client) RecommendComplementary(ctx context.Context, in ComplementaryRequest) ([]models.ScoredItem, error) {
	var result struct {
		Results []models.ScoredItem `json:"results"`
	}
	if err := c.do(ctx, metrics.OpComplementary, http.MethodPost, "/v1/recommend/complementar", in, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// CompletionRequest asks for the best candidates per target category.
type CompletionRequest struct {
	Items   []string `json:"itens"`
	TopK    int      `json:"top_k"`
	Targets []string `json:"targets"`
}

// RecommendCompletion fills the requested target categories.
func (c *Client) RecommendCompletion(ctx context.Context, in CompletionRequest) (*models.Completion, error) {
	var result models.Completion
	if err := c.do(ctx, metrics.OpCompletion, http.MethodPost, "/v1/recommend/completar", in, &result); err != nil {
		return nil, err
	}
	if result.Targets == nil {
		result.Targets = map[string][]models.ScoredItem{}
	}
	return &result, nil
}

// RebuildGraph asks the service to regenerate its similarity graph.
func (c *Client) RebuildGraph(ctx context.Context) (Confirmation, error) {
	var conf Confirmation
	if err := c.do(ctx, metrics.OpRebuildGraph, http.MethodPost, "/v1/graph/rebuild", nil, &conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// Health returns the service status string ("ok" when healthy).
func (c *Client) Health(ctx context.Context) (string, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, metrics.OpHealth, http.MethodGet, "/health", nil, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}
