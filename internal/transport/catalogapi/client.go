package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	"github.com/kailas-cloud/catalog/internal/metrics"
	"github.com/kailas-cloud/catalog/internal/version"
)

const (
	filterPath     = "/metadata/filter/"
	categoriesPath = "/categories/"

	// maxBodyBytes caps a single response body.
	maxBodyBytes = 16 << 20
)

// Client is the Fetch Gateway over the remote collection HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Config holds the remote collection client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64 // 0 = unlimited
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a remote collection client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// FetchPage requests one page of items matching expr.
// Transport failures wrap domain.ErrTransport; shape failures wrap domain.ErrMalformedResponse.
func (c *Client) FetchPage(ctx context.Context, expr filter.Expression, cur page.Cursor) (page.Result, error) {
	req := FilterRequest{Page: cur.Page(), Limit: cur.Limit()}
	if !expr.IsEmpty() {
		req.Filter = &expr
	}
	body, err := json.Marshal(req)
	if err != nil {
		return page.Result{}, fmt.Errorf("encode filter request: %w", err)
	}

	data, err := c.do(ctx, "filter", http.MethodPost, filterPath, body)
	if err != nil {
		return page.Result{}, err
	}

	var resp FilterResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return page.Result{}, c.malformed("filter", fmt.Errorf("decode filter response: %w: %w", domain.ErrMalformedResponse, err))
	}
	dtos, ok := resp.items()
	if !ok {
		return page.Result{}, c.malformed("filter", fmt.Errorf("filter response has neither metadata nor results: %w", domain.ErrMalformedResponse))
	}

	items := make([]item.Item, 0, len(dtos))
	for i := range dtos {
		it, err := dtos[i].ToDomain()
		if err != nil {
			c.logger.Warn("skipping invalid item", zap.Int("index", i), zap.Error(err))
			continue
		}
		items = append(items, it)
	}
	metrics.FetchItemsTotal.Add(float64(len(items)))

	total := -1
	if resp.Pagination != nil {
		total = resp.Pagination.Total
	}
	result := page.Result{Items: items, Total: total, HasMore: page.HasMoreAfter(cur, total)}

	c.logger.Debug("page fetched",
		zap.Stringer("cursor", cur),
		zap.Int("items", len(items)),
		zap.Int("total", total),
		zap.Bool("has_more", result.HasMore),
	)
	return result, nil
}

// FetchCategories requests the category tree.
func (c *Client) FetchCategories(ctx context.Context) ([]category.Category, error) {
	data, err := c.do(ctx, "categories", http.MethodGet, categoriesPath, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Categories *[]CategoryDTO `json:"categories"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, c.malformed("categories", fmt.Errorf("decode categories: %w: %w", domain.ErrMalformedResponse, err))
	}
	if resp.Categories == nil {
		return nil, c.malformed("categories", fmt.Errorf("categories missing: %w", domain.ErrMalformedResponse))
	}

	out := make([]category.Category, 0, len(*resp.Categories))
	for i := range *resp.Categories {
		out = append(out, (*resp.Categories)[i].ToDomain())
	}
	return out, nil
}

// HealthCheck requests a one-item page and reports whether the API answered with a valid shape.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.FetchPage(ctx, filter.Expression{}, page.First(1))
	return err
}

// do performs one throttled request and returns the 2xx body.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body []byte) ([]byte, error) {
	op := method + " " + path

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.transportFailure(endpoint, "throttled", domain.NewTransportError(op, 0, err))
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.FetchRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, c.transportFailure(endpoint, "network", domain.NewTransportError(op, 0, err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.transportFailure(endpoint, "read_body", domain.NewTransportError(op, resp.StatusCode, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("remote collection error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)),
		)
		return nil, c.transportFailure(endpoint, "status", domain.NewTransportError(op, resp.StatusCode, nil))
	}

	metrics.FetchRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return data, nil
}

func (c *Client) transportFailure(endpoint, errType string, err error) error {
	metrics.FetchRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	metrics.FetchErrorsTotal.WithLabelValues(endpoint, errType).Inc()
	var te *domain.TransportError
	if errors.As(err, &te) && te.StatusCode == 0 && errors.Is(te.Err, context.Canceled) {
		c.logger.Debug("request canceled", zap.String("op", te.Op))
	} else {
		c.logger.Warn("remote collection request failed", zap.Error(err))
	}
	return err
}

func (c *Client) malformed(endpoint string, err error) error {
	metrics.FetchErrorsTotal.WithLabelValues(endpoint, "malformed").Inc()
	c.logger.Warn("malformed response", zap.String("endpoint", endpoint), zap.Error(err))
	return err
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
