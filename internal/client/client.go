// Package client talks to the hotel REST API that owns rooms, reservations,
// guest check-ins, the food menu and the pre-aggregated admin summary.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"staybook/internal/config"
	"staybook/internal/models"
	"staybook/internal/worker"

	"github.com/redis/go-redis/v9"
)

// ErrNoPayload means the summary endpoint answered without a usable body.
var ErrNoPayload = errors.New("upstream returned no usable payload")

const (
	pathRooms        = "/rooms/"
	pathReservations = "/reservations/"
	pathCheckIns     = "/guest_checkins/"
	pathFood         = "/food/"
	pathSummary      = "/admin/summary/"
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: http %d", e.Path, e.Code)
}

// HotelClient is an HTTP client for the hotel API.
type HotelClient struct {
	baseURL    string
	apiKey     string
	apiExtra   string
	httpClient *http.Client
	retry      worker.RetryPolicy

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewHotelClient constructs a client from the upstream section of the config.
func NewHotelClient(cfg config.UpstreamConfig) *HotelClient {
	return &HotelClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		apiExtra:   cfg.APIExtra,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		retry: worker.RetryPolicy{
			MaxRetries:    cfg.Retry.MaxRetries,
			InitialDelay:  time.Duration(cfg.Retry.InitialDelayMS) * time.Millisecond,
			MaxDelay:      time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond,
			BackoffFactor: cfg.Retry.BackoffFactor,
		},
	}
}

// UseRedisCache configures optional Redis caching for the catalog
// endpoints (rooms and food). Reservations and check-ins are always read
// fresh since availability checks depend on them.
func (c *HotelClient) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

func (c *HotelClient) ListRooms(ctx context.Context) ([]models.Record, error) {
	return c.list(ctx, pathRooms, true)
}

func (c *HotelClient) ListReservations(ctx context.Context) ([]models.Record, error) {
	return c.list(ctx, pathReservations, false)
}

func (c *HotelClient) ListCheckIns(ctx context.Context) ([]models.Record, error) {
	return c.list(ctx, pathCheckIns, false)
}

func (c *HotelClient) ListFood(ctx context.Context) ([]models.Record, error) {
	return c.list(ctx, pathFood, true)
}

// GetSummary fetches the pre-aggregated dashboard summary. It is never
// cached. An empty body, a non-object body or mismatched chart arrays
// yield ErrNoPayload.
func (c *HotelClient) GetSummary(ctx context.Context) (*models.Summary, error) {
	var body []byte
	if err := c.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.get(ctx, pathSummary)
		return err
	}); err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrNoPayload
	}
	var rec models.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPayload, err)
	}
	summary, ok := models.SummaryFromRecord(rec)
	if !ok {
		return nil, ErrNoPayload
	}
	return &summary, nil
}

func (c *HotelClient) list(ctx context.Context, path string, cached bool) ([]models.Record, error) {
	cacheKey := "upstream:" + path
	var records []models.Record
	if cached && c.readCache(ctx, cacheKey, &records) {
		return records, nil
	}

	var body []byte
	if err := c.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.get(ctx, path)
		return err
	}); err != nil {
		return nil, err
	}

	records, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if cached {
		c.writeCache(ctx, cacheKey, records)
	}
	return records, nil
}

// decodeList accepts a bare JSON array or a paginated {"results": [...]}
// envelope. Any other valid JSON value is an empty collection.
func decodeList(body []byte) ([]models.Record, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	switch v := raw.(type) {
	case []any:
		return models.Records(v), nil
	case map[string]any:
		if results, ok := v["results"].([]any); ok {
			return models.Records(results), nil
		}
	}
	return []models.Record{}, nil
}

// get performs one attempt. Client errors are permanent, transport errors
// and 5xx are retried.
func (c *HotelClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, worker.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := &StatusError{Path: path, Code: resp.StatusCode}
		if resp.StatusCode < 500 {
			return nil, worker.Permanent(statusErr)
		}
		return nil, statusErr
	}
	return io.ReadAll(resp.Body)
}

func (c *HotelClient) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *HotelClient) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *HotelClient) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if c.apiExtra != "" {
		req.Header.Set("x-api-extra", c.apiExtra)
	}
}
