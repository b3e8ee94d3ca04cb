// Package api provides a typed client for the flight prediction backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/models"
)

// Backend endpoint paths.
const (
	PathPredict       = "/api/v1/predict"
	PathPredictSmart  = "/api/v1/predict-smart"
	PathAirlines      = "/api/v1/get-airline"
	PathAirports      = "/api/v1/get-airport"
	PathDelaysByMonth = "/api/v1/dashboard/delays-by-month"
	PathTravelGuide   = "/api/v1/travel-guide"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Client talks to the prediction, reference-data, dashboard and travel-guide endpoints.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	mu         sync.RWMutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points the client at another backend. In-flight requests are unaffected.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()
}

// Timeout returns the per-request timeout, zero for none.
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// SetTimeout changes the per-request timeout. In-flight requests keep theirs.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// GetAirlines returns the active airlines.
func (c *Client) GetAirlines(ctx context.Context) ([]models.Airline, error) {
	var out []models.Airline
	body := map[string]string{"active": "true"}
	if err := c.do(ctx, http.MethodPost, PathAirlines, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAirports returns every airport.
func (c *Client) GetAirports(ctx context.Context) ([]models.Airport, error) {
	var out []models.Airport
	if err := c.do(ctx, http.MethodPost, PathAirports, struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDelaysByMonth returns the monthly flight and delay totals of an airline,
// in the order the backend sends them.
func (c *Client) GetDelaysByMonth(ctx context.Context, airlineID int) ([]models.MonthlyDelayRecord, error) {
	q := url.Values{}
	q.Set("opUniqueCarrier", strconv.Itoa(airlineID))

	var out []models.MonthlyDelayRecord
	if err := c.do(ctx, http.MethodGet, PathDelaysByMonth+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Predict calls the plain prediction endpoint.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	var out models.PredictionResponse
	if err := c.do(ctx, http.MethodPost, PathPredict, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictSmart calls the prediction endpoint that also receives calendar features.
func (c *Client) PredictSmart(ctx context.Context, req models.SmartPredictionRequest) (*models.PredictionResponse, error) {
	var out models.PredictionResponse
	if err := c.do(ctx, http.MethodPost, PathPredictSmart, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchTravelGuide requests the arrival guide for a location and DD-MM date.
func (c *Client) FetchTravelGuide(ctx context.Context, req models.TravelGuideRequest) (*models.TravelGuide, error) {
	var out models.TravelGuide
	if err := c.do(ctx, http.MethodPost, PathTravelGuide, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends a JSON request and decodes the JSON response into out.
// Every failure is wrapped with ErrFetchFailed.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to encode %s request: %w", ErrFetchFailed, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	if timeout := c.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	endpoint := c.BaseURL() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s request: %w", ErrFetchFailed, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("api request", "method", method, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %w", ErrFetchFailed, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s response: %w", ErrFetchFailed, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %w", ErrFetchFailed, path, err)
	}

	return nil
}
