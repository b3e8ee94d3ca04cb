package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/flight-delay-tui/internal/mockapi"
	"github.com/j-veylop/flight-delay-tui/internal/models"
)

type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func newMockBackend(t *testing.T) (*Client, *mockapi.Store) {
	t.Helper()
	store := mockapi.NewStore()
	srv := httptest.NewServer(mockapi.NewRouter(store))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), store
}

func TestClient_ReferenceData(t *testing.T) {
	c, store := newMockBackend(t)
	ctx := context.Background()

	airlines, err := c.GetAirlines(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, airlines)
	for _, a := range airlines {
		assert.True(t, a.Active, "airline %s should be active", a.ShortName)
	}

	airports, err := c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Airports(), airports)
}

func TestClient_GetDelaysByMonth(t *testing.T) {
	c, store := newMockBackend(t)
	want := []models.MonthlyDelayRecord{
		{Period: "2024-02", TotalFlights: 80, TotalDelays: 8},
		{Period: "2024-01", TotalFlights: 100, TotalDelays: 20},
	}
	store.SetDelays(7, want)

	got, err := c.GetDelaysByMonth(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, want, got, "order and count must match the backend")

	empty, err := c.GetDelaysByMonth(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClient_GetDelaysByMonth_StatusError(t *testing.T) {
	c, store := newMockBackend(t)
	store.SetFailing(2, true)

	_, err := c.GetDelaysByMonth(context.Background(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Error(), "status 500")
}

func TestClient_SendsQueryAndBodies(t *testing.T) {
	var gotQuery, gotMethod, gotContentType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.GetDelaysByMonth(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "opUniqueCarrier=12", gotQuery)

	_, err = c.GetAirlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{"active": "true"}, gotBody)

	_, err = c.GetAirports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, gotBody)
}

func TestClient_Predict(t *testing.T) {
	c, _ := newMockBackend(t)
	dep := time.Date(2024, time.December, 22, 19, 0, 0, 0, time.Local)
	req := models.NewSmartPredictionRequest("AM500", 1, 1, 2, dep)

	smart, err := c.PredictSmart(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "AM500", smart.FlightNumber)
	assert.Equal(t, mockapi.DelayProbability(req), smart.DelayProbability)
	assert.InDelta(t, 0.5, smart.DelayProbability, 0.5)

	plain, err := c.Predict(context.Background(), req.Flight)
	require.NoError(t, err)
	assert.Equal(t, smart.DelayProbability, plain.DelayProbability)
}

func TestClient_FetchTravelGuide(t *testing.T) {
	c, store := newMockBackend(t)
	cun := store.Airports()[1]

	g, err := c.FetchTravelGuide(context.Background(),
		models.NewTravelGuideRequest(cun, time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "Cancun", g.Destination.City)
	assert.LessOrEqual(t, len(g.Safety.TopScams()), 2)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name      string
		transport *MockRoundTripper
	}{
		{
			name: "NetworkError",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return nil, errors.New("net error")
				},
			},
		},
		{
			name: "StatusError",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 404, Body: io.NopCloser(strings.NewReader("not found"))}, nil
				},
			},
		},
		{
			name: "JSONError",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("invalid json"))}, nil
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("http://backend.test", WithHTTPClient(&http.Client{Transport: tt.transport}))
			_, err := c.GetDelaysByMonth(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	c, _ := newMockBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetAirports(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_SetBaseURL(t *testing.T) {
	c := New("http://first.test/")
	assert.Equal(t, "http://first.test", c.BaseURL())

	c.SetBaseURL("http://second.test//")
	assert.Equal(t, "http://second.test", c.BaseURL())
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	hc := &http.Client{}
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "timeout after http client", opts: []Option{WithHTTPClient(hc), WithTimeout(20 * time.Millisecond)}},
		{name: "timeout before http client", opts: []Option{WithTimeout(20 * time.Millisecond), WithHTTPClient(hc)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(srv.URL, tt.opts...)
			assert.Equal(t, 20*time.Millisecond, c.Timeout())

			_, err := c.GetAirports(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetchFailed)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Zero(t, hc.Timeout, "caller's http client must not be modified")
		})
	}
}

func TestClient_SetTimeout(t *testing.T) {
	c := New("http://example.test", WithTimeout(time.Second))
	c.SetTimeout(0)
	assert.Zero(t, c.Timeout())
	c.SetTimeout(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Timeout())
}
