package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/flight-delay-tui/internal/models"
)

func TestInsertPrediction(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	p := &models.SessionPrediction{
		FlightNumber:     "AM123",
		Airline:          "AM",
		Origin:           "MEX",
		Destination:      "CUN",
		DepartureTime:    "2024-07-05T18:30",
		DelayProbability: 0.42,
	}
	if err := db.InsertPrediction(ctx, p); err != nil {
		t.Fatalf("InsertPrediction failed: %v", err)
	}
	if p.ID == 0 {
		t.Error("Expected ID to be set")
	}
	if p.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to default to now")
	}

	got, err := db.RecentPredictions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentPredictions failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 prediction, got %d", len(got))
	}
	if got[0].FlightNumber != "AM123" || got[0].Destination != "CUN" || got[0].DelayProbability != 0.42 {
		t.Errorf("Unexpected row: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(p.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, p.CreatedAt)
	}
}

func TestRecentPredictions_NewestFirstWithLimit(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, fn := range []string{"A1", "B2", "C3", "D4"} {
		p := &models.SessionPrediction{
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			FlightNumber: fn,
		}
		if err := db.InsertPrediction(ctx, p); err != nil {
			t.Fatalf("InsertPrediction failed: %v", err)
		}
	}

	got, err := db.RecentPredictions(ctx, 3)
	if err != nil {
		t.Fatalf("RecentPredictions failed: %v", err)
	}
	want := []string{"D4", "C3", "B2"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].FlightNumber != want[i] {
			t.Errorf("row %d = %s, want %s", i, got[i].FlightNumber, want[i])
		}
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	empty, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if empty.Predictions != 0 || empty.APICalls != 0 || empty.FailureRate() != 0 {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	for _, p := range []float64{0.2, 0.6} {
		if err := db.InsertPrediction(ctx, &models.SessionPrediction{FlightNumber: "X", DelayProbability: p}); err != nil {
			t.Fatalf("InsertPrediction failed: %v", err)
		}
	}
	calls := []models.APICall{
		{Endpoint: "/api/v1/predict-smart", DurationMs: 100, Success: true},
		{Endpoint: "/api/v1/get-airline", DurationMs: 50, Success: true},
		{Endpoint: "/api/v1/travel-guide", DurationMs: 150, Success: false, Error: "status 500"},
	}
	for i := range calls {
		if err := db.InsertAPICall(ctx, &calls[i]); err != nil {
			t.Fatalf("InsertAPICall failed: %v", err)
		}
		if calls[i].ID == 0 {
			t.Error("Expected API call ID to be set")
		}
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Predictions != 2 {
		t.Errorf("Predictions = %d, want 2", stats.Predictions)
	}
	if stats.AvgProbability < 0.399 || stats.AvgProbability > 0.401 {
		t.Errorf("AvgProbability = %v, want 0.4", stats.AvgProbability)
	}
	if stats.MaxProbability != 0.6 {
		t.Errorf("MaxProbability = %v, want 0.6", stats.MaxProbability)
	}
	if stats.APICalls != 3 || stats.FailedCalls != 1 {
		t.Errorf("APICalls = %d, FailedCalls = %d", stats.APICalls, stats.FailedCalls)
	}
	if stats.AvgCallDurationMs != 100 {
		t.Errorf("AvgCallDurationMs = %v, want 100", stats.AvgCallDurationMs)
	}
}
