package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/flight-delay-tui/internal/models"
)

// Timestamps are stored as unix milliseconds.

// InsertPrediction records a prediction and sets its ID.
func (db *DB) InsertPrediction(ctx context.Context, p *models.SessionPrediction) error {
	query := `
		INSERT INTO predictions (
			created_at, flight_number, airline, origin, destination,
			departure_time, delay_probability
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(ctx, query,
		createdAt.UnixMilli(),
		p.FlightNumber,
		p.Airline,
		p.Origin,
		p.Destination,
		p.DepartureTime,
		p.DelayProbability,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		p.ID = id
		p.CreatedAt = createdAt
	}

	return nil
}

// RecentPredictions returns up to limit predictions, newest first.
func (db *DB) RecentPredictions(ctx context.Context, limit int) ([]models.SessionPrediction, error) {
	query := `
		SELECT id, created_at, flight_number, airline, origin, destination,
			   departure_time, delay_probability
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.SessionPrediction
	for rows.Next() {
		var p models.SessionPrediction
		var createdAt int64
		if err := rows.Scan(
			&p.ID,
			&createdAt,
			&p.FlightNumber,
			&p.Airline,
			&p.Origin,
			&p.Destination,
			&p.DepartureTime,
			&p.DelayProbability,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, p)
	}

	return out, rows.Err()
}

// InsertAPICall records a backend request.
func (db *DB) InsertAPICall(ctx context.Context, call *models.APICall) error {
	query := `
		INSERT INTO api_calls (timestamp, endpoint, duration_ms, success, error)
		VALUES (?, ?, ?, ?, ?)
	`

	timestamp := call.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(ctx, query,
		timestamp.UnixMilli(),
		call.Endpoint,
		call.DurationMs,
		boolToInt(call.Success),
		nullString(call.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert API call: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		call.ID = id
	}

	return nil
}

// Stats aggregates predictions and API calls of the session.
func (db *DB) Stats(ctx context.Context) (*models.SessionStats, error) {
	var stats models.SessionStats

	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(delay_probability), 0), COALESCE(MAX(delay_probability), 0)
		FROM predictions
	`).Scan(&stats.Predictions, &stats.AvgProbability, &stats.MaxProbability)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction stats: %w", err)
	}

	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
			   COALESCE(AVG(duration_ms), 0)
		FROM api_calls
	`).Scan(&stats.APICalls, &stats.FailedCalls, &stats.AvgCallDurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to query api call stats: %w", err)
	}

	return &stats, nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
