package models

import "time"

// SessionPrediction is a prediction recorded during the current session.
type SessionPrediction struct {
	CreatedAt        time.Time
	FlightNumber     string
	Airline          string
	Origin           string
	Destination      string
	DepartureTime    string
	ID               int64
	DelayProbability float64
}

// NewSessionPrediction records a backend response.
func NewSessionPrediction(resp *PredictionResponse) *SessionPrediction {
	return &SessionPrediction{
		CreatedAt:        time.Now(),
		FlightNumber:     resp.FlightNumber,
		Airline:          resp.Airline,
		Origin:           resp.Origin,
		Destination:      resp.Destination,
		DepartureTime:    resp.DepartureTime,
		DelayProbability: resp.DelayProbability,
	}
}

// APICall records one backend request made during the session.
type APICall struct {
	Timestamp  time.Time
	Endpoint   string
	Error      string
	ID         int64
	DurationMs int64
	Success    bool
}

// SessionStats aggregates the session log.
type SessionStats struct {
	Predictions       int
	AvgProbability    float64
	MaxProbability    float64
	APICalls          int
	FailedCalls       int
	AvgCallDurationMs float64
}

// FailureRate returns the share of failed calls in [0,1].
func (s SessionStats) FailureRate() float64 {
	if s.APICalls == 0 {
		return 0
	}
	return float64(s.FailedCalls) / float64(s.APICalls)
}
