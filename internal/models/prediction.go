package models

import (
	"fmt"
	"math"
	"time"
)

// DepartureLayout is the departure time format sent to the prediction backend.
const DepartureLayout = "2006-01-02T15:04"

// FlightQuery holds the flight identification fields of a prediction request.
type FlightQuery struct {
	FlightNumber  string `json:"flightNumber"`
	Airline       int    `json:"airline"`
	Origin        int    `json:"origin"`
	Destination   int    `json:"destination"`
	DepartureTime string `json:"departureTime"`
}

// SmartPredictionRequest is the body of POST /api/v1/predict-smart.
type SmartPredictionRequest struct {
	Flight    FlightQuery `json:"flight"`
	DayOfWeek int         `json:"dayOfWeek"`
	Hour      int         `json:"hour"`
	Minute    int         `json:"minute"`
	Month     int         `json:"month"`
}

// NewSmartPredictionRequest fills the calendar fields from departure.
// DayOfWeek is ISO based: Monday is 1 and Sunday is 7.
func NewSmartPredictionRequest(flightNumber string, airline, origin, destination int, departure time.Time) SmartPredictionRequest {
	dow := int(departure.Weekday())
	if dow == 0 {
		dow = 7
	}
	return SmartPredictionRequest{
		Flight: FlightQuery{
			FlightNumber:  flightNumber,
			Airline:       airline,
			Origin:        origin,
			Destination:   destination,
			DepartureTime: departure.Format(DepartureLayout),
		},
		DayOfWeek: dow,
		Hour:      departure.Hour(),
		Minute:    departure.Minute(),
		Month:     int(departure.Month()),
	}
}

// PredictionResponse is returned by both prediction endpoints.
type PredictionResponse struct {
	ID               *string `json:"id"`
	FlightNumber     string  `json:"flightNumber"`
	Airline          string  `json:"airline"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	DepartureTime    string  `json:"departureTime"`
	DelayProbability float64 `json:"delayProbability"`
}

// PredictionSummary is the percentage view of a prediction.
type PredictionSummary struct {
	Airline             int
	OnTimePercentage    int
	DelayPercentage     int
	AverageDelayMinutes int
}

// Summarize converts a delay probability in [0,1] into percentages.
// The minutes estimate scales the probability to an hour.
func Summarize(airline int, delayProbability float64) PredictionSummary {
	delay := int(math.Round(delayProbability * 100))
	return PredictionSummary{
		Airline:             airline,
		DelayPercentage:     delay,
		OnTimePercentage:    100 - delay,
		AverageDelayMinutes: int(math.Round(delayProbability * 60)),
	}
}

// PredictionRequest is the body of POST /api/v1/predict.
type PredictionRequest = FlightQuery

// FlightFormValues are the primitive values submitted by the flight form.
type FlightFormValues struct {
	Date         time.Time
	FlightNumber string
	Time         string
	Airline      int
	Origin       int
	Destination  int
}

// Departure combines the date and the HH:MM time in the local zone.
func (v FlightFormValues) Departure() (time.Time, error) {
	t, err := time.Parse("15:04", v.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid departure time %q: %w", v.Time, err)
	}
	y, m, d := v.Date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// PredictionResult is a backend prediction with its derived summary.
type PredictionResult struct {
	Departure time.Time
	Response  PredictionResponse
	Summary   PredictionSummary
}
