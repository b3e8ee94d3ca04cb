package models

import (
	"math"
	"strconv"
	"strings"
)

// MonthlyDelayRecord is one month of flight and delay totals for an airline.
type MonthlyDelayRecord struct {
	Period       string `json:"periodo"`
	TotalFlights int    `json:"totalVuelos"`
	TotalDelays  int    `json:"totalRetrasos"`
}

// ChartRecord is a MonthlyDelayRecord with its derived delay rate.
type ChartRecord struct {
	MonthlyDelayRecord
	DelayRatePercent float64
}

// DelayRatePercent returns delays/flights*100 rounded to one decimal, or 0 without flights.
func DelayRatePercent(totalFlights, totalDelays int) float64 {
	if totalFlights == 0 {
		return 0
	}
	rate := float64(totalDelays) / float64(totalFlights) * 100
	return math.Round(rate*10) / 10
}

// ToChartRecords derives chart records, keeping the order and count of the input.
func ToChartRecords(records []MonthlyDelayRecord) []ChartRecord {
	out := make([]ChartRecord, len(records))
	for i, r := range records {
		out[i] = ChartRecord{
			MonthlyDelayRecord: r,
			DelayRatePercent:   DelayRatePercent(r.TotalFlights, r.TotalDelays),
		}
	}
	return out
}

// MonthNames holds the Spanish month names, January first.
var MonthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthLabel returns the month name for a "YYYY-MM" period.
// Periods that do not parse are returned unchanged.
func MonthLabel(period string) string {
	parts := strings.Split(period, "-")
	if len(parts) < 2 {
		return period
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return period
	}
	return MonthNames[month-1]
}
