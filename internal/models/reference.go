// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"strconv"

	"github.com/skypies/geo"
)

// Airline is an entry of the reference airline list.
type Airline struct {
	ID        int    `json:"id"`
	ShortName string `json:"shortName"`
	FullName  string `json:"fullName"`
	Active    bool   `json:"active"`
}

// Label returns the text shown in selectors, e.g. "Aeromexico (AM)".
func (a Airline) Label() string {
	return fmt.Sprintf("%s (%s)", a.FullName, a.ShortName)
}

// Airport is an entry of the reference airport list.
type Airport struct {
	ID        int     `json:"id"`
	IATA      string  `json:"iata"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Label returns the text shown in selectors, e.g. "Cancun - Cancun Intl (CUN)".
func (a Airport) Label() string {
	return fmt.Sprintf("%s - %s (%s)", a.City, a.Name, a.IATA)
}

// Latlong returns the airport position.
func (a Airport) Latlong() geo.Latlong {
	return geo.Latlong{Lat: a.Latitude, Long: a.Longitude}
}

// AirlineSelection is an explicit "maybe an airline" value.
// The zero value means no airline is selected.
type AirlineSelection struct {
	ID    int
	Valid bool
}

// NoAirline is the empty selection.
var NoAirline = AirlineSelection{}

// SelectAirline returns a selection holding id.
func SelectAirline(id int) AirlineSelection {
	return AirlineSelection{ID: id, Valid: true}
}

// SelectionFromID converts a raw id where 0 means "nothing selected".
func SelectionFromID(id int) AirlineSelection {
	if id == 0 {
		return NoAirline
	}
	return SelectAirline(id)
}

func (s AirlineSelection) String() string {
	if !s.Valid {
		return "none"
	}
	return fmt.Sprintf("%d", s.ID)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
