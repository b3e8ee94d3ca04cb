// Package reference loads the airline and airport lists used by the flight form.
package reference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/models"
)

// Fetcher retrieves reference data from the backend.
type Fetcher interface {
	GetAirlines(ctx context.Context) ([]models.Airline, error)
	GetAirports(ctx context.Context) ([]models.Airport, error)
}

// Data holds the loaded lists. A list whose request failed is empty.
type Data struct {
	Airlines []models.Airline
	Airports []models.Airport
}

// Defaults are the initial form selections.
type Defaults struct {
	Airline     int
	Origin      int
	Destination int
}

// Defaults picks the first airline, the first airport as origin and the
// second airport as destination, falling back to the first. Zero means none.
func (d Data) Defaults() Defaults {
	var out Defaults
	if len(d.Airlines) > 0 {
		out.Airline = d.Airlines[0].ID
	}
	if len(d.Airports) > 0 {
		out.Origin = d.Airports[0].ID
		out.Destination = d.Airports[0].ID
	}
	if len(d.Airports) > 1 {
		out.Destination = d.Airports[1].ID
	}
	return out
}

// Airport returns the airport with id.
func (d Data) Airport(id int) (models.Airport, bool) {
	for _, a := range d.Airports {
		if a.ID == id {
			return a, true
		}
	}
	return models.Airport{}, false
}

// Airline returns the airline with id.
func (d Data) Airline(id int) (models.Airline, bool) {
	for _, a := range d.Airlines {
		if a.ID == id {
			return a, true
		}
	}
	return models.Airline{}, false
}

// Loader fetches both lists once per session.
type Loader struct {
	fetcher Fetcher
	err     error
	data    Data
	once    sync.Once
}

// New creates a loader backed by f.
func New(f Fetcher) *Loader {
	return &Loader{fetcher: f}
}

// Load fetches airlines and airports concurrently on first call and returns
// the cached result afterwards. Partial results are kept when one request fails.
func (l *Loader) Load(ctx context.Context) (Data, error) {
	l.once.Do(func() {
		l.data, l.err = l.fetch(ctx)
	})
	return l.data, l.err
}

func (l *Loader) fetch(ctx context.Context) (Data, error) {
	var (
		wg                     sync.WaitGroup
		data                   Data
		airlineErr, airportErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		data.Airlines, airlineErr = l.fetcher.GetAirlines(ctx)
	}()
	go func() {
		defer wg.Done()
		data.Airports, airportErr = l.fetcher.GetAirports(ctx)
	}()
	wg.Wait()

	var errs []error
	if airlineErr != nil {
		logger.Error("failed to load airlines", "error", airlineErr)
		errs = append(errs, fmt.Errorf("airlines: %w", airlineErr))
	}
	if airportErr != nil {
		logger.Error("failed to load airports", "error", airportErr)
		errs = append(errs, fmt.Errorf("airports: %w", airportErr))
	}

	logger.Info("reference data loaded", "airlines", len(data.Airlines), "airports", len(data.Airports))
	return data, errors.Join(errs...)
}
