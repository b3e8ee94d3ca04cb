package reference

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/j-veylop/flight-delay-tui/internal/models"
)

type fakeFetcher struct {
	airlines    []models.Airline
	airports    []models.Airport
	airlineErr  error
	airportErr  error
	airlineHits atomic.Int32
	airportHits atomic.Int32
}

func (f *fakeFetcher) GetAirlines(context.Context) ([]models.Airline, error) {
	f.airlineHits.Add(1)
	return f.airlines, f.airlineErr
}

func (f *fakeFetcher) GetAirports(context.Context) ([]models.Airport, error) {
	f.airportHits.Add(1)
	return f.airports, f.airportErr
}

func TestLoader_LoadsOnce(t *testing.T) {
	f := &fakeFetcher{
		airlines: []models.Airline{{ID: 3, ShortName: "VB"}},
		airports: []models.Airport{{ID: 1, IATA: "MEX"}, {ID: 2, IATA: "CUN"}},
	}
	l := New(f)

	for i := 0; i < 3; i++ {
		data, err := l.Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(data.Airlines) != 1 || len(data.Airports) != 2 {
			t.Errorf("unexpected data: %+v", data)
		}
	}

	if f.airlineHits.Load() != 1 || f.airportHits.Load() != 1 {
		t.Errorf("expected one request each, got %d/%d", f.airlineHits.Load(), f.airportHits.Load())
	}
}

func TestLoader_PartialFailure(t *testing.T) {
	f := &fakeFetcher{
		airports:   []models.Airport{{ID: 1, IATA: "MEX"}},
		airlineErr: errors.New("boom"),
	}

	data, err := New(f).Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(data.Airports) != 1 {
		t.Errorf("airports should survive an airline failure, got %d", len(data.Airports))
	}
	if len(data.Airlines) != 0 {
		t.Errorf("expected no airlines, got %d", len(data.Airlines))
	}
}

func TestData_Defaults(t *testing.T) {
	tests := []struct {
		name string
		data Data
		want Defaults
	}{
		{"empty", Data{}, Defaults{}},
		{
			"one airport",
			Data{Airlines: []models.Airline{{ID: 4}}, Airports: []models.Airport{{ID: 7}}},
			Defaults{Airline: 4, Origin: 7, Destination: 7},
		},
		{
			"many",
			Data{
				Airlines: []models.Airline{{ID: 2}, {ID: 1}},
				Airports: []models.Airport{{ID: 10}, {ID: 11}, {ID: 12}},
			},
			Defaults{Airline: 2, Origin: 10, Destination: 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.data.Defaults(); got != tt.want {
				t.Errorf("Defaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestData_Lookup(t *testing.T) {
	d := Data{
		Airlines: []models.Airline{{ID: 1, ShortName: "AM"}},
		Airports: []models.Airport{{ID: 2, IATA: "CUN"}},
	}
	if a, ok := d.Airline(1); !ok || a.ShortName != "AM" {
		t.Errorf("Airline(1) = %+v, %v", a, ok)
	}
	if _, ok := d.Airline(9); ok {
		t.Error("Airline(9) should not exist")
	}
	if a, ok := d.Airport(2); !ok || a.IATA != "CUN" {
		t.Errorf("Airport(2) = %+v, %v", a, ok)
	}
	if _, ok := d.Airport(9); ok {
		t.Error("Airport(9) should not exist")
	}
}
