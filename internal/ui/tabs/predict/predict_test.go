package predict

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
	"github.com/j-veylop/flight-delay-tui/internal/ui/components"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

func testReference() reference.Data {
	return reference.Data{
		Airlines: []models.Airline{
			{ID: 1, ShortName: "AM", FullName: "Aeromexico", Active: true},
			{ID: 2, ShortName: "Y4", FullName: "Volaris", Active: true},
		},
		Airports: []models.Airport{
			{ID: 1, IATA: "MEX", Name: "Benito Juarez", City: "Ciudad de Mexico", Latitude: 19.4361, Longitude: -99.0719},
			{ID: 2, IATA: "CUN", Name: "Cancun Intl", City: "Cancun", Latitude: 21.0365, Longitude: -86.8771},
			{ID: 3, IATA: "GDL", Name: "Miguel Hidalgo", City: "Guadalajara", Latitude: 20.5218, Longitude: -103.3112},
		},
	}
}

func newTestForm(onSubmit func(models.FlightFormValues) tea.Cmd) *Form {
	f := NewForm(onSubmit)
	f.now = func() time.Time { return fixedNow }
	f.date.SetValue(fixedNow.Format(DateLayout))
	return f
}

func typeText(f *Form, s string) {
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(f *Form, k tea.KeyType, n int) {
	for range n {
		f.Update(tea.KeyMsg{Type: k})
	}
}

func TestTimeOptions(t *testing.T) {
	opts := TimeOptions()
	if len(opts) != 48 {
		t.Fatalf("len = %d, want 48", len(opts))
	}
	if opts[0] != "00:00" || opts[1] != "00:30" || opts[47] != "23:30" {
		t.Errorf("unexpected options %q %q %q", opts[0], opts[1], opts[47])
	}
}

func TestFormDefaults(t *testing.T) {
	f := newTestForm(nil)
	f.SetReference(testReference())

	if !f.CapturesInput() {
		t.Error("flight field should start focused for editing")
	}
	if f.ButtonLabel() != SubmitLabel {
		t.Errorf("ButtonLabel = %q", f.ButtonLabel())
	}

	origin, dest, ok := f.SelectedAirports()
	if !ok {
		t.Fatal("airports not loaded")
	}
	if origin.IATA != "MEX" || dest.IATA != "CUN" {
		t.Errorf("defaults = %s -> %s, want MEX -> CUN", origin.IATA, dest.IATA)
	}
}

func TestFormValidation(t *testing.T) {
	tests := []struct {
		name    string
		flight  string
		date    string
		noRef   bool
		wantErr error
	}{
		{name: "missing flight", flight: "", date: "10/03/2025", wantErr: ErrFlightNumberRequired},
		{name: "blank flight", flight: "   ", date: "10/03/2025", wantErr: ErrFlightNumberRequired},
		{name: "bad date", flight: "AM1", date: "2025-03-10", wantErr: ErrInvalidDate},
		{name: "past date", flight: "AM1", date: "09/03/2025", wantErr: ErrPastDate},
		{name: "no reference", flight: "AM1", date: "10/03/2025", noRef: true, wantErr: ErrNoReferenceData},
		{name: "today", flight: "AM1", date: "10/03/2025"},
		{name: "future", flight: "AM1", date: "01/12/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm(nil)
			if !tt.noRef {
				f.SetReference(testReference())
			}
			f.flight.SetValue(tt.flight)
			f.date.SetValue(tt.date)

			_, err := f.Values()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormSubmit(t *testing.T) {
	var got models.FlightFormValues
	calls := 0
	f := newTestForm(func(v models.FlightFormValues) tea.Cmd {
		got = v
		calls++
		return nil
	})
	f.SetReference(testReference())

	typeText(f, "am123")
	press(f, tea.KeyDown, 1)  // airline
	press(f, tea.KeyRight, 1) // Volaris
	press(f, tea.KeyDown, 2)  // destination
	press(f, tea.KeyRight, 1) // GDL
	press(f, tea.KeyDown, 2)  // time
	press(f, tea.KeyRight, 17)
	press(f, tea.KeyDown, 1) // submit
	press(f, tea.KeyEnter, 1)

	if calls != 1 {
		t.Fatalf("OnSubmit called %d times", calls)
	}
	want := models.FlightFormValues{
		FlightNumber: "AM123",
		Airline:      2,
		Origin:       1,
		Destination:  3,
		Date:         time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local),
		Time:         "08:30",
	}
	if got.FlightNumber != want.FlightNumber || got.Airline != want.Airline ||
		got.Origin != want.Origin || got.Destination != want.Destination || got.Time != want.Time {
		t.Errorf("values = %+v, want %+v", got, want)
	}
	if !got.Date.Equal(want.Date) {
		t.Errorf("date = %v, want %v", got.Date, want.Date)
	}

	if !f.Loading() || f.ButtonLabel() != LoadingLabel {
		t.Error("form should be loading after submit")
	}

	press(f, tea.KeyEnter, 1)
	if calls != 1 {
		t.Error("submit while loading should be ignored")
	}
}

func TestFormSubmitWithoutHandler(t *testing.T) {
	f := newTestForm(nil)
	f.SetReference(testReference())
	typeText(f, "AM123")

	if cmd := f.Submit(); cmd != nil {
		t.Error("expected no command without a submit handler")
	}
	if f.Loading() || f.ButtonLabel() == LoadingLabel {
		t.Error("form should not be stuck loading without a submit handler")
	}
}

func TestFormSubmitShowsValidationError(t *testing.T) {
	f := newTestForm(func(models.FlightFormValues) tea.Cmd {
		t.Fatal("OnSubmit should not be called")
		return nil
	})
	f.SetReference(testReference())

	if cmd := f.Submit(); cmd != nil {
		t.Error("expected nil cmd")
	}
	if !errors.Is(f.Err(), ErrFlightNumberRequired) {
		t.Errorf("Err = %v", f.Err())
	}
	if !strings.Contains(f.View(80), string(ErrFlightNumberRequired)) {
		t.Error("view should show the validation error")
	}
}

func TestFormEscapeReleasesInput(t *testing.T) {
	f := newTestForm(nil)
	press(f, tea.KeyEsc, 1)
	if f.CapturesInput() {
		t.Error("esc should release input")
	}
	typeText(f, "x")
	if !f.CapturesInput() || f.flight.Value() != "X" {
		t.Errorf("typing should resume editing, value %q", f.flight.Value())
	}
}

func TestModelSubmitEmitsMessage(t *testing.T) {
	state := app.NewState()
	m := New(state, components.DefaultMarkerStyle())
	m.Update(app.ReferenceLoadedMsg{Data: testReference()})
	m.form.now = func() time.Time { return fixedNow }
	m.form.date.SetValue(fixedNow.Format(DateLayout))
	m.form.flight.SetValue("AM1")

	cmd := m.form.Submit()
	if cmd == nil {
		t.Fatal("expected submit cmd")
	}
	msg, ok := cmd().(app.SubmitPredictionMsg)
	if !ok {
		t.Fatalf("got %T, want SubmitPredictionMsg", cmd())
	}
	if msg.Values.FlightNumber != "AM1" || msg.Values.Origin != 1 || msg.Values.Destination != 2 {
		t.Errorf("values = %+v", msg.Values)
	}
}

func TestModelPredictionResult(t *testing.T) {
	state := app.NewState()
	data := testReference()
	state.SetReference(data)

	m := New(state, components.MarkerStyle{Color: "#00FF00", Glyph: '*'})
	m.SetSize(140, 40)
	m.Update(app.ReferenceLoadedMsg{Data: data})
	m.form.SetLoading(true)

	result := &models.PredictionResult{
		Departure: time.Date(2025, time.March, 10, 8, 30, 0, 0, time.Local),
		Response:  models.PredictionResponse{FlightNumber: "AM123", Origin: "MEX", Destination: "CUN", DelayProbability: 0.35},
		Summary:   models.Summarize(1, 0.35),
	}
	_, cmd := m.Update(app.PredictionResultMsg{
		Result: result,
		Values: models.FlightFormValues{Origin: 1, Destination: 2},
	})

	if m.form.Loading() {
		t.Error("result should end loading")
	}
	if cmd == nil {
		t.Error("expected bar animation cmd")
	}
	if m.Result() != result {
		t.Fatal("result not stored")
	}
	if m.RouteMap() == nil {
		t.Fatal("route map not built")
	}
	if km := m.RouteMap().DistanceKM(); km < 1200 || km > 1400 {
		t.Errorf("distance = %.0f km", km)
	}

	view := m.View()
	for _, want := range []string{"AM123", "35%", "65%", "21 min", "Distancia"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelPredictionError(t *testing.T) {
	state := app.NewState()
	m := New(state, components.DefaultMarkerStyle())
	m.form.SetLoading(true)

	_, cmd := m.Update(app.PredictionResultMsg{Err: errors.New("boom")})
	if cmd != nil {
		t.Error("expected nil cmd")
	}
	if m.form.Loading() {
		t.Error("error should end loading")
	}
	if m.Result() != nil {
		t.Error("no result expected")
	}
}

func TestModelLoadingView(t *testing.T) {
	m := New(app.NewState(), components.DefaultMarkerStyle())
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "Cargando aerolíneas") {
		t.Error("expected loading spinner before reference data")
	}
}
