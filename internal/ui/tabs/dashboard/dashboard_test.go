package dashboard

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
	"github.com/j-veylop/flight-delay-tui/internal/ui/delaychart"
)

type fakeFetcher struct {
	calls   []int
	records map[int][]models.MonthlyDelayRecord
}

func (f *fakeFetcher) GetDelaysByMonth(_ context.Context, airlineID int) ([]models.MonthlyDelayRecord, error) {
	f.calls = append(f.calls, airlineID)
	return f.records[airlineID], nil
}

// run executes cmd and feeds every FetchedMsg it produces back into m.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if fetched, ok := c().(delaychart.FetchedMsg); ok {
				m.Update(fetched)
			}
		}
	case delaychart.FetchedMsg:
		m.Update(msg)
	}
}

func testReference() reference.Data {
	return reference.Data{
		Airlines: []models.Airline{
			{ID: 1, ShortName: "AM", FullName: "Aeromexico", Active: true},
			{ID: 2, ShortName: "Y4", FullName: "Volaris", Active: true},
			{ID: 3, ShortName: "VB", FullName: "Viva Aerobus", Active: true},
		},
	}
}

func newLoadedModel(t *testing.T) (*Model, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{records: map[int][]models.MonthlyDelayRecord{
		1: {{Period: "2024-01", TotalFlights: 100, TotalDelays: 20}},
		2: {{Period: "2024-01", TotalFlights: 80, TotalDelays: 8}, {Period: "2024-02", TotalFlights: 90, TotalDelays: 30}},
	}}
	m := New(app.NewState(), f)
	m.SetSize(120, 40)

	_, cmd := m.Update(app.ReferenceLoadedMsg{Data: testReference()})
	run(t, m, cmd)
	return m, f
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), &fakeFetcher{})
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
	if m.Chart().Status() != delaychart.StatusLoading {
		t.Errorf("initial status = %v, want loading", m.Chart().Status())
	}
}

func TestReferenceSelectsDefaultAirline(t *testing.T) {
	m, f := newLoadedModel(t)

	if len(f.calls) != 1 || f.calls[0] != 1 {
		t.Fatalf("calls = %v, want [1]", f.calls)
	}
	if got := m.Chart().Selection(); got != models.SelectAirline(1) {
		t.Errorf("selection = %v", got)
	}
	if m.Chart().Status() != delaychart.StatusLoaded {
		t.Errorf("status = %v, want loaded", m.Chart().Status())
	}
}

func TestReferenceWithoutAirlinesDoesNotFetch(t *testing.T) {
	f := &fakeFetcher{}
	m := New(app.NewState(), f)
	_, cmd := m.Update(app.ReferenceLoadedMsg{})
	run(t, m, cmd)

	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none", f.calls)
	}
	if m.Chart().Status() != delaychart.StatusLoading {
		t.Errorf("status = %v, want loading", m.Chart().Status())
	}
	if !strings.Contains(m.View(), "sin aerolíneas") {
		t.Error("view should note the missing airlines")
	}
}

func TestAirlineNavigation(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		wantID int
	}{
		{name: "next", keys: []string{"n"}, wantID: 2},
		{name: "down wraps", keys: []string{"down", "down", "down"}, wantID: 1},
		{name: "prev wraps", keys: []string{"p"}, wantID: 3},
		{name: "last", keys: []string{"G"}, wantID: 3},
		{name: "first after last", keys: []string{"G", "g"}, wantID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newLoadedModel(t)
			for _, k := range tt.keys {
				_, cmd := m.Update(keyMsg(k))
				run(t, m, cmd)
			}
			a, ok := m.SelectedAirline()
			if !ok || a.ID != tt.wantID {
				t.Errorf("selected = %v, want %d", a.ID, tt.wantID)
			}
		})
	}
}

func TestSwitchAirlineReloadsChart(t *testing.T) {
	m, f := newLoadedModel(t)

	_, cmd := m.Update(keyMsg("n"))
	if m.Chart().Status() != delaychart.StatusLoading {
		t.Error("switching airline should start loading")
	}
	run(t, m, cmd)

	if len(m.Chart().Records()) != 2 {
		t.Errorf("records = %d, want 2", len(m.Chart().Records()))
	}

	_, cmd = m.Update(keyMsg("n"))
	run(t, m, cmd)
	if m.Chart().Status() != delaychart.StatusEmpty {
		t.Errorf("status = %v, want empty", m.Chart().Status())
	}
	if want := []int{1, 2, 3}; len(f.calls) != 3 || f.calls[2] != 3 {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
}

func TestRefreshOnlyForDashboardTab(t *testing.T) {
	m, f := newLoadedModel(t)

	_, cmd := m.Update(app.RefreshMsg{Tab: app.TabHistory})
	if cmd != nil {
		t.Error("refresh for another tab should be ignored")
	}

	_, cmd = m.Update(app.RefreshMsg{Tab: app.TabDashboard})
	run(t, m, cmd)
	if len(f.calls) != 2 || f.calls[1] != 1 {
		t.Errorf("calls = %v, want [1 1]", f.calls)
	}
}

func TestCursorKeysReachChart(t *testing.T) {
	m, _ := newLoadedModel(t)
	_, cmd := m.Update(keyMsg("n"))
	run(t, m, cmd)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Chart().Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", m.Chart().Cursor())
	}
}

func TestView(t *testing.T) {
	m, _ := newLoadedModel(t)
	view := m.View()

	for _, want := range []string{"Dashboard de Retrasos", "Aeromexico (AM)", "(1/3)", delaychart.Title, "Enero"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHelp(t *testing.T) {
	m := New(app.NewState(), &fakeFetcher{})
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp returned no bindings")
	}
	if len(m.FullHelp()) != 4 {
		t.Errorf("FullHelp groups = %d, want 4", len(m.FullHelp()))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
