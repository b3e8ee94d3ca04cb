// Package dashboard provides the monthly delay statistics tab.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/ui/delaychart"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	NextAirline  key.Binding
	PrevAirline  key.Binding
	FirstAirline key.Binding
	LastAirline  key.Binding
	Refresh      key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextAirline: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "aerolínea siguiente"),
		),
		PrevAirline: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "aerolínea anterior"),
		),
		FirstAirline: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "primera aerolínea"),
		),
		LastAirline: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "última aerolínea"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recargar"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state         *app.State
	chart         *delaychart.Model
	keys          keyMap
	viewport      viewport.Model
	airlines      []models.Airline
	width         int
	height        int
	selectedIndex int
}

// New creates a dashboard whose chart loads through f.
func New(state *app.State, f delaychart.Fetcher) *Model {
	return &Model{
		state:    state,
		chart:    delaychart.New(f),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init starts the chart spinner.
func (m *Model) Init() tea.Cmd {
	return m.chart.Init()
}

// Chart exposes the delay chart.
func (m *Model) Chart() *delaychart.Model {
	return m.chart
}

// SelectedAirline returns the airline shown, if any.
func (m *Model) SelectedAirline() (models.Airline, bool) {
	if len(m.airlines) == 0 {
		return models.Airline{}, false
	}
	return m.airlines[m.selectedIndex], true
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReferenceLoadedMsg:
		return m, m.setAirlines(msg.Data.Airlines, msg.Data.Defaults().Airline)

	case app.RefreshMsg:
		if msg.Tab == app.TabDashboard {
			return m, m.chart.Refresh()
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.chart, cmd = m.chart.Update(msg)
	return m, cmd
}

func (m *Model) setAirlines(airlines []models.Airline, defaultID int) tea.Cmd {
	m.airlines = airlines
	m.selectedIndex = 0
	for i, a := range airlines {
		if a.ID == defaultID {
			m.selectedIndex = i
			break
		}
	}
	return m.chart.Select(models.SelectionFromID(defaultID))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.airlines)
	prev := m.selectedIndex

	switch {
	case key.Matches(msg, m.keys.NextAirline):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevAirline):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstAirline):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastAirline):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	case key.Matches(msg, m.chart.Keys()...):
		var cmd tea.Cmd
		m.chart, cmd = m.chart.Update(msg)
		return cmd
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	if count == 0 || m.selectedIndex == prev {
		return nil
	}
	return m.chart.Select(models.SelectAirline(m.airlines[m.selectedIndex].ID))
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.chart.SetSize(max(width-8, 40), height-10)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return append([]key.Binding{
		m.keys.NextAirline,
		m.keys.PrevAirline,
	}, m.chart.Keys()...)
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextAirline, m.keys.PrevAirline},
		{m.keys.FirstAirline, m.keys.LastAirline},
		m.chart.Keys(),
		{m.keys.Refresh},
	}
}
