// Package history provides the tab listing predictions made this session.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recargar"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "bajar"),
		),
	}
}

// Model represents the history tab state.
type Model struct {
	state       *app.State
	stats       *models.SessionStats
	lastRefresh time.Time
	err         error
	keys        keyMap
	predictions []models.SessionPrediction
	table       table.Model
	width       int
	height      int
}

// New creates a new history model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	t.SetStyles(table.Styles{
		Header:   styles.TableHeaderStyle,
		Cell:     styles.TableCellStyle,
		Selected: styles.TableSelectedStyle,
	})

	return &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
	}
}

// Init requests the first history load.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return app.RefreshMsg{Tab: app.TabHistory}
	}
}

// Predictions returns the listed predictions, newest first.
func (m *Model) Predictions() []models.SessionPrediction {
	return m.predictions
}

// Stats returns the last loaded session stats, or nil.
func (m *Model) Stats() *models.SessionStats {
	return m.stats
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.HistoryLoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.predictions = msg.Predictions
		m.stats = msg.Stats
		m.lastRefresh = time.Now()
		m.table.SetRows(rows(m.predictions))

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func rows(predictions []models.SessionPrediction) []table.Row {
	out := make([]table.Row, 0, len(predictions))
	for _, p := range predictions {
		out = append(out, table.Row{
			p.CreatedAt.Format("15:04:05"),
			p.FlightNumber,
			p.Airline,
			p.Origin + " → " + p.Destination,
			p.DepartureTime,
			formatProbability(p.DelayProbability),
		})
	}
	return out
}

func formatProbability(p float64) string {
	return fmt.Sprintf("%.0f%%", p*100)
}

func columns(width int) []table.Column {
	airlineWidth := min(max(width-70, 10), 30)
	return []table.Column{
		{Title: "Hora", Width: 10},
		{Title: "Vuelo", Width: 8},
		{Title: "Aerolínea", Width: airlineWidth},
		{Title: "Ruta", Width: 12},
		{Title: "Salida", Width: 18},
		{Title: "Retraso", Width: 8},
	}
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-18, 5))
	m.table.SetColumns(columns(width))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Refresh},
	}
}
