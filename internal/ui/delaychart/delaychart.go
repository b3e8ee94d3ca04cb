// Package delaychart renders the monthly flights-versus-delays summary of
// an airline: grouped flight and delay bars against a delay-rate line.
package delaychart

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/ui/components"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// Fixed user-facing text.
const (
	Title          = "Resumen Mensual: Vuelos vs Retrasos"
	LoadingMessage = "Cargando estadísticas..."
	ErrorMessage   = "Error al cargar los datos del dashboard."
	EmptyMessage   = "No hay datos disponibles."
)

// Series keys, matching the wire field names. The rate has no wire name.
const (
	KeyFlights = "totalVuelos"
	KeyDelays  = "totalRetrasos"
	KeyRate    = "tasaRetraso"
)

// Series labels.
const (
	LabelFlights = "Total Vuelos"
	LabelDelays  = "Total Retrasos"
	LabelRate    = "Tasa de Retraso"
)

// Fetcher loads the monthly statistics of an airline.
type Fetcher interface {
	GetDelaysByMonth(ctx context.Context, airlineID int) ([]models.MonthlyDelayRecord, error)
}

// Status is the display state of the chart.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusEmpty
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// FetchedMsg carries the result of one fetch cycle.
type FetchedMsg struct {
	Err     error
	Records []models.MonthlyDelayRecord
	Seq     uint64
	Airline models.AirlineSelection
}

type keyMap struct {
	Prev key.Binding
	Next key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "mes anterior")),
		Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "mes siguiente")),
	}
}

// Model is the chart state for the currently selected airline.
type Model struct {
	fetcher   Fetcher
	spinner   components.LoadingSpinner
	keys      keyMap
	records   []models.ChartRecord
	selection models.AirlineSelection
	status    Status
	seq       uint64
	cursor    int
	width     int
	height    int
}

// New returns a chart in the loading state with no airline selected.
func New(f Fetcher) *Model {
	return &Model{
		fetcher: f,
		spinner: components.NewSpinner(LoadingMessage),
		keys:    defaultKeyMap(),
		status:  StatusLoading,
	}
}

// Init starts the loading spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Select switches the chart to an airline and starts a fetch for it.
// NoAirline is ignored and leaves the current state untouched.
func (m *Model) Select(sel models.AirlineSelection) tea.Cmd {
	if !sel.Valid {
		return nil
	}
	m.selection = sel
	return m.fetch()
}

// Refresh starts a new fetch cycle for the current airline.
func (m *Model) Refresh() tea.Cmd {
	if !m.selection.Valid {
		return nil
	}
	return m.fetch()
}

func (m *Model) fetch() tea.Cmd {
	m.seq++
	m.status = StatusLoading
	m.records = nil
	m.cursor = 0

	seq, sel, f := m.seq, m.selection, m.fetcher
	load := func() tea.Msg {
		records, err := f.GetDelaysByMonth(context.Background(), sel.ID)
		return FetchedMsg{Seq: seq, Airline: sel, Records: records, Err: err}
	}
	return tea.Batch(load, m.spinner.Tick())
}

// Update applies fetch results, cursor keys and spinner ticks.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FetchedMsg:
		m.applyFetched(msg)

	case tea.KeyMsg:
		if m.status != StatusLoaded {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, m.keys.Next):
			m.cursor = min(m.cursor+1, len(m.records)-1)
		}

	case spinner.TickMsg:
		if m.status == StatusLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) applyFetched(msg FetchedMsg) {
	if msg.Seq != m.seq {
		logger.Debug("dropping stale delays result", "airline", msg.Airline, "seq", msg.Seq, "latest", m.seq)
		return
	}
	if msg.Err != nil {
		logger.Error("failed to load delays by month", "airline", msg.Airline, "error", msg.Err)
		m.status = StatusError
		return
	}

	m.records = models.ToChartRecords(msg.Records)
	if len(m.records) == 0 {
		m.status = StatusEmpty
		return
	}
	m.status = StatusLoaded
}

// SetSize sets the area available to the chart.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Status returns the current display state.
func (m *Model) Status() Status { return m.status }

// Selection returns the airline the chart is showing.
func (m *Model) Selection() models.AirlineSelection { return m.selection }

// Records returns the chart records of the last successful fetch.
func (m *Model) Records() []models.ChartRecord { return m.records }

// Cursor returns the index of the highlighted period.
func (m *Model) Cursor() int { return m.cursor }

// Keys returns the chart's key bindings for help views.
func (m *Model) Keys() []key.Binding { return []key.Binding{m.keys.Prev, m.keys.Next} }

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Chart builds the combined chart from the current records.
func (m *Model) Chart() components.ComboChart {
	n := len(m.records)
	cats := make([]string, n)
	flights := make([]float64, n)
	delays := make([]float64, n)
	rates := make([]float64, n)
	for i, r := range m.records {
		cats[i] = models.MonthLabel(r.Period)
		flights[i] = float64(r.TotalFlights)
		delays[i] = float64(r.TotalDelays)
		rates[i] = r.DelayRatePercent
	}

	cursor := m.cursor
	if n == 0 {
		cursor = -1
	}
	return components.ComboChart{
		Categories: cats,
		Bars: []components.ComboSeries{
			{Key: KeyFlights, Label: LabelFlights, Color: styles.FlightsColor, Values: flights},
			{Key: KeyDelays, Label: LabelDelays, Color: styles.DelaysColor, Values: delays},
		},
		Line: components.ComboSeries{
			Key: KeyRate, Label: LabelRate, Color: styles.RateColor, Values: rates, Format: formatPercent,
		},
		Cursor: cursor,
	}
}

// View renders the title and the body for the current state.
func (m *Model) View() string {
	width := max(m.width, 40)
	title := styles.CardTitleStyle.Render(Title)

	var body string
	switch m.status {
	case StatusLoading:
		body = m.spinner.View()
	case StatusError:
		body = styles.ErrorTextStyle.Render(ErrorMessage)
	case StatusEmpty:
		body = styles.HelpStyle.Render(EmptyMessage)
	case StatusLoaded:
		body = m.renderLoaded(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func (m *Model) renderLoaded(width int) string {
	chart := m.Chart()
	plotHeight := max(m.height-16, 8)

	legend := components.RenderLegend([]components.LegendItem{
		{Label: LabelFlights, Color: styles.FlightsColor},
		{Label: LabelDelays, Color: styles.DelaysColor},
		{Label: LabelRate, Glyph: "●", Color: styles.RateColor},
	})

	period := m.records[m.cursor].Period
	tooltip := chart.Tooltip(fmt.Sprintf("%s (%s)", models.MonthLabel(period), period), KeyFlights, KeyDelays, KeyRate)

	rates := make([]float64, len(m.records))
	for i, r := range m.records {
		rates[i] = r.DelayRatePercent
	}
	trend := components.RenderLineChart(rates, max(width-20, 20), 4, "% retraso por mes",
		asciigraph.SeriesColors(asciigraph.Goldenrod),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
	)

	var sb strings.Builder
	sb.WriteString(legend)
	sb.WriteString("\n\n")
	sb.WriteString(chart.Render(width, plotHeight))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tooltip, "  ", trend))
	return sb.String()
}
