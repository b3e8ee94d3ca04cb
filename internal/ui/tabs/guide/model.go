// Package guide provides the travel guide tab for the predicted destination.
package guide

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/ui/components"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// Messages shown instead of the guide.
const (
	LoadingMessage = "Generando guía de viaje..."
	ErrorMessage   = "Error al cargar la guía de viaje."
	EmptyMessage   = "Realiza una predicción para ver la guía de tu destino."
)

type keyMap struct {
	Request  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Request:  key.NewBinding(key.WithKeys("g", "enter"), key.WithHelp("g", "generar guía")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "subir")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "bajar")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "página anterior")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn", "página siguiente")),
	}
}

// Model is the travel guide tab.
type Model struct {
	state    *app.State
	poiMap   *components.GeoMap
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	marker   components.MarkerStyle
	failed   bool
	width    int
	height   int
}

// New creates the guide tab. POIs without a valid colour use marker.
func New(state *app.State, marker components.MarkerStyle) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner(LoadingMessage),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		marker:   marker,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Failed reports whether the last guide request failed.
func (m *Model) Failed() bool {
	return m.failed
}

// POIMap returns the map of featured points, or nil without a guide.
func (m *Model) POIMap() *components.GeoMap {
	return m.poiMap
}

// Update handles messages for the guide tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.RequestGuideMsg:
		return m, m.startLoading()

	case app.PredictionResultMsg:
		if msg.Err == nil {
			return m, m.startLoading()
		}

	case app.RefreshMsg:
		if msg.Tab == app.TabGuide && m.state.Trip() != nil {
			return m, m.startLoading()
		}

	case app.GuideLoadedMsg:
		m.failed = msg.Err != nil
		m.poiMap = nil
		if msg.Guide != nil && !m.failed {
			poiMap := components.NewPOIMap(m.poiMarkers(msg.Guide), m.marker)
			m.poiMap = &poiMap
		}
		m.viewport.GotoTop()

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	default:
		if m.state.IsLoading(app.ResourceGuide) {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) startLoading() tea.Cmd {
	m.failed = false
	return m.spinner.Tick()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Request) {
		trip := m.state.Trip()
		if trip == nil || m.state.IsLoading(app.ResourceGuide) {
			return nil
		}
		t := *trip
		return func() tea.Msg { return app.RequestGuideMsg{Trip: t} }
	}

	// Scrolling uses the viewport's own bindings.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) poiMarkers(g *models.TravelGuide) []components.MapMarker {
	pois := g.FeaturedPOIs()
	markers := make([]components.MapMarker, 0, len(pois))
	for _, p := range pois {
		style := components.MarkerStyle{
			Color: components.MarkerColor(p.ColorHex, styles.DefaultMarkerColor),
			Glyph: m.marker.Glyph,
		}
		markers = append(markers, components.MapMarker{
			Style:    &style,
			Label:    p.Name,
			Position: p.Coordinates.Latlong(),
		})
	}
	return markers
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Request, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Request},
		{m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown},
	}
}
