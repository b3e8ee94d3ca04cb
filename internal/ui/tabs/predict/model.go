// Package predict provides the flight form tab and the prediction result card.
package predict

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/ui/components"
)

// Model is the predict tab.
type Model struct {
	state   *app.State
	form    *Form
	result  *models.PredictionResult
	route   *components.GeoMap
	bar     components.ProbabilityBar
	spinner components.LoadingSpinner
	marker  components.MarkerStyle
	width   int
	height  int
}

// New creates the predict tab. Markers on the route map use marker.
func New(state *app.State, marker components.MarkerStyle) *Model {
	m := &Model{
		state:   state,
		bar:     components.NewProbabilityBar(30),
		spinner: components.NewSpinner("Cargando aerolíneas y aeropuertos..."),
		marker:  marker,
	}
	m.form = NewForm(submitCmd)
	m.bar.SetLabel("Retraso")
	return m
}

func submitCmd(v models.FlightFormValues) tea.Cmd {
	return func() tea.Msg {
		return app.SubmitPredictionMsg{Values: v}
	}
}

// Init starts the spinner shown until reference data arrives.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Form exposes the flight form.
func (m *Model) Form() *Form {
	return m.form
}

// Result returns the prediction on display, or nil.
func (m *Model) Result() *models.PredictionResult {
	return m.result
}

// RouteMap returns the map of the displayed prediction, or nil.
func (m *Model) RouteMap() *components.GeoMap {
	return m.route
}

// CapturesInput reports whether a text field is being edited.
func (m *Model) CapturesInput() bool {
	return m.form.CapturesInput()
}

// Update handles messages for the predict tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReferenceLoadedMsg:
		m.form.SetReference(msg.Data)

	case app.PredictionResultMsg:
		m.form.SetLoading(false)
		if msg.Err != nil {
			return m, nil
		}
		m.showResult(msg)
		return m, m.bar.SetPercent(float64(msg.Result.Summary.DelayPercentage))

	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.form.Update(msg)

	default:
		if _, loaded := m.state.Reference(); !loaded {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) showResult(msg app.PredictionResultMsg) {
	m.result = msg.Result
	m.route = nil

	data, _ := m.state.Reference()
	origin, ok1 := data.Airport(msg.Values.Origin)
	dest, ok2 := data.Airport(msg.Values.Destination)
	if !ok1 || !ok2 {
		return
	}
	route := components.NewRouteMap(
		components.MapMarker{Label: "Origen: " + origin.Label(), Position: origin.Latlong()},
		components.MapMarker{Label: "Destino: " + dest.Label(), Position: dest.Latlong()},
		m.marker,
	)
	m.route = &route
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return m.form.Help()
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.form.Help()}
}
