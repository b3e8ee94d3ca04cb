package predict

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// DateLayout is how the form reads dates.
const DateLayout = "02/01/2006"

// Button labels.
const (
	SubmitLabel  = "Consultar"
	LoadingLabel = "Cargando..."
)

// ValidationError is shown under the form as is.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrFlightNumberRequired ValidationError = "El número de vuelo es obligatorio"
	ErrInvalidDate          ValidationError = "Fecha inválida (dd/mm/aaaa)"
	ErrPastDate             ValidationError = "La fecha no puede ser anterior a hoy"
	ErrNoReferenceData      ValidationError = "Aerolíneas y aeropuertos no disponibles"
)

// TimeOptions returns the departure times offered, every 30 minutes.
func TimeOptions() []string {
	out := make([]string, 0, 48)
	for i := range 48 {
		out = append(out, fmt.Sprintf("%02d:%02d", i/2, (i%2)*30))
	}
	return out
}

type field int

const (
	fieldFlight field = iota
	fieldAirline
	fieldOrigin
	fieldDestination
	fieldDate
	fieldTime
	fieldSubmit
	fieldCount
)

var fieldLabels = [...]string{
	fieldFlight:      "Número de Vuelo",
	fieldAirline:     "Aerolínea",
	fieldOrigin:      "Origen",
	fieldDestination: "Destino",
	fieldDate:        "Fecha",
	fieldTime:        "Hora",
}

type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Blur   key.Binding
}

func defaultFormKeys() formKeys {
	return formKeys{
		Next:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "campo siguiente")),
		Prev:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "campo anterior")),
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "opción anterior")),
		Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "opción siguiente")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "consultar")),
		Blur:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "salir del campo")),
	}
}

// Form collects a flight query. OnSubmit receives the primitive field values.
type Form struct {
	now      func() time.Time
	OnSubmit func(models.FlightFormValues) tea.Cmd
	err      error

	flight textinput.Model
	date   textinput.Model
	keys   formKeys

	airlines []models.Airline
	airports []models.Airport
	times    []string

	focus       field
	airline     int
	origin      int
	destination int
	timeIdx     int

	editing bool
	loading bool
}

// NewForm returns an empty form dated today.
func NewForm(onSubmit func(models.FlightFormValues) tea.Cmd) *Form {
	flight := textinput.New()
	flight.Placeholder = "Ej: AM123"
	flight.CharLimit = 10

	date := textinput.New()
	date.Placeholder = "dd/mm/aaaa"
	date.CharLimit = len(DateLayout)

	f := &Form{
		now:      time.Now,
		OnSubmit: onSubmit,
		flight:   flight,
		date:     date,
		keys:     defaultFormKeys(),
		times:    TimeOptions(),
	}
	f.date.SetValue(f.now().Format(DateLayout))
	f.focusField(fieldFlight)
	return f
}

// SetReference fills the selectors and applies the default selections.
func (f *Form) SetReference(data reference.Data) {
	f.airlines = data.Airlines
	f.airports = data.Airports

	d := data.Defaults()
	f.airline = indexOf(len(f.airlines), func(i int) bool { return f.airlines[i].ID == d.Airline })
	f.origin = indexOf(len(f.airports), func(i int) bool { return f.airports[i].ID == d.Origin })
	f.destination = indexOf(len(f.airports), func(i int) bool { return f.airports[i].ID == d.Destination })
}

func indexOf(n int, match func(int) bool) int {
	for i := range n {
		if match(i) {
			return i
		}
	}
	return 0
}

// SetLoading toggles the in-flight state of the submit button.
func (f *Form) SetLoading(loading bool) {
	f.loading = loading
}

// Loading reports whether a submission is in flight.
func (f *Form) Loading() bool {
	return f.loading
}

// Err returns the last validation error.
func (f *Form) Err() error {
	return f.err
}

// CapturesInput reports whether a text field is being edited.
func (f *Form) CapturesInput() bool {
	return f.editing
}

// ButtonLabel is the current submit button text.
func (f *Form) ButtonLabel() string {
	if f.loading {
		return LoadingLabel
	}
	return SubmitLabel
}

func (f *Form) focusField(fl field) {
	f.focus = fl
	f.flight.Blur()
	f.date.Blur()
	f.editing = false
	switch fl {
	case fieldFlight:
		f.flight.Focus()
		f.editing = true
	case fieldDate:
		f.date.Focus()
		f.editing = true
	}
}

// Update handles form keys. Text fields receive everything else.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, f.keys.Next):
		f.focusField((f.focus + 1) % fieldCount)
		return nil
	case key.Matches(keyMsg, f.keys.Prev):
		f.focusField((f.focus - 1 + fieldCount) % fieldCount)
		return nil
	case key.Matches(keyMsg, f.keys.Blur):
		f.flight.Blur()
		f.date.Blur()
		f.editing = false
		return nil
	case key.Matches(keyMsg, f.keys.Submit):
		if f.focus == fieldSubmit {
			return f.Submit()
		}
		f.focusField(f.focus + 1)
		return nil
	}

	switch f.focus {
	case fieldFlight, fieldDate:
		if !f.editing {
			f.focusField(f.focus)
		}
		var cmd tea.Cmd
		if f.focus == fieldFlight {
			f.flight, cmd = f.flight.Update(keyMsg)
			f.flight.SetValue(strings.ToUpper(f.flight.Value()))
		} else {
			f.date, cmd = f.date.Update(keyMsg)
		}
		return cmd
	case fieldAirline:
		f.airline = cycle(f.airline, len(f.airlines), keyMsg, f.keys)
	case fieldOrigin:
		f.origin = cycle(f.origin, len(f.airports), keyMsg, f.keys)
	case fieldDestination:
		f.destination = cycle(f.destination, len(f.airports), keyMsg, f.keys)
	case fieldTime:
		f.timeIdx = cycle(f.timeIdx, len(f.times), keyMsg, f.keys)
	}
	return nil
}

func cycle(idx, n int, msg tea.KeyMsg, keys formKeys) int {
	if n == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Left):
		return (idx - 1 + n) % n
	case key.Matches(msg, keys.Right):
		return (idx + 1) % n
	}
	return idx
}

// Values validates the form and returns its primitive values.
func (f *Form) Values() (models.FlightFormValues, error) {
	flight := strings.TrimSpace(f.flight.Value())
	if flight == "" {
		return models.FlightFormValues{}, ErrFlightNumberRequired
	}
	if len(f.airlines) == 0 || len(f.airports) == 0 {
		return models.FlightFormValues{}, ErrNoReferenceData
	}

	now := f.now()
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(f.date.Value()), now.Location())
	if err != nil {
		return models.FlightFormValues{}, ErrInvalidDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return models.FlightFormValues{}, ErrPastDate
	}

	return models.FlightFormValues{
		FlightNumber: flight,
		Airline:      f.airlines[f.airline].ID,
		Origin:       f.airports[f.origin].ID,
		Destination:  f.airports[f.destination].ID,
		Date:         date,
		Time:         f.times[f.timeIdx],
	}, nil
}

// Submit validates and hands the values to OnSubmit. It does nothing while
// a submission is in flight.
func (f *Form) Submit() tea.Cmd {
	if f.loading {
		return nil
	}
	values, err := f.Values()
	f.err = err
	if err != nil {
		return nil
	}
	if f.OnSubmit == nil {
		return nil
	}
	f.loading = true
	return f.OnSubmit(values)
}

// SelectedAirports returns the origin and destination, if loaded.
func (f *Form) SelectedAirports() (origin, destination models.Airport, ok bool) {
	if len(f.airports) == 0 {
		return origin, destination, false
	}
	return f.airports[f.origin], f.airports[f.destination], true
}

// Help returns the form key bindings.
func (f *Form) Help() []key.Binding {
	return []key.Binding{f.keys.Next, f.keys.Prev, f.keys.Left, f.keys.Right, f.keys.Submit, f.keys.Blur}
}

// View renders the form fields and the submit button.
func (f *Form) View(width int) string {
	rows := make([]string, 0, fieldCount+2)
	for fl := fieldFlight; fl < fieldSubmit; fl++ {
		value := f.fieldValue(fl)
		marker := "  "
		labelStyle := styles.BlurredStyle.Width(18).Bold(true)
		if fl == f.focus {
			marker = styles.FocusedStyle.Render("▸ ")
			labelStyle = styles.FocusedStyle.Width(18)
		}
		rows = append(rows, marker+labelStyle.Render(strings.ToUpper(fieldLabels[fl]))+" "+value)
	}

	button := styles.ButtonInactiveStyle
	if f.focus == fieldSubmit && !f.loading {
		button = styles.ButtonActiveStyle
	}
	rows = append(rows, "", "  "+button.Render(f.ButtonLabel()))

	if f.err != nil {
		rows = append(rows, "", "  "+styles.ErrorTextStyle.Render(f.err.Error()))
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(rows, "\n"))
}

func (f *Form) fieldValue(fl field) string {
	selector := func(label string, n int) string {
		if n == 0 {
			return styles.HelpStyle.Render("(sin datos)")
		}
		if fl == f.focus {
			return styles.FocusedStyle.Render("◂ " + label + " ▸")
		}
		return label
	}

	switch fl {
	case fieldFlight:
		return f.flight.View()
	case fieldDate:
		return f.date.View()
	case fieldAirline:
		if len(f.airlines) == 0 {
			return selector("", 0)
		}
		return selector(f.airlines[f.airline].Label(), len(f.airlines))
	case fieldOrigin:
		if len(f.airports) == 0 {
			return selector("", 0)
		}
		return selector(f.airports[f.origin].Label(), len(f.airports))
	case fieldDestination:
		if len(f.airports) == 0 {
			return selector("", 0)
		}
		return selector(f.airports[f.destination].Label(), len(f.airports))
	case fieldTime:
		return selector(f.times[f.timeIdx], len(f.times))
	}
	return ""
}
