package predict

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// View renders the form next to the latest result.
func (m *Model) View() string {
	if _, loaded := m.state.Reference(); !loaded {
		return styles.DocStyle.Width(m.width).Height(m.height).
			Render(m.spinner.ViewCentered(max(m.width-4, 20), max(m.height-2, 3)))
	}

	formWidth := min(max(m.width/2-4, 44), 70)
	border := styles.BlurredBorderStyle
	if m.form.CapturesInput() {
		border = styles.FocusedBorderStyle
	}
	form := border.Padding(1, 2).MarginBottom(1).Width(formWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Consulta de vuelo"),
		m.form.View(formWidth-4),
	))

	resultWidth := max(m.width-formWidth-8, 40)
	content := lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", m.renderResult(resultWidth))

	return styles.DocStyle.Width(m.width).Height(m.height).Render(content)
}

func (m *Model) renderResult(width int) string {
	if m.result == nil {
		hint := "Completa el formulario y pulsa Consultar para estimar el retraso."
		if m.state.IsLoading(app.ResourcePrediction) {
			hint = "Consultando predicción..."
		}
		return styles.CardStyle.Width(width).Render(styles.HelpStyle.Render(hint))
	}

	s := m.result.Summary
	r := m.result.Response

	row := func(label, value string, style lipgloss.Style) string {
		l := lipgloss.NewStyle().Width(22).Foreground(styles.TextMuted).Render(label + ":")
		return l + " " + style.Render(value)
	}

	rows := []string{
		styles.CardTitleStyle.Render(fmt.Sprintf("Vuelo %s · %s → %s", r.FlightNumber, r.Origin, r.Destination)),
		styles.HelpStyle.Render(m.result.Departure.Format("02/01/2006 15:04")),
		"",
		m.bar.View(width - 4),
		"",
		row("Probabilidad de retraso", fmt.Sprintf("%d%%", s.DelayPercentage), styles.GetDelayStyle(float64(s.DelayPercentage))),
		row("A tiempo", fmt.Sprintf("%d%%", s.OnTimePercentage), styles.SuccessTextStyle),
		row("Retraso estimado", fmt.Sprintf("%d min", s.AverageDelayMinutes), styles.InfoTextStyle),
	}

	if m.route != nil {
		mapHeight := max(m.height-len(rows)-8, 8)
		rows = append(rows, "", m.route.Render(width-4, mapHeight))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
