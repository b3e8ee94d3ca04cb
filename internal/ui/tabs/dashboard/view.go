package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderSelector(),
		"",
		styles.CardStyle.Width(max(m.width-6, 40)).Render(m.chart.View()),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Dashboard de Retrasos")
	subtitle := styles.HelpStyle.Render("Vuelos y retrasos mensuales por aerolínea")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSelector() string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	label := styles.CardTitleStyle.Render("Aerolínea")

	airline, ok := m.SelectedAirline()
	if !ok {
		return fmt.Sprintf("%s %s  %s", icon, label, styles.HelpStyle.Render("(sin aerolíneas)"))
	}

	value := styles.FocusedStyle.Render("◂ " + airline.Label() + " ▸")
	position := styles.HelpStyle.Render(fmt.Sprintf("(%d/%d)", m.selectedIndex+1, len(m.airlines)))
	return fmt.Sprintf("%s %s  %s %s", icon, label, value, position)
}
