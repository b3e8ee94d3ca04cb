package history

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/ui/components"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// ErrorMessage is shown when the session log cannot be read.
const ErrorMessage = "Error al cargar el historial de la sesión."

// View renders the history tab.
func (m *Model) View() string {
	var content string
	switch {
	case m.state.IsLoading(app.ResourceHistory) && m.stats == nil:
		content = styles.HelpStyle.Render("Cargando historial...")
	case m.err != nil:
		content = styles.ErrorTextStyle.Render(ErrorMessage)
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			m.renderStats(),
			m.renderTrend(),
			m.renderTable(),
		)
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Historial de la sesión")
	subtitle := "Predicciones consultadas desde que se abrió la aplicación"
	if !m.lastRefresh.IsZero() {
		subtitle += " · actualizado " + m.lastRefresh.Format("15:04:05")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderStats() string {
	if m.stats == nil {
		return ""
	}
	s := m.stats

	stat := func(label, value string, style lipgloss.Style) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render(label),
			style.Render(value),
		)
	}

	failStyle := styles.SuccessTextStyle
	if s.FailedCalls > 0 {
		failStyle = styles.WarningTextStyle
	}

	cells := []string{
		stat("Predicciones", fmt.Sprintf("%d", s.Predictions), styles.InfoTextStyle),
		stat("Prob. media", formatProbability(s.AvgProbability), styles.GetDelayStyle(s.AvgProbability*100)),
		stat("Prob. máxima", formatProbability(s.MaxProbability), styles.GetDelayStyle(s.MaxProbability*100)),
		stat("Llamadas API", fmt.Sprintf("%d", s.APICalls), styles.InfoTextStyle),
		stat("Fallidas", fmt.Sprintf("%d (%.0f%%)", s.FailedCalls, s.FailureRate()*100), failStyle),
		stat("Duración media", fmt.Sprintf("%.0f ms", s.AvgCallDurationMs), styles.InfoTextStyle),
	}
	for i, c := range cells {
		cells[i] = lipgloss.NewStyle().Width(16).Render(c)
	}

	return styles.CardStyle.Width(max(m.width-6, 40)).Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// renderTrend draws delay probabilities oldest to newest.
func (m *Model) renderTrend() string {
	if len(m.predictions) == 0 {
		return ""
	}

	probs := make([]float64, len(m.predictions))
	for i, p := range m.predictions {
		probs[i] = p.DelayProbability
	}
	slices.Reverse(probs)

	width := max(m.width-20, 20)
	lines := []string{
		styles.CardTitleStyle.Render("Probabilidad de retraso"),
		components.RenderProbabilitySparkline(probs, width),
	}
	if len(probs) > 1 {
		pct := make([]float64, len(probs))
		for i, p := range probs {
			pct[i] = p * 100
		}
		lines = append(lines, "", components.RenderLineChart(pct, width, 5, "% por consulta"))
	}
	return styles.CardStyle.Width(max(m.width-6, 40)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTable() string {
	cardWidth := max(m.width-6, 60)
	if len(m.predictions) == 0 {
		return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render("Aún no hay predicciones en esta sesión."),
			styles.InfoTextStyle.Render("  ╰─▶ Consulta un vuelo en la pestaña Predicción"),
		))
	}
	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}
