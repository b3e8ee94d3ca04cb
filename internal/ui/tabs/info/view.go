package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
	"github.com/j-veylop/flight-delay-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDataCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuración e información de la aplicación")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuración"), ""}

	if cfg := m.config; cfg != nil {
		timeout := "sin límite"
		if cfg.APITimeout > 0 {
			timeout = cfg.APITimeout.String()
		}
		rows = append(rows,
			m.renderConfigRow("API", cfg.APIBaseURL),
			m.renderConfigRow("Timeout API", timeout),
			m.renderConfigRow("Archivo .env", orDefault(cfg.EnvFile, "(ninguno)")),
			m.renderConfigRow("Umbral de alerta", fmt.Sprintf("%.0f%%", cfg.DelayAlertThreshold*100)),
			m.renderConfigRow("Notificaciones", yesNo(cfg.DesktopNotify)),
			m.renderConfigRow("Log", orDefault(cfg.LogPath, "(desactivado)")),
			m.renderConfigRow("API simulada", cfg.MockAPIAddr),
		)
		if cfg.EnvFile != "" {
			rows = append(rows, "", styles.HelpStyle.Render("Los cambios en el archivo .env se aplican al guardarlo."))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuración no cargada"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDataCard() string {
	rows := []string{styles.CardTitleStyle.Render("Datos de referencia"), ""}

	data, loaded := m.state.Reference()
	if !loaded {
		rows = append(rows, styles.HelpStyle.Render("Cargando..."))
	} else {
		rows = append(rows,
			m.renderConfigRow("Aerolíneas", styles.InfoTextStyle.Render(fmt.Sprintf("%d", len(data.Airlines)))),
			m.renderConfigRow("Aeropuertos", styles.InfoTextStyle.Render(fmt.Sprintf("%d", len(data.Airports)))),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("Acerca de " + version.Name),
		"",
		m.renderConfigRow("Versión", version.GetVersion()),
		m.renderConfigRow("Fecha", version.GetDate()),
		m.renderConfigRow("Commit", version.GetCommit()),
		m.renderConfigRow("Go", runtime.Version()),
		m.renderConfigRow("Plataforma", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
