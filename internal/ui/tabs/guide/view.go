package guide

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// View renders the guide, or the loading/error/empty placeholder.
func (m *Model) View() string {
	var content string
	guide := m.state.Guide()

	switch {
	case m.state.IsLoading(app.ResourceGuide):
		content = m.spinner.ViewCentered(max(m.width-6, 20), max(m.height-2, 3))
	case m.failed:
		content = m.renderPlaceholder(styles.ErrorTextStyle.Render(ErrorMessage))
	case guide == nil:
		content = m.renderPlaceholder(styles.HelpStyle.Render(EmptyMessage))
	default:
		content = m.renderGuide(guide)
	}

	m.viewport.SetContent(content)
	return styles.DocStyle.Width(m.width).Height(m.height).Render(m.viewport.View())
}

func (m *Model) renderPlaceholder(msg string) string {
	lines := []string{styles.TitleStyle.Render("Guía de viaje"), "", msg}
	if m.state.Trip() != nil {
		lines = append(lines, "", styles.InfoTextStyle.Render("Pulsa g para generar la guía de nuevo."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderGuide(g *models.TravelGuide) string {
	full := max(m.width-6, 60)
	half := full/2 - 1

	grid := func(left, right string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(g.Destination, full),
		grid(m.renderClimate(g.Climate, half), m.renderTransport(g.Transport, half)),
		grid(m.renderFood(g.Food, half), m.renderSafety(g.Safety, half)),
		m.renderPOIs(g.FeaturedPOIs(), full),
	)
}

func card(width int, title string, rows ...string) string {
	body := append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (m *Model) renderHeader(d models.Destination, width int) string {
	kicker := styles.SubTitleStyle.Render("GUÍA DE LLEGADA INTELIGENTE")
	title := styles.TitleStyle.Render(fmt.Sprintf("%s, %s", d.City, d.Country))
	airport := styles.HelpStyle.Render(d.Airport)

	facts := []string{
		"Idioma: " + d.CountryInfo.Language,
		"Moneda: " + d.CountryInfo.Currency,
		"Enchufe: " + d.Technical.PowerSummary(),
		styles.ErrorTextStyle.Render("Emergencias: " + d.Emergency.Single),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		kicker, title, airport, "",
		strings.Join(facts, styles.HelpStyle.Render("  │  ")),
	))
}

func (m *Model) renderClimate(c models.ClimateAnalysis, width int) string {
	rows := []string{
		styles.InfoTextStyle.Render(fmt.Sprintf("%q", c.Summary)),
		styles.HelpStyle.Render("≋ " + c.TempRange),
	}
	if c.Risks != "" {
		rows = append(rows, styles.WarningTextStyle.Render("⚠ "+c.Risks))
	}
	rows = append(rows, "", styles.SubTitleStyle.Render("MALETA INTELIGENTE"))
	for _, item := range c.Suitcase {
		bullet := styles.GetPriorityStyle(item.HighPriority()).Render("●")
		rows = append(rows, fmt.Sprintf("%s %s", bullet, item.Item))
		if item.SearchLink != "" {
			rows = append(rows, "  "+styles.LinkStyle.Render(item.SearchLink))
		}
	}
	return card(width, "Clima & Outfit", rows...)
}

func (m *Model) renderTransport(opts []models.TransportOption, width int) string {
	if len(opts) == 0 {
		return card(width, "Transporte Aeropuerto", styles.HelpStyle.Render("Sin opciones"))
	}
	rows := make([]string, 0, len(opts)*3)
	for i, o := range opts {
		if i > 0 {
			rows = append(rows, "")
		}
		cost := styles.SuccessTextStyle.Render(fmt.Sprintf("$%.0f", o.CostUSD))
		rows = append(rows,
			lipgloss.NewStyle().Bold(true).Render(o.Mode)+"  "+cost,
			styles.HelpStyle.Render(fmt.Sprintf("%d min • %s • %s", o.Minutes, o.Schedule, o.PaymentMethod)),
		)
	}
	return card(width, "Transporte Aeropuerto", rows...)
}

func (m *Model) renderFood(f models.SeasonalFood, width int) string {
	dishes := make([]string, 0, len(f.Dishes))
	for _, d := range f.Dishes {
		dishes = append(dishes, styles.BadgeStyle.Render(d))
	}
	return card(width, "Gastronomía",
		styles.SubTitleStyle.Render("PLATOS IMPERDIBLES"),
		lipgloss.NewStyle().Width(width-4).Render(strings.Join(dishes, " ")),
		"",
		"Bebida típica: "+f.TypicalDrink,
		fmt.Sprintf("Precio medio: $%.0f USD", f.MenuPriceUSD),
	)
}

func (m *Model) renderSafety(s models.SafetyIntelligence, width int) string {
	rows := []string{
		"Nivel de riesgo: " + styles.GetRiskStyle(s.LowRisk()).Render(s.RiskLevel),
		"",
		styles.ErrorTextStyle.Render("ZONAS A EVITAR"),
	}
	for _, z := range s.NoGoZones {
		rows = append(rows, "• "+z)
	}
	rows = append(rows, "", styles.SubTitleStyle.Render("ESTAFAS COMUNES"))
	for _, e := range s.TopScams() {
		rows = append(rows, "• "+e)
	}
	if s.HelpPhrase != "" {
		rows = append(rows, "", styles.InfoTextStyle.Render("Auxilio: "+s.HelpPhrase))
	}
	return card(width, "Seguridad", rows...)
}

func (m *Model) renderPOIs(pois []models.PointOfInterest, width int) string {
	listWidth := max(width/2-2, 30)
	rows := make([]string, 0, len(pois)*3)
	for i, p := range pois {
		if i > 0 {
			rows = append(rows, "")
		}
		kind := styles.BadgeStyle.Render(strings.ToUpper(p.Kind))
		rows = append(rows,
			lipgloss.NewStyle().Bold(true).Render(p.Name)+" "+kind,
			lipgloss.NewStyle().Width(listWidth).Foreground(styles.TextSecondary).Render(p.Comment),
			styles.LinkStyle.Render(p.Navigation.GoogleMaps),
		)
	}
	if len(pois) == 0 {
		rows = append(rows, styles.HelpStyle.Render("Sin puntos de interés"))
	}

	list := lipgloss.NewStyle().Width(listWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	body := list
	if m.poiMap != nil {
		mapWidth := max(width-listWidth-8, 20)
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.poiMap.Render(mapWidth, max(lipgloss.Height(list), 12)))
	}
	return card(width, "Turismo Express", body)
}
