// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/services"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabPredict is the flight form and prediction result.
	TabPredict TabID = iota
	// TabDashboard is the monthly delay chart.
	TabDashboard
	// TabGuide is the travel guide of the last prediction.
	TabGuide
	// TabHistory is the session log.
	TabHistory
	// TabInfo is configuration and version info.
	TabInfo
)

var tabNames = []string{"Predicción", "Dashboard", "Guía de viaje", "Historial", "Info"}

// String returns the string representation of the TabID.
func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that take free text. While
// CapturesInput is true, only ctrl+c and tab switching stay global.
type InputCapturer interface {
	CapturesInput() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	Tab4      key.Binding
	Tab5      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "predicción")),
		Tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "dashboard")),
		Tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "guía")),
		Tab4:      key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "historial")),
		Tab5:      key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "info")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "siguiente pestaña")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "pestaña anterior")),
		Refresh:   key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "recargar")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "salir")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "salir")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cerrar")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5},
		{k.NextTab, k.PrevTab},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content lipgloss.Style
	Toast   lipgloss.Style

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = styles.ActiveTabStyle
	s.InactiveTab = styles.InactiveTabStyle

	s.NotificationSuccess = styles.NotificationSuccessStyle
	s.NotificationError = styles.NotificationErrorStyle
	s.NotificationWarning = styles.NotificationWarningStyle
	s.NotificationInfo = styles.NotificationInfoStyle

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	state    *State
	services *services.Manager

	eventChannel chan services.ServiceEvent

	tabs    []Tab
	keymap  KeyMap
	styles  Styles
	spinner spinner.Model

	activeTab TabID
	width     int
	height    int

	showHelp bool
	ready    bool
}

// NewModel initializes a new application model. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabPredict,
		tabs:      make([]Tab, len(tabNames)),
		state:     NewState(),
		services:  mgr,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model, in TabID order.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		m.state.SetLoadingNotification("Cargando aerolíneas y aeropuertos...")
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			loadReferenceCmd(m.services),
		)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateTabSizes()

	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		return m, m.updateTab(m.activeTab, msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case GuideLoadedMsg:
		if msg.Seq != m.state.GuideRequest() {
			logger.Debug("dropping stale travel guide", "destination", msg.Trip.Destination.IATA, "seq", msg.Seq)
			return m, nil
		}
		cmds = append(cmds, m.handleGuideLoaded(msg))

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	// Everything but keys reaches every tab so background results land
	// in the tab that asked for them.
	for i := range m.tabs {
		cmds = append(cmds, m.updateTab(TabID(i), msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		if m.services != nil {
			cmds = append(cmds, loadHistoryCmd(m.services))
		}
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case ReferenceLoadedMsg:
		cmds = append(cmds, m.handleReferenceLoaded(msg))
	case SubmitPredictionMsg:
		cmds = append(cmds, m.handleSubmitPrediction(msg))
	case PredictionResultMsg:
		cmds = append(cmds, m.handlePredictionResult(msg)...)
	case RequestGuideMsg:
		cmds = append(cmds, m.requestGuide(msg.Trip))
	case HistoryLoadedMsg:
		m.state.SetLoading(ResourceHistory, false)
		if msg.Err != nil {
			logger.Error("failed to load session history", "error", msg.Err)
		}
	case RefreshMsg:
		cmds = append(cmds, m.handleRefresh(msg))
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleReferenceLoaded(msg ReferenceLoadedMsg) tea.Cmd {
	m.state.SetLoading(ResourceReference, false)
	m.state.SetReference(msg.Data)
	m.state.ClearLoadingNotification()

	if msg.Err != nil {
		logger.Error("failed to load reference data", "error", msg.Err)
		return notifyErrorCmd("Error al cargar aerolíneas y aeropuertos.")
	}
	return nil
}

func (m *Model) handleSubmitPrediction(msg SubmitPredictionMsg) tea.Cmd {
	if m.services == nil || m.state.IsLoading(ResourcePrediction) {
		return nil
	}
	m.state.SetLoading(ResourcePrediction, true)
	return predictCmd(m.services, msg.Values)
}

func (m *Model) handlePredictionResult(msg PredictionResultMsg) []tea.Cmd {
	m.state.SetLoading(ResourcePrediction, false)
	if msg.Err != nil {
		logger.Error("prediction failed", "flight", msg.Values.FlightNumber, "error", msg.Err)
		return []tea.Cmd{notifyErrorCmd("Error al obtener la predicción.")}
	}

	var trip *Trip
	data, _ := m.state.Reference()
	if dest, ok := data.Airport(msg.Values.Destination); ok {
		trip = &Trip{Destination: dest, Departure: msg.Result.Departure}
	}
	m.state.SetPrediction(msg.Result, trip)

	cmds := []tea.Cmd{notifySuccessCmd(fmt.Sprintf("Predicción lista para %s", msg.Values.FlightNumber))}
	if trip != nil {
		cmds = append(cmds, m.requestGuide(*trip))
	}
	return cmds
}

func (m *Model) requestGuide(trip Trip) tea.Cmd {
	if m.services == nil {
		return nil
	}
	m.state.SetLoading(ResourceGuide, true)
	return guideCmd(m.services, trip, m.state.NextGuideRequest())
}

func (m *Model) handleGuideLoaded(msg GuideLoadedMsg) tea.Cmd {
	m.state.SetLoading(ResourceGuide, false)
	if msg.Err != nil {
		logger.Error("failed to load travel guide", "destination", msg.Trip.Destination.IATA, "error", msg.Err)
		m.state.SetGuide(nil)
		return nil
	}
	m.state.SetGuide(msg.Guide)
	return nil
}

func (m *Model) handleRefresh(msg RefreshMsg) tea.Cmd {
	if m.services == nil {
		return nil
	}
	switch msg.Tab {
	case TabGuide:
		if trip := m.state.Trip(); trip != nil {
			return m.requestGuide(*trip)
		}
	case TabHistory:
		m.state.SetLoading(ResourceHistory, true)
		return loadHistoryCmd(m.services)
	}
	return nil
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.ConfigReloadedEvent:
		return tea.Batch(
			notifyInfoCmd("Configuración recargada"),
			func() tea.Msg { return ConfigReloadedMsg{Config: e.Config} },
		)

	case services.PredictionRecordedEvent:
		if m.services != nil {
			return loadHistoryCmd(m.services)
		}

	case services.HighDelayEvent:
		return notifyWarningCmd(fmt.Sprintf("Alto riesgo de retraso: %s (%.0f%%)", e.FlightNumber, e.Probability*100))

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

func (m *Model) updateTab(id TabID, msg tea.Msg) tea.Cmd {
	if int(id) >= len(m.tabs) || m.tabs[id] == nil {
		return nil
	}
	var cmd tea.Cmd
	m.tabs[id], cmd = m.tabs[id].Update(msg)
	return cmd
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-3)
	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) capturingInput() bool {
	if int(m.activeTab) >= len(m.tabs) {
		return false
	}
	c, ok := m.tabs[m.activeTab].(InputCapturer)
	return ok && c.CapturesInput()
}

func (m *Model) switchTab(id TabID) {
	if int(id) >= len(m.tabs) {
		return
	}
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles global keys. handled is false when the key should
// go to the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		return tea.Quit, true
	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		return nil, true
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		return nil, true
	}

	if m.capturingInput() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true
	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}
	case key.Matches(msg, m.keymap.Refresh):
		tab := m.activeTab
		return func() tea.Msg { return RefreshMsg{Tab: tab} }, true
	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabPredict)
		return nil, true
	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabDashboard)
		return nil, true
	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabGuide)
		return nil, true
	case key.Matches(msg, m.keymap.Tab4):
		m.switchTab(TabHistory)
		return nil, true
	case key.Matches(msg, m.keymap.Tab5):
		m.switchTab(TabInfo)
		return nil, true
	}
	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Cargando...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.styles.Content.Render(m.styles.Subtle.Render("Pestaña no disponible.")))
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := padLines(strings.Split(mainView, "\n"), m.height)
	overlayLines := strings.Split(overlay, "\n")

	y := max((m.height-len(overlayLines))/2, 0)
	overlayWidth := lipgloss.Width(overlay)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

// padLines extends short views to the window height so overlays have rows to land on.
func padLines(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			num := styles.TabNumberStyle.Render(fmt.Sprintf("%d", i+1))
			tabs = append(tabs, m.styles.InactiveTab.Render(" "+num+"  "+name))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := padLines(strings.Split(mainView, "\n"), m.height)

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	entry := func(k, desc string) string {
		return "  " + styles.HelpKeyStyle.Width(11).Render(k) + styles.HelpDescStyle.Render(desc)
	}
	separator := styles.HelpSeparatorStyle.Render(strings.Repeat("─", 32))

	lines := []string{
		m.styles.Title.Render("Atajos de teclado"),
		separator,
		m.styles.Highlight.Render("Navegación"),
		entry("1-5", "Cambiar de pestaña"),
		entry("Tab", "Pestaña siguiente"),
		entry("Shift+Tab", "Pestaña anterior"),
		"",
		m.styles.Highlight.Render("Acciones"),
		entry("r", "Recargar datos"),
		entry("?", "Mostrar/ocultar ayuda"),
		entry("q/Ctrl+C", "Salir"),
		"",
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if tabHelp := m.tabs[m.activeTab].ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(m.activeTab.String()))
			for _, binding := range tabHelp {
				lines = append(lines, entry(binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, separator)
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Pulsa ? o Esc para cerrar"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}
