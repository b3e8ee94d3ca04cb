package app

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/config"
	"github.com/j-veylop/flight-delay-tui/internal/mockapi"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

type fakeTab struct {
	msgs    []tea.Msg
	capture bool
	width   int
	height  int
}

func (f *fakeTab) Init() tea.Cmd { return nil }
func (f *fakeTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	f.msgs = append(f.msgs, msg)
	return f, nil
}
func (f *fakeTab) View() string              { return "fake tab" }
func (f *fakeTab) SetSize(w, h int)          { f.width, f.height = w, h }
func (f *fakeTab) CapturesInput() bool       { return f.capture }
func (f *fakeTab) FullHelp() [][]key.Binding { return nil }
func (f *fakeTab) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "acción falsa"))}
}

func (f *fakeTab) received(match func(tea.Msg) bool) bool {
	for _, m := range f.msgs {
		if match(m) {
			return true
		}
	}
	return false
}

func withFakeTabs(m *Model) []*fakeTab {
	fakes := make([]*fakeTab, len(tabNames))
	tabs := make([]Tab, len(tabNames))
	for i := range fakes {
		fakes[i] = &fakeTab{}
		tabs[i] = fakes[i]
	}
	m.SetTabs(tabs)
	return fakes
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (*Model, *services.Manager) {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewRouter(mockapi.NewStore()))
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIBaseURL: srv.URL, DelayAlertThreshold: 0.99}
	mgr, err := services.NewManager(cfg, services.WithNotifier(func(string, string) error { return nil }))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return NewModel(mgr), mgr
}

func TestNewModel(t *testing.T) {
	m := NewModel(nil)
	if m.GetState() == nil {
		t.Fatal("state should be initialized")
	}
	if m.GetActiveTab() != TabPredict {
		t.Errorf("active tab = %v, want %v", m.GetActiveTab(), TabPredict)
	}
	if len(m.tabs) != 5 {
		t.Errorf("tabs = %d, want 5", len(m.tabs))
	}
	if m.Init() == nil {
		t.Error("Init should return a command")
	}
}

func TestTabID_String(t *testing.T) {
	if TabDashboard.String() != "Dashboard" || TabGuide.String() != "Guía de viaje" {
		t.Error("unexpected tab names")
	}
	if TabID(9).String() != "Unknown" {
		t.Error("out of range tab should be Unknown")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel(nil)
	fakes := withFakeTabs(m)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if !m.IsReady() {
		t.Error("model should be ready")
	}
	if fakes[0].width != 100 || fakes[0].height != 37 {
		t.Errorf("tab size = %dx%d, want 100x37", fakes[0].width, fakes[0].height)
	}
}

func TestModel_TabKeys(t *testing.T) {
	m := NewModel(nil)
	withFakeTabs(m)

	tests := []struct {
		key  tea.KeyMsg
		want TabID
	}{
		{runes("2"), TabDashboard},
		{runes("3"), TabGuide},
		{runes("4"), TabHistory},
		{runes("5"), TabInfo},
		{tea.KeyMsg{Type: tea.KeyTab}, TabPredict},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabInfo},
		{runes("1"), TabPredict},
	}
	for _, tt := range tests {
		m.Update(tt.key)
		if m.GetActiveTab() != tt.want {
			t.Errorf("after %q active = %v, want %v", tt.key.String(), m.GetActiveTab(), tt.want)
		}
	}
}

func TestModel_KeysOnlyReachActiveTab(t *testing.T) {
	m := NewModel(nil)
	fakes := withFakeTabs(m)

	m.Update(runes("x"))
	m.Update(TickMsg{Time: time.Now()})

	isKey := func(msg tea.Msg) bool { _, ok := msg.(tea.KeyMsg); return ok }
	isTick := func(msg tea.Msg) bool { _, ok := msg.(TickMsg); return ok }

	if !fakes[TabPredict].received(isKey) {
		t.Error("active tab should get the key")
	}
	if fakes[TabDashboard].received(isKey) {
		t.Error("inactive tab should not get keys")
	}
	for i, f := range fakes {
		if !f.received(isTick) {
			t.Errorf("tab %d should get non-key messages", i)
		}
	}
}

func TestModel_CapturedInput(t *testing.T) {
	m := NewModel(nil)
	fakes := withFakeTabs(m)
	fakes[TabPredict].capture = true

	_, cmd := m.Update(runes("q"))
	if cmd != nil {
		t.Error("q should be typed, not quit")
	}
	m.Update(runes("2"))
	if m.GetActiveTab() != TabPredict {
		t.Error("digits should be typed while capturing")
	}
	if len(fakes[TabPredict].msgs) != 2 {
		t.Errorf("tab got %d keys, want 2", len(fakes[TabPredict].msgs))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.GetActiveTab() != TabDashboard {
		t.Error("tab should still switch tabs")
	}
}

func TestModel_RefreshKey(t *testing.T) {
	m := NewModel(nil)
	withFakeTabs(m)
	m.Update(runes("2"))

	_, cmd := m.Update(runes("r"))
	if cmd == nil {
		t.Fatal("refresh should return a command")
	}
	msg, ok := cmd().(RefreshMsg)
	if !ok || msg.Tab != TabDashboard {
		t.Errorf("got %+v, want RefreshMsg for dashboard", msg)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(nil)
	withFakeTabs(m)
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%q should quit", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q should quit", k.String())
		}
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(nil)
	if !strings.Contains(m.View(), "Cargando...") {
		t.Error("view should show loading before the first resize")
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	for _, name := range tabNames {
		if !strings.Contains(view, name) {
			t.Errorf("navbar missing %q", name)
		}
	}
	if !strings.Contains(view, "Pestaña no disponible.") {
		t.Error("nil tab should render a placeholder")
	}
}

func TestModel_Help(t *testing.T) {
	m := NewModel(nil)
	withFakeTabs(m)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m.Update(runes("?"))
	view := m.View()
	if !strings.Contains(view, "Atajos de teclado") || !strings.Contains(view, "acción falsa") {
		t.Error("help overlay should list global and tab keys")
	}
	for _, want := range []string{"Shift+Tab", "Pestaña anterior", "q/Ctrl+C", "Salir"} {
		if !strings.Contains(view, want) {
			t.Errorf("help overlay missing %q", want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestDefaultStyles_SharedPalette(t *testing.T) {
	s := DefaultStyles()
	pairs := map[string][2]lipgloss.Style{
		"active tab":   {s.ActiveTab, styles.ActiveTabStyle},
		"inactive tab": {s.InactiveTab, styles.InactiveTabStyle},
		"success":      {s.NotificationSuccess, styles.NotificationSuccessStyle},
		"error":        {s.NotificationError, styles.NotificationErrorStyle},
		"warning":      {s.NotificationWarning, styles.NotificationWarningStyle},
		"info":         {s.NotificationInfo, styles.NotificationInfoStyle},
	}
	for name, p := range pairs {
		if got, want := p[0].Render("x"), p[1].Render("x"); got != want {
			t.Errorf("%s style renders %q, want %q", name, got, want)
		}
	}
}

func TestModel_Notifications(t *testing.T) {
	m := NewModel(nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	m.Update(AddNotificationMsg{Type: NotificationWarning, Message: "cuidado", Duration: time.Minute})
	if !strings.Contains(m.View(), "[WARN] cuidado") {
		t.Error("toast should be rendered")
	}

	id := m.state.GetNotifications()[0].ID
	m.Update(RemoveNotificationMsg{ID: id})
	if len(m.state.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}
}

func TestModel_ServiceEvents(t *testing.T) {
	m := NewModel(nil)

	msg := m.handleServiceEvent(services.HighDelayEvent{FlightNumber: "AM123", Probability: 0.72, Threshold: 0.6})()
	n, ok := msg.(AddNotificationMsg)
	if !ok || n.Type != NotificationWarning || !strings.Contains(n.Message, "AM123 (72%)") {
		t.Errorf("high delay event = %+v", msg)
	}

	msg = m.handleServiceEvent(services.ErrorEvent{Service: "watcher", Error: errors.New("boom")})()
	if n, ok := msg.(AddNotificationMsg); !ok || n.Type != NotificationError {
		t.Errorf("error event = %+v", msg)
	}

	if m.handleServiceEvent(services.PredictionRecordedEvent{}) != nil {
		t.Error("without services a recorded prediction triggers nothing")
	}
}

func TestModel_ReferenceLoaded(t *testing.T) {
	m, mgr := newTestModel(t)

	msg := loadReferenceCmd(mgr)()
	ref, ok := msg.(ReferenceLoadedMsg)
	if !ok || ref.Err != nil {
		t.Fatalf("loadReferenceCmd = %+v", msg)
	}
	m.Update(ref)

	data, loaded := m.state.Reference()
	if !loaded || len(data.Airports) == 0 {
		t.Fatal("reference should be in state")
	}
	if m.state.IsLoading(ResourceReference) {
		t.Error("reference loading should be cleared")
	}
}

func TestModel_ReferenceError(t *testing.T) {
	m := NewModel(nil)
	_, cmd := m.Update(ReferenceLoadedMsg{Err: errors.New("down")})
	if cmd == nil {
		t.Error("an error toast should be scheduled")
	}
	if _, loaded := m.state.Reference(); !loaded {
		t.Error("the form stays usable with empty lists")
	}
}

func TestModel_PredictionFlow(t *testing.T) {
	m, mgr := newTestModel(t)
	m.Update(loadReferenceCmd(mgr)())

	values := models.FlightFormValues{
		FlightNumber: "AM123",
		Airline:      1,
		Origin:       1,
		Destination:  2,
		Date:         time.Now().AddDate(0, 0, 7),
		Time:         "08:30",
	}

	m.Update(SubmitPredictionMsg{Values: values})
	if !m.state.IsLoading(ResourcePrediction) {
		t.Fatal("prediction should be loading")
	}

	msg, ok := predictCmd(mgr, values)().(PredictionResultMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("predictCmd = %+v", msg)
	}
	m.Update(msg)

	if m.state.IsLoading(ResourcePrediction) {
		t.Error("prediction loading should be cleared")
	}
	if m.state.Prediction() == nil {
		t.Fatal("prediction should be stored")
	}
	trip := m.state.Trip()
	if trip == nil || trip.Destination.IATA != "CUN" {
		t.Fatalf("trip = %+v, want CUN", trip)
	}
	if !m.state.IsLoading(ResourceGuide) {
		t.Error("a guide request should follow the prediction")
	}

	guide, ok := guideCmd(mgr, *trip, m.state.GuideRequest())().(GuideLoadedMsg)
	if !ok || guide.Err != nil {
		t.Fatalf("guideCmd = %+v", guide)
	}
	m.Update(guide)
	if m.state.Guide() == nil || m.state.IsLoading(ResourceGuide) {
		t.Error("guide should be stored")
	}

	hist, ok := loadHistoryCmd(mgr)().(HistoryLoadedMsg)
	if !ok || hist.Err != nil || len(hist.Predictions) != 1 {
		t.Errorf("history = %+v", hist)
	}
}

func TestModel_PredictionError(t *testing.T) {
	m := NewModel(nil)
	m.state.SetLoading(ResourcePrediction, true)

	_, cmd := m.Update(PredictionResultMsg{Err: errors.New("500")})

	if cmd == nil {
		t.Error("an error toast should be scheduled")
	}
	if m.state.IsLoading(ResourcePrediction) || m.state.Prediction() != nil {
		t.Error("failed prediction should clear loading and store nothing")
	}
}

func TestModel_GuideError(t *testing.T) {
	m := NewModel(nil)
	m.state.SetGuide(&models.TravelGuide{})
	m.state.SetLoading(ResourceGuide, true)

	m.Update(GuideLoadedMsg{Err: errors.New("404")})

	if m.state.Guide() != nil || m.state.IsLoading(ResourceGuide) {
		t.Error("failed guide should clear the previous one")
	}
}

func TestModel_StaleGuideDropped(t *testing.T) {
	m, _ := newTestModel(t)
	fakes := withFakeTabs(m)

	cancun := Trip{Destination: models.Airport{IATA: "CUN"}}
	mexico := Trip{Destination: models.Airport{IATA: "MEX"}}

	m.state.SetPrediction(&models.PredictionResult{}, &cancun)
	if m.requestGuide(cancun) == nil {
		t.Fatal("requestGuide should return a command")
	}
	m.state.SetPrediction(&models.PredictionResult{}, &mexico)
	m.requestGuide(mexico)
	latest := m.state.GuideRequest()

	m.Update(GuideLoadedMsg{Trip: cancun, Guide: &models.TravelGuide{City: "Cancún"}, Seq: latest - 1})
	if m.state.Guide() != nil {
		t.Error("stale guide should not be stored")
	}
	if !m.state.IsLoading(ResourceGuide) {
		t.Error("stale guide should not clear loading for the pending request")
	}

	m.Update(GuideLoadedMsg{Trip: mexico, Guide: &models.TravelGuide{City: "Ciudad de México"}, Seq: latest})
	m.Update(GuideLoadedMsg{Trip: cancun, Guide: &models.TravelGuide{City: "Cancún"}, Seq: latest - 1})

	guide := m.state.Guide()
	if guide == nil || guide.City != "Ciudad de México" {
		t.Errorf("guide = %+v, want Ciudad de México", guide)
	}
	if m.state.IsLoading(ResourceGuide) {
		t.Error("latest guide should clear loading")
	}

	stale := func(msg tea.Msg) bool {
		g, ok := msg.(GuideLoadedMsg)
		return ok && g.Seq != latest
	}
	for i, f := range fakes {
		if f.received(stale) {
			t.Errorf("tab %d received a stale guide", i)
		}
	}
}

func TestModel_SubmitWithoutServices(t *testing.T) {
	m := NewModel(nil)
	m.Update(SubmitPredictionMsg{})
	if m.state.IsLoading(ResourcePrediction) {
		t.Error("nothing to submit to without services")
	}
}
