// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/flight-delay-tui/internal/api"
	"github.com/j-veylop/flight-delay-tui/internal/config"
	"github.com/j-veylop/flight-delay-tui/internal/db"
	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
	"github.com/j-veylop/flight-delay-tui/internal/services/watcher"
)

type (
	// ConfigReloadedEvent is emitted after the .env file changed and was reloaded.
	ConfigReloadedEvent struct {
		Config *config.Config
	}

	// PredictionRecordedEvent is emitted when a prediction is stored in the session log.
	PredictionRecordedEvent struct {
		Prediction *models.SessionPrediction
	}

	// HighDelayEvent is emitted when a prediction reaches the alert threshold.
	HighDelayEvent struct {
		FlightNumber string
		Probability  float64
		Threshold    float64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ConfigReloadedEvent) isServiceEvent()     {}
func (PredictionRecordedEvent) isServiceEvent() {}
func (HighDelayEvent) isServiceEvent()          {}
func (ErrorEvent) isServiceEvent()              {}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	cfg         *config.Config
	client      *api.Client
	reference   *reference.Loader
	database    *db.DB
	watcher     *watcher.Service
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	mu          sync.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notify = n
	}
}

// WithClient replaces the backend client built from the configuration.
func WithClient(c *api.Client) Option {
	return func(m *Manager) {
		m.client = c
	}
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		notify:   desktopNotify,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.client == nil {
		m.client = api.New(cfg.APIBaseURL, api.WithTimeout(cfg.APITimeout))
	}
	m.reference = reference.New(m.client)

	var err error
	m.database, err = db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.EnvFile != "" {
		m.watcher, err = watcher.New(cfg.EnvFile)
		if err != nil {
			// Hot reload is optional.
			logger.Warn("config watcher disabled", "path", cfg.EnvFile, "error", err)
			m.watcher = nil
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var events <-chan watcher.Event
	if m.watcher != nil {
		events = m.watcher.Events()
	}

	for {
		select {
		case event := <-events:
			m.handleWatcherEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleWatcherEvent(event watcher.Event) {
	switch event.Type {
	case watcher.EventChanged:
		cfg, err := config.Reload(event.Path)
		if err != nil {
			logger.Error("failed to reload config", "path", event.Path, "error", err)
			m.broadcast(ErrorEvent{Service: "config", Error: err})
			return
		}
		m.applyConfig(cfg)
		logger.Info("config reloaded", "api_base_url", cfg.APIBaseURL)
		m.broadcast(ConfigReloadedEvent{Config: cfg})

	case watcher.EventError:
		m.broadcast(ErrorEvent{Service: "config", Error: event.Error})
	}
}

func (m *Manager) applyConfig(cfg *config.Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	m.client.SetBaseURL(cfg.APIBaseURL)
	m.client.SetTimeout(cfg.APITimeout)
}

// Config returns the current configuration.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Client returns the backend client.
func (m *Manager) Client() *api.Client {
	return m.client
}

// track runs a backend call and records it in the session log.
func (m *Manager) track(ctx context.Context, endpoint string, call func() error) error {
	start := time.Now()
	err := call()

	rec := &models.APICall{
		Timestamp:  start,
		Endpoint:   endpoint,
		DurationMs: time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if dbErr := m.database.InsertAPICall(context.WithoutCancel(ctx), rec); dbErr != nil {
		logger.Error("failed to record api call", "endpoint", endpoint, "error", dbErr)
	}
	return err
}

// LoadReference loads airlines and airports, once per session.
func (m *Manager) LoadReference(ctx context.Context) (reference.Data, error) {
	var data reference.Data
	err := m.track(ctx, api.PathAirlines+"+"+api.PathAirports, func() error {
		var err error
		data, err = m.reference.Load(ctx)
		return err
	})
	return data, err
}

// GetDelaysByMonth fetches the monthly statistics of an airline.
func (m *Manager) GetDelaysByMonth(ctx context.Context, airlineID int) ([]models.MonthlyDelayRecord, error) {
	var out []models.MonthlyDelayRecord
	err := m.track(ctx, api.PathDelaysByMonth, func() error {
		var err error
		out, err = m.client.GetDelaysByMonth(ctx, airlineID)
		return err
	})
	return out, err
}

// Predict requests a smart prediction for the form values, records it and
// raises a desktop alert when the delay probability reaches the threshold.
func (m *Manager) Predict(ctx context.Context, v models.FlightFormValues) (*models.PredictionResult, error) {
	if v.FlightNumber == "" {
		return nil, errors.New("flight number is required")
	}
	departure, err := v.Departure()
	if err != nil {
		return nil, err
	}

	req := models.NewSmartPredictionRequest(v.FlightNumber, v.Airline, v.Origin, v.Destination, departure)

	var resp *models.PredictionResponse
	err = m.track(ctx, api.PathPredictSmart, func() error {
		var err error
		resp, err = m.client.PredictSmart(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &models.PredictionResult{
		Departure: departure,
		Response:  *resp,
		Summary:   models.Summarize(v.Airline, resp.DelayProbability),
	}

	rec := models.NewSessionPrediction(resp)
	if err := m.database.InsertPrediction(context.WithoutCancel(ctx), rec); err != nil {
		logger.Error("failed to record prediction", "error", err)
	} else {
		m.broadcast(PredictionRecordedEvent{Prediction: rec})
	}

	m.checkThreshold(resp)

	return result, nil
}

func (m *Manager) checkThreshold(resp *models.PredictionResponse) {
	cfg := m.Config()
	if resp.DelayProbability < cfg.DelayAlertThreshold {
		return
	}

	m.broadcast(HighDelayEvent{
		FlightNumber: resp.FlightNumber,
		Probability:  resp.DelayProbability,
		Threshold:    cfg.DelayAlertThreshold,
	})

	if !cfg.DesktopNotify {
		return
	}
	title := fmt.Sprintf("High delay risk: %s", resp.FlightNumber)
	body := fmt.Sprintf("%s → %s has a %.0f%% chance of delay", resp.Origin, resp.Destination, resp.DelayProbability*100)
	if err := m.notify(title, body); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// TravelGuide requests the arrival guide for a destination airport.
func (m *Manager) TravelGuide(ctx context.Context, dest models.Airport, travel time.Time) (*models.TravelGuide, error) {
	var guide *models.TravelGuide
	err := m.track(ctx, api.PathTravelGuide, func() error {
		var err error
		guide, err = m.client.FetchTravelGuide(ctx, models.NewTravelGuideRequest(dest, travel))
		return err
	})
	return guide, err
}

// RecentPredictions returns the latest predictions of this session.
func (m *Manager) RecentPredictions(ctx context.Context, limit int) ([]models.SessionPrediction, error) {
	return m.database.RecentPredictions(ctx, limit)
}

// SessionStats aggregates the session log.
func (m *Manager) SessionStats(ctx context.Context) (*models.SessionStats, error) {
	return m.database.Stats(ctx)
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := m.database.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
