package app

import (
	"time"

	"github.com/j-veylop/flight-delay-tui/internal/config"
	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// ReferenceLoadedMsg carries the airlines and airports of the session.
// Data may be partial when Err is set.
type ReferenceLoadedMsg struct {
	Err  error
	Data reference.Data
}

// SubmitPredictionMsg is emitted by the flight form.
type SubmitPredictionMsg struct {
	Values models.FlightFormValues
}

// PredictionResultMsg carries the outcome of a prediction request.
type PredictionResultMsg struct {
	Err    error
	Result *models.PredictionResult
	Values models.FlightFormValues
}

// RequestGuideMsg asks for the travel guide of a trip.
type RequestGuideMsg struct {
	Trip Trip
}

// GuideLoadedMsg carries the outcome of a travel guide request.
type GuideLoadedMsg struct {
	Err   error
	Guide *models.TravelGuide
	Trip  Trip
	Seq   int
}

// HistoryLoadedMsg carries the session log.
type HistoryLoadedMsg struct {
	Err         error
	Stats       *models.SessionStats
	Predictions []models.SessionPrediction
}

// ConfigReloadedMsg is sent to the tabs after the .env file was reloaded.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// RefreshMsg asks a tab to reload its data.
type RefreshMsg struct {
	Tab TabID
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
