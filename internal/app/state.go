// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"strconv"
	"sync"
	"time"

	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

// LoadingNotificationID is the fixed ID for loading notifications.
const LoadingNotificationID = "__loading__"

const maxNotifications = 10

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Loadable resources.
const (
	ResourceReference  = "reference"
	ResourcePrediction = "prediction"
	ResourceGuide      = "guide"
	ResourceHistory    = "history"
)

// LoadingState tracks in-flight requests per resource.
type LoadingState struct {
	Reference  bool
	Prediction bool
	Guide      bool
	History    bool
}

// Trip is the flight a travel guide was requested for.
type Trip struct {
	Departure   time.Time
	Destination models.Airport
}

// State is shared by the root model and the tabs.
type State struct {
	LastUpdated time.Time

	trip       *Trip
	prediction *models.PredictionResult
	guide      *models.TravelGuide

	notifications []Notification
	reference     reference.Data

	Loading LoadingState

	mu              sync.RWMutex
	notificationSeq int
	guideSeq        int
	referenceLoaded bool
}

// NewState returns a state waiting for reference data.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading:       LoadingState{Reference: true},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceReference:
		s.Loading.Reference = loading
	case ResourcePrediction:
		s.Loading.Prediction = loading
	case ResourceGuide:
		s.Loading.Guide = loading
	case ResourceHistory:
		s.Loading.History = loading
	}
}

// IsLoading reports whether a resource has a request in flight.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceReference:
		return s.Loading.Reference
	case ResourcePrediction:
		return s.Loading.Prediction
	case ResourceGuide:
		return s.Loading.Guide
	case ResourceHistory:
		return s.Loading.History
	}
	return false
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Reference ||
		s.Loading.Prediction ||
		s.Loading.Guide ||
		s.Loading.History
}

// SetReference stores the airlines and airports of this session.
func (s *State) SetReference(data reference.Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reference = data
	s.referenceLoaded = true
	s.LastUpdated = time.Now()
}

// Reference returns the loaded reference data and whether loading finished.
func (s *State) Reference() (reference.Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reference, s.referenceLoaded
}

// SetPrediction stores the latest prediction and the trip it was made for.
func (s *State) SetPrediction(result *models.PredictionResult, trip *Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prediction = result
	s.trip = trip
	s.LastUpdated = time.Now()
}

// Prediction returns the latest prediction, or nil.
func (s *State) Prediction() *models.PredictionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prediction
}

// Trip returns the trip of the latest prediction, or nil.
func (s *State) Trip() *Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trip
}

// SetGuide stores the latest travel guide.
func (s *State) SetGuide(guide *models.TravelGuide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guide = guide
	s.LastUpdated = time.Now()
}

// NextGuideRequest tags a new travel guide request. Results carrying an
// older tag are stale.
func (s *State) NextGuideRequest() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guideSeq++
	return s.guideSeq
}

// GuideRequest returns the tag of the latest travel guide request.
func (s *State) GuideRequest() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guideSeq
}

// Guide returns the latest travel guide, or nil.
func (s *State) Guide() *models.TravelGuide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guide
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + strconv.Itoa(s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
