package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// HistoryLimit is the number of session predictions shown in history.
	HistoryLimit = 50
)

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadReferenceCmd loads airlines and airports.
func loadReferenceCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		data, err := mgr.LoadReference(context.Background())
		return ReferenceLoadedMsg{Data: data, Err: err}
	}
}

// predictCmd requests a smart prediction for the form values.
func predictCmd(mgr *services.Manager, values models.FlightFormValues) tea.Cmd {
	return func() tea.Msg {
		result, err := mgr.Predict(context.Background(), values)
		return PredictionResultMsg{Values: values, Result: result, Err: err}
	}
}

// guideCmd requests the travel guide of a trip.
func guideCmd(mgr *services.Manager, trip Trip, seq int) tea.Cmd {
	return func() tea.Msg {
		guide, err := mgr.TravelGuide(context.Background(), trip.Destination, trip.Departure)
		return GuideLoadedMsg{Trip: trip, Guide: guide, Err: err, Seq: seq}
	}
}

// loadHistoryCmd reads the session log.
func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		predictions, err := mgr.RecentPredictions(ctx, HistoryLimit)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		stats, err := mgr.SessionStats(ctx)
		return HistoryLoadedMsg{Predictions: predictions, Stats: stats, Err: err}
	}
}

func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// Notify returns a command that adds a notification.
func Notify(t NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: duration}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return Notify(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return Notify(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return Notify(NotificationWarning, message, LongNotificationDuration)
}

func notifyInfoCmd(message string) tea.Cmd {
	return Notify(NotificationInfo, message, QuickNotificationDuration)
}
