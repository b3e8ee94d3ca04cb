package app

import (
	"testing"
	"time"

	"github.com/j-veylop/flight-delay-tui/internal/models"
	"github.com/j-veylop/flight-delay-tui/internal/services/reference"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if !s.IsLoading(ResourceReference) {
		t.Error("reference should start loading")
	}
	if _, ok := s.Reference(); ok {
		t.Error("reference should not be loaded yet")
	}
	if s.Prediction() != nil || s.Guide() != nil || s.Trip() != nil {
		t.Error("no prediction, guide or trip expected")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()
	s.SetLoading(ResourceReference, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	tests := []string{ResourcePrediction, ResourceGuide, ResourceHistory}
	for _, res := range tests {
		s.SetLoading(res, true)
		if !s.IsLoading(res) || !s.AnyLoading() {
			t.Errorf("%s should be loading", res)
		}
		s.SetLoading(res, false)
		if s.IsLoading(res) {
			t.Errorf("%s should not be loading", res)
		}
	}

	s.SetLoading("unknown", true)
	if s.AnyLoading() || s.IsLoading("unknown") {
		t.Error("unknown resources are ignored")
	}
}

func TestState_Reference(t *testing.T) {
	s := NewState()
	data := reference.Data{
		Airlines: []models.Airline{{ID: 1, ShortName: "AM"}},
		Airports: []models.Airport{{ID: 1, IATA: "MEX"}},
	}
	s.SetReference(data)

	got, ok := s.Reference()
	if !ok {
		t.Fatal("reference should be loaded")
	}
	if len(got.Airlines) != 1 || got.Airports[0].IATA != "MEX" {
		t.Errorf("Reference = %+v", got)
	}
	if s.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_PredictionAndGuide(t *testing.T) {
	s := NewState()
	result := &models.PredictionResult{Summary: models.Summarize(1, 0.25)}
	trip := &Trip{Destination: models.Airport{IATA: "CUN"}, Departure: time.Now()}

	s.SetPrediction(result, trip)
	if s.Prediction() != result || s.Trip() != trip {
		t.Error("prediction and trip should be stored")
	}

	guide := &models.TravelGuide{Destination: models.Destination{City: "Cancún"}}
	s.SetGuide(guide)
	if s.Guide() != guide {
		t.Error("guide should be stored")
	}
	s.SetGuide(nil)
	if s.Guide() != nil {
		t.Error("guide should be cleared")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "ok", time.Minute)
	if len(s.GetNotifications()) != 1 {
		t.Fatal("expected one notification")
	}

	s.AddNotification(NotificationError, "expired", time.Nanosecond)
	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()
	if n := s.GetNotifications(); len(n) != 1 || n[0].ID != id {
		t.Errorf("expired notification should be gone, got %+v", n)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}

	for range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, "x", 0)
	}
	if len(s.GetNotifications()) != maxNotifications {
		t.Errorf("notifications = %d, want %d", len(s.GetNotifications()), maxNotifications)
	}
}

func TestState_UniqueNotificationIDs(t *testing.T) {
	s := NewState()
	seen := map[string]bool{}
	for range 40 {
		id := s.AddNotification(NotificationInfo, "x", time.Minute)
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()
	s.SetLoadingNotification("uno")
	s.SetLoadingNotification("dos")

	n := s.GetNotifications()
	if len(n) != 1 || n[0].Message != "dos" || n[0].Type != NotificationLoading {
		t.Errorf("loading notification = %+v", n)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
