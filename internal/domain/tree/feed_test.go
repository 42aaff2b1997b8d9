package tree

import (
	"testing"
	"time"

	"arboriza/backend/internal/domain/user"
)

func event(action, message, photo string) CareEvent {
	return CareEvent{
		Action:    action,
		Message:   message,
		PhotoURL:  photo,
		User:      user.Snapshot{ID: "uid-1", Name: "Ana"},
		Timestamp: time.Now(),
	}
}

func TestBuildFeed(t *testing.T) {
	events := []CareEvent{
		event("cadastrou esta árvore.", "Adicionei esta nova amiga!", "https://example.com/1.jpg"),
		event("cuidou da planta.", "", "https://example.com/2.jpg"),
		event("cuidou da planta.", "Reguei.", ""),
		event("cuidou da planta.", "", ""),
		event("comentou.", "Que linda!", ""),
	}

	feed := BuildFeed(events)
	if len(feed) != 4 {
		t.Fatalf("expected 4 feed items, got %d", len(feed))
	}
	if !feed[0].FirstMessage {
		t.Error("registration event should carry the first-message badge")
	}
	for _, item := range feed[1:] {
		if item.FirstMessage {
			t.Errorf("non-registration event %q badged as first message", item.Action)
		}
	}
}

func TestBuildFeedEmpty(t *testing.T) {
	if got := BuildFeed(nil); len(got) != 0 {
		t.Errorf("expected empty feed, got %d items", len(got))
	}
	if got := BuildFeed([]CareEvent{event("cuidou da planta.", "", "")}); len(got) != 0 {
		t.Errorf("expected blank events filtered, got %d items", len(got))
	}
}

func TestIsRegistration(t *testing.T) {
	if !event("cadastrou esta árvore.", "", "").IsRegistration() {
		t.Error("registration action not detected")
	}
	if event("cuidou da planta.", "", "").IsRegistration() {
		t.Error("care action detected as registration")
	}
}

func TestHealthStatusValid(t *testing.T) {
	for _, s := range []HealthStatus{StatusHealthy, StatusNeedsCare, StatusCritical} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []HealthStatus{"", "fine", "HEALTHY"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
