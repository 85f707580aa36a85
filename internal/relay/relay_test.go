package relay_test

import (
	"testing"

	"expyra/internal/relay"
)

func TestHubFanOut(t *testing.T) {
	hub := relay.NewHub()
	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	hub.Publish(relay.Event{Name: relay.EventNewAlert, AlertID: "a1"})

	for _, ch := range []<-chan relay.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Name != relay.EventNewAlert || ev.AlertID != "a1" {
				t.Fatalf("unexpected event %+v", ev)
			}
			if ev.Timestamp == "" {
				t.Fatal("publish must stamp a timestamp")
			}
		default:
			t.Fatal("subscriber missed the event")
		}
	}
}

func TestHubCancelUnsubscribes(t *testing.T) {
	hub := relay.NewHub()
	ch, cancel := hub.Subscribe()
	if hub.SubscriberCount() != 1 {
		t.Fatalf("want 1 subscriber, got %d", hub.SubscriberCount())
	}

	cancel()
	if hub.SubscriberCount() != 0 {
		t.Fatalf("want 0 subscribers after cancel, got %d", hub.SubscriberCount())
	}
	// double cancel is safe
	cancel()

	if _, open := <-ch; open {
		t.Fatal("channel must be closed after cancel")
	}
}

// A subscriber that never drains its channel must not block publishers;
// overflow events are simply dropped.
func TestHubDropsOnFullBuffer(t *testing.T) {
	hub := relay.NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		hub.Publish(relay.Event{Name: relay.EventNewAlert})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received == 0 || received >= 100 {
		t.Fatalf("want some events buffered and the rest dropped, got %d", received)
	}
}
