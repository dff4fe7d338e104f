package notify

import (
	"io"
	"testing"
	"time"

	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/logging"
)

func TestSetEnabled(t *testing.T) {
	n := NewNotifier(true, nil)

	if !n.IsEnabled() {
		t.Error("Expected notifier to start enabled")
	}
	n.SetEnabled(false)
	if n.IsEnabled() {
		t.Error("Expected notifier to be disabled after SetEnabled(false)")
	}
}

func TestWatchStops(t *testing.T) {
	log := logging.NewDefaultCLILogger()
	log.SetOutput(io.Discard)
	bus := events.NewEventBus(8)

	// Disabled notifier: Watch must still consume and Stop must return.
	n := NewNotifier(false, log)
	n.Watch(bus)

	bus.Publish(&events.BatchEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventBatchFinished, Time: time.Now()},
		Outcome:   "completed",
	})

	done := make(chan struct{})
	go func() {
		n.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	// Stop again is a no-op.
	n.Stop()
}
