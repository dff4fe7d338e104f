// Package notify provides cross-platform desktop notifications for batch
// outcomes. It uses github.com/gen2brain/beeep for cross-platform support.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/logging"
	"github.com/terrapane/aescrypt-desktop/internal/version"
)

// Notifier raises desktop notifications when batches finish.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex

	stop chan struct{}
	done chan struct{}
}

// NewNotifier creates a Notifier.
func NewNotifier(enabled bool, logger *logging.Logger) *Notifier {
	return &Notifier{
		logger:  logger,
		enabled: enabled,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// Watch subscribes to batch lifecycle events on bus and raises a
// notification for each finished batch until Stop is called.
func (n *Notifier) Watch(bus *events.EventBus) {
	ch := bus.Subscribe(events.EventBatchFinished)
	n.stop = make(chan struct{})
	n.done = make(chan struct{})

	go func() {
		defer close(n.done)
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if be, ok := ev.(*events.BatchEvent); ok {
					n.BatchFinished(be.Mode, be.Files, be.Processed, be.Outcome)
				}
			case <-n.stop:
				return
			}
		}
	}()
}

// Stop ends the Watch loop and waits for it to exit.
func (n *Notifier) Stop() {
	if n.stop == nil {
		return
	}
	close(n.stop)
	<-n.done
	n.stop = nil
}

// BatchFinished sends a notification describing a batch's terminal state.
func (n *Notifier) BatchFinished(mode string, files, processed int, outcome string) {
	if !n.IsEnabled() {
		return
	}

	title := version.ProgramName
	var message string
	switch outcome {
	case "completed":
		message = fmt.Sprintf("Finished %sing %d file(s).", mode, processed)
	case "cancelled":
		message = fmt.Sprintf("Cancelled after %d of %d file(s).", processed, files)
	default:
		message = fmt.Sprintf("Failed after %d of %d file(s).", processed, files)
	}

	if err := n.send(title, message); err != nil {
		n.logger.Warn().Err(err).Str("outcome", outcome).Msg("Failed to send batch notification")
	}
}

// send is the internal method that actually sends the notification.
func (n *Notifier) send(title, message string) error {
	return beeep.Notify(title, message, "")
}
