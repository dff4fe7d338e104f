// Package report surfaces user-facing failure messages. It is the single
// funnel the workers use to tell the user something went wrong: every report
// is logged, published on the event bus, and (when enabled) raised as a
// desktop alert. Cancellation is never reported.
package report

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/logging"
	"github.com/terrapane/aescrypt-desktop/internal/version"
)

// Reporter delivers error reports to the user.
type Reporter struct {
	log    *logging.Logger
	bus    *events.EventBus
	alerts bool
	title  string
}

// New creates a Reporter. bus may be nil; alerts controls whether desktop
// alert boxes are raised in addition to the log line.
func New(log *logging.Logger, bus *events.EventBus, alerts bool) *Reporter {
	return &Reporter{
		log:    log,
		bus:    bus,
		alerts: alerts,
		title:  version.ProgramName + " error",
	}
}

// Error reports a display string to the user.
func (r *Reporter) Error(message string) {
	r.deliver(message)
}

// Errorf reports a formatted display string to the user.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.deliver(fmt.Sprintf(format, args...))
}

// OSError reports a display string with the underlying OS error appended,
// mirroring how open/create/stat failures are presented.
func (r *Reporter) OSError(message string, err error) {
	if err != nil {
		message = message + ": " + err.Error()
	}
	r.deliver(message)
}

func (r *Reporter) deliver(message string) {
	if r.log != nil {
		r.log.Error().Msg(message)
	}

	if r.bus != nil {
		r.bus.Publish(&events.ErrorEvent{
			BaseEvent: events.BaseEvent{
				EventType: events.EventError,
				Time:      time.Now(),
			},
			Message: message,
		})
	}

	if r.alerts {
		// Alert failures are not themselves reportable; the log line above
		// already reached the user's terminal.
		_ = beeep.Alert(r.title, message, "")
	}
}
