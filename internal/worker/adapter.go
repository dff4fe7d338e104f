package worker

import (
	"io"
	"math"

	"github.com/terrapane/aescrypt-desktop/internal/engine"
	"github.com/terrapane/aescrypt-desktop/internal/events"
)

// minimalInterval is the smallest callback interval, in bytes, worth
// per-percent updates. Below it one terminal callback suffices.
const minimalInterval = 1600

// updateInterval converts a file size to the engine's callback interval:
// roughly one callback per percent. Small (and unknown-size) inputs, where
// that interval would fall under the floor, collapse to a single terminal
// callback.
func updateInterval(size uint64) uint64 {
	interval := size / 100
	if interval < minimalInterval {
		return math.MaxUint64
	}
	return interval
}

// runTransform drives one engine operation on a sub-goroutine while this
// (worker) goroutine consumes the progress channel, forwards percentages to
// the surface, and relays a cancellation request into the operation. The
// sub-goroutine is always joined before returning, whatever happened.
func (d *Dispatcher) runTransform(req *request, name string, in io.Reader, out io.Writer, size int64) fileStatus {
	pc := req.handle.pc
	op := d.factory.NewOperation(req.batch.Mode, req.batch.Password.Data())

	var result engine.Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer pc.complete()
		result = op.Run(in, out, pc.update, updateInterval(uint64(size)))
	}()

	cancelled := false
	last := -1
	for {
		pct, completed, cancel := pc.wait(last)
		if cancel && !cancelled {
			cancelled = true
			op.Cancel()
		}
		if pct > last {
			last = pct
			// The terminal 100 is delivered once by the caller after the
			// output file is safely flushed.
			if pct < 100 {
				req.surface.Percent(pct)
				d.publishFile(events.EventFileProgress, req.id, name, size, pct, nil)
			}
		}
		if completed || cancelled {
			break
		}
	}

	<-done

	switch result {
	case engine.Success:
		return fileOK
	case engine.Cancelled:
		return fileCancelled
	default:
		d.rep.Error(failureMessage(req.batch.Mode, result))
		return fileFailed
	}
}

func failureMessage(mode Mode, result engine.Result) string {
	return "Failed to " + mode.String() + ": " + result.String()
}
