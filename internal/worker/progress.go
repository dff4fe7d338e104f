package worker

import (
	"sync"
	"time"
)

// progressChannel is the mailbox between the transform goroutine (producer)
// and the worker goroutine (consumer). It coalesces progress into the
// latest percentage under a single mutex, throttles non-final updates to at
// most one per minNotify, and carries the sticky cancellation flag for the
// whole batch. A terminal update (position == total) always lands so the
// consumer observes 100% even on tiny files.
type progressChannel struct {
	mu   sync.Mutex
	cond *sync.Cond

	minNotify  time.Duration
	lastNotify time.Time
	total      uint64
	percent    int
	completed  bool
	cancelled  bool
}

func newProgressChannel(minNotify time.Duration) *progressChannel {
	pc := &progressChannel{minNotify: minNotify}
	pc.cond = sync.NewCond(&pc.mu)
	return pc
}

// beginFile re-arms the channel for the next file in the batch. The
// cancellation flag is deliberately not cleared: cancel applies to the
// batch, not the file.
func (pc *progressChannel) beginFile(total uint64) {
	pc.mu.Lock()
	pc.total = total
	pc.percent = -1
	pc.completed = false
	pc.lastNotify = time.Now()
	pc.mu.Unlock()
}

// update is the engine's progress callback. position is absolute bytes
// consumed; the final position bypasses the throttle so completion is
// never swallowed.
func (pc *progressChannel) update(_ string, position uint64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.total == 0 {
		return
	}
	now := time.Now()
	final := position >= pc.total
	if !final && now.Sub(pc.lastNotify) < pc.minNotify {
		return
	}
	pct := int(position * 100 / pc.total)
	if pct > 100 {
		pct = 100
	}
	if pct <= pc.percent {
		return
	}
	pc.percent = pct
	pc.lastNotify = now
	pc.cond.Broadcast()
}

// complete marks the current file's transform finished, successful or not,
// and wakes the consumer for its final look.
func (pc *progressChannel) complete() {
	pc.mu.Lock()
	pc.completed = true
	pc.cond.Broadcast()
	pc.mu.Unlock()
}

// requestCancel sets the sticky cancellation flag and wakes the consumer.
func (pc *progressChannel) requestCancel() {
	pc.mu.Lock()
	pc.cancelled = true
	pc.cond.Broadcast()
	pc.mu.Unlock()
}

func (pc *progressChannel) cancelRequested() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.cancelled
}

// wait blocks until there is a percentage newer than last, the transform
// completed, or cancellation was requested, and reports all three.
func (pc *progressChannel) wait(last int) (pct int, completed, cancelled bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for pc.percent <= last && !pc.completed && !pc.cancelled {
		pc.cond.Wait()
	}
	return pc.percent, pc.completed, pc.cancelled
}
