package worker

import (
	"errors"
	"sync"
	"time"

	"github.com/terrapane/aescrypt-desktop/internal/config"
	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/logging"
	"github.com/terrapane/aescrypt-desktop/internal/report"
)

// ErrShutdown is returned by Submit once Shutdown has begun.
var ErrShutdown = errors.New("dispatcher is shut down")

const shutdownPoll = 200 * time.Millisecond

// Dispatcher accepts batch requests and runs each on a dedicated worker
// goroutine. It tracks how many workers are live, keeps a rendezvous queue
// so a worker can claim exactly the request submitted for it, and reclaims
// finished workers' completion channels so none outlive Shutdown.
type Dispatcher struct {
	cfg     *config.Config
	rep     *report.Reporter
	bus     *events.EventBus
	log     *logging.Logger
	factory Factory

	mu       sync.Mutex
	nextID   uint64
	requests map[uint64]*request
	active   int
	finished []chan struct{}
	closed   bool
}

// NewDispatcher creates a Dispatcher using the real transform engine.
// bus may be nil when no one listens for lifecycle events.
func NewDispatcher(cfg *config.Config, rep *report.Reporter, bus *events.EventBus, log *logging.Logger) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		rep:      rep,
		bus:      bus,
		log:      log,
		factory:  newEngineFactory(cfg),
		requests: make(map[uint64]*request),
	}
	return d
}

// Submit queues a batch and starts its worker. The returned handle reports
// progress-channel cancellation and the terminal outcome. An empty batch is
// accepted and completes immediately without starting a worker.
func (d *Dispatcher) Submit(batch BatchRequest, surface Surface) (*BatchHandle, error) {
	if surface == nil {
		surface = nopSurface{}
	}

	handle := &BatchHandle{
		pc:   newProgressChannel(d.cfg.ProgressInterval),
		done: make(chan struct{}),
	}

	if len(batch.Files) == 0 {
		batch.Password.Wipe()
		handle.outcome = OutcomeCompleted
		close(handle.done)
		return handle, nil
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		batch.Password.Wipe()
		return nil, ErrShutdown
	}
	d.nextID++
	// The worker becomes the credential's sole owner; the submitter's
	// reference is left empty so nothing else can read or retain it.
	batch.Password = batch.Password.Move()
	req := &request{
		id:      d.nextID,
		batch:   batch,
		surface: surface,
		handle:  handle,
	}
	d.requests[req.id] = req
	d.active++
	d.mu.Unlock()

	d.publishBatch(events.EventBatchQueued, req.id, batch.Mode, len(batch.Files), 0, "")
	go d.worker(req.id)

	return handle, nil
}

// IsBusy reports whether any worker is still live. Because a worker counts
// as active until after its handle's Done channel closes, IsBusy never
// reads false while a submitted batch is unfinished.
func (d *Dispatcher) IsBusy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active > 0
}

// Shutdown refuses new submissions, waits for live workers to finish, and
// reclaims their completion channels. In-flight batches run to their own
// terminal state; callers wanting a fast stop cancel the handles first.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	for {
		d.mu.Lock()
		if d.active == 0 {
			d.mu.Unlock()
			break
		}
		d.mu.Unlock()
		time.Sleep(shutdownPoll)
	}

	for {
		if !d.reclaimFinished() {
			return
		}
	}
}

// reclaimFinished joins at most one finished worker goroutine, reporting
// whether one was found. Each new worker and Shutdown call it in a loop
// until the list is empty, so exits are observed promptly instead of
// accumulating.
func (d *Dispatcher) reclaimFinished() bool {
	d.mu.Lock()
	n := len(d.finished)
	if n == 0 {
		d.mu.Unlock()
		return false
	}
	ch := d.finished[n-1]
	d.finished = d.finished[:n-1]
	d.mu.Unlock()

	<-ch
	return true
}

// worker is a batch's goroutine. It claims its request from the rendezvous
// queue, processes the batch, wipes the credential, and records its own
// exit for reclamation.
func (d *Dispatcher) worker(id uint64) {
	exited := make(chan struct{})
	defer close(exited)

	for d.reclaimFinished() {
	}

	d.mu.Lock()
	req, ok := d.requests[id]
	if ok {
		delete(d.requests, id)
	}
	d.mu.Unlock()

	if !ok {
		// Queue corruption; nothing to process and no handle to resolve.
		d.rep.Error("Worker rendezvous failed")
		d.mu.Lock()
		d.active--
		d.finished = append(d.finished, exited)
		d.mu.Unlock()
		return
	}

	processed, outcome := d.runBatch(req)

	req.batch.Password.Wipe()
	req.surface.Close()

	req.handle.outcome = outcome
	close(req.handle.done)

	d.publishBatch(events.EventBatchFinished, req.id, req.batch.Mode,
		len(req.batch.Files), processed, outcome.String())

	d.mu.Lock()
	d.active--
	d.finished = append(d.finished, exited)
	d.mu.Unlock()
}

// runBatch shields the dispatcher from a panicking transform: a panic fails
// the batch instead of killing the process with the credential unwiped.
func (d *Dispatcher) runBatch(req *request) (processed int, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Uint64("batch", req.id).
				Msg("worker panicked")
			d.rep.Errorf("Internal error while processing files: %v", r)
			outcome = OutcomeFailed
		}
	}()
	return d.processBatch(req)
}

func (d *Dispatcher) publishBatch(t events.EventType, id uint64, mode Mode, files, processed int, outcome string) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(&events.BatchEvent{
		BaseEvent: events.BaseEvent{EventType: t, Time: time.Now()},
		BatchID:   id,
		Mode:      mode.String(),
		Files:     files,
		Processed: processed,
		Outcome:   outcome,
	})
}

func (d *Dispatcher) publishFile(t events.EventType, id uint64, name string, size int64, pct int, err error) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(&events.FileEvent{
		BaseEvent: events.BaseEvent{EventType: t, Time: time.Now()},
		BatchID:   id,
		Name:      name,
		Size:      size,
		Percent:   pct,
		Err:       err,
	})
}
