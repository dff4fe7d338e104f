package worker

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/terrapane/aescrypt-desktop/internal/config"
	"github.com/terrapane/aescrypt-desktop/internal/engine"
	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/logging"
	"github.com/terrapane/aescrypt-desktop/internal/report"
)

// Shared test doubles for the dispatcher and batch tests.

// copyOp transforms by copying input to output verbatim.
type copyOp struct{}

func (copyOp) Run(in io.Reader, out io.Writer, progress engine.ProgressFunc, _ uint64) engine.Result {
	n, err := io.Copy(out, in)
	if err != nil {
		return engine.IOError
	}
	if progress != nil {
		progress("", uint64(n))
	}
	return engine.Success
}

func (copyOp) Cancel() {}

// failOp writes a little output and then fails.
type failOp struct {
	result engine.Result
}

func (o failOp) Run(_ io.Reader, out io.Writer, _ engine.ProgressFunc, _ uint64) engine.Result {
	out.Write([]byte("partial"))
	return o.result
}

func (failOp) Cancel() {}

// blockOp writes partial output, then blocks until cancelled.
type blockOp struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockOp() *blockOp {
	return &blockOp{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (o *blockOp) Run(_ io.Reader, out io.Writer, _ engine.ProgressFunc, _ uint64) engine.Result {
	out.Write([]byte("partial"))
	close(o.started)
	<-o.release
	return engine.Cancelled
}

func (o *blockOp) Cancel() {
	o.once.Do(func() { close(o.release) })
}

// sleepOp succeeds after a delay.
type sleepOp struct {
	d time.Duration
}

func (o sleepOp) Run(in io.Reader, out io.Writer, progress engine.ProgressFunc, _ uint64) engine.Result {
	time.Sleep(o.d)
	n, _ := io.Copy(out, in)
	if progress != nil {
		progress("", uint64(n))
	}
	return engine.Success
}

func (sleepOp) Cancel() {}

// scriptFactory hands out scripted operations in order, falling back to
// copyOp when the script runs dry, and counts how often it was asked.
// It also records the password slices the dispatcher passed it.
type scriptFactory struct {
	mu        sync.Mutex
	ops       []engine.Operation
	calls     int
	passwords [][]byte
}

func (f *scriptFactory) NewOperation(_ Mode, password []byte) engine.Operation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.passwords = append(f.passwords, password)
	if len(f.ops) == 0 {
		return copyOp{}
	}
	op := f.ops[0]
	f.ops = f.ops[1:]
	return op
}

func (f *scriptFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *scriptFactory) seenPasswords() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.passwords...)
}

// recSurface records the presentation calls a worker makes.
type recSurface struct {
	mu       sync.Mutex
	begins   []string
	percents []int
	ends     int
	closed   bool
}

func (s *recSurface) BeginFile(name string, _ int64) {
	s.mu.Lock()
	s.begins = append(s.begins, name)
	s.mu.Unlock()
}

func (s *recSurface) Percent(pct int) {
	s.mu.Lock()
	s.percents = append(s.percents, pct)
	s.mu.Unlock()
}

func (s *recSurface) EndFile() {
	s.mu.Lock()
	s.ends++
	s.mu.Unlock()
}

func (s *recSurface) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *recSurface) beginNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.begins...)
}

func newTestDispatcher(t *testing.T, f Factory) (*Dispatcher, *events.EventBus) {
	t.Helper()

	cfg := config.Default()
	log := logging.NewDefaultCLILogger()
	log.SetOutput(io.Discard)
	bus := events.NewEventBus(64)
	rep := report.New(log, bus, false)

	d := NewDispatcher(cfg, rep, bus, log)
	if f != nil {
		d.factory = f
	}
	return d, bus
}

func waitDone(t *testing.T, h *BatchHandle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not reach a terminal state")
	}
}

func drainErrors(ch <-chan events.Event) []string {
	var msgs []string
	for {
		select {
		case ev := <-ch:
			if e, ok := ev.(*events.ErrorEvent); ok {
				msgs = append(msgs, e.Message)
			}
		default:
			return msgs
		}
	}
}
