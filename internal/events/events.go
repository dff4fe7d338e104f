// Package events provides a publish/subscribe bus that decouples the
// background workers from whatever hosts them (CLI progress output, desktop
// notifications, tests).
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines the types of events that can be emitted.
type EventType string

const (
	EventBatchQueued   EventType = "batch_queued"   // Batch accepted, worker started
	EventBatchFinished EventType = "batch_finished" // Worker finished (any outcome)

	EventFileStarted   EventType = "file_started"   // Per-file processing began
	EventFileProgress  EventType = "file_progress"  // Throttled percent update
	EventFileCompleted EventType = "file_completed" // File transformed successfully
	EventFileFailed    EventType = "file_failed"    // File failed; batch stops
	EventFileCancelled EventType = "file_cancelled" // User cancelled during this file

	EventError EventType = "error" // User-facing error report
)

// DefaultBufferSize is the subscription channel depth when none is given.
const DefaultBufferSize = 256

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// BatchEvent describes batch lifecycle transitions.
type BatchEvent struct {
	BaseEvent
	BatchID   uint64
	Mode      string // "encrypt" or "decrypt"
	Files     int    // files in the batch
	Processed int    // files completed before the batch ended
	Outcome   string // "", "completed", "failed", "cancelled"
}

// FileEvent describes per-file progress within a batch.
type FileEvent struct {
	BaseEvent
	BatchID uint64
	Name    string
	Size    int64 // 0 when unknown
	Percent int
	Err     error
}

// ErrorEvent carries a user-facing error report.
type ErrorEvent struct {
	BaseEvent
	Message string
}

// EventBus manages event subscriptions and publishing.
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64
}

// NewEventBus creates a new event bus with the specified buffer size.
// A non-positive size selects DefaultBufferSize.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type.
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events.
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers. Publishing never blocks; an
// event is dropped for a subscriber whose buffer is full.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Unsubscribe removes a subscription channel from a specific event type.
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// Close shuts down the event bus and closes all subscription channels.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
}

// DroppedEventCount returns the total number of events dropped due to full
// subscriber buffers.
func (eb *EventBus) DroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}
