// Package worker implements the background task orchestration layer: a
// dispatcher that accepts batches of file encryption/decryption requests,
// runs each batch on its own worker goroutine, and coordinates that worker
// with a UI-facing progress/cancel surface through a throttled,
// condition-variable-guarded mailbox.
package worker

import (
	"github.com/terrapane/aescrypt-desktop/internal/secure"
)

// Mode selects the transform direction for a batch.
type Mode int

const (
	ModeEncrypt Mode = iota
	ModeDecrypt
)

func (m Mode) String() string {
	if m == ModeDecrypt {
		return "decrypt"
	}
	return "encrypt"
}

// Outcome is the terminal state of a batch.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "completed"
	}
}

// BatchRequest is one user-initiated request to encrypt or decrypt a list
// of files with one credential. Submit takes ownership of Password; the
// worker wipes it when the batch ends.
type BatchRequest struct {
	Files    []string // absolute input paths, processed strictly in order
	Password *secure.Bytes
	Mode     Mode
}

// request is a queued batch plus the identity and plumbing assigned at
// acceptance. Owned by the dispatcher's queue until the worker claims it.
type request struct {
	id      uint64
	batch   BatchRequest
	surface Surface
	handle  *BatchHandle
}

// BatchHandle lets the submitting collaborator observe and cancel one batch.
type BatchHandle struct {
	pc      *progressChannel
	done    chan struct{}
	outcome Outcome
}

// Cancel asynchronously requests cancellation of the batch. The in-flight
// transform is signalled cooperatively; the worker stops after it returns.
// Safe to call from any goroutine, any number of times.
func (h *BatchHandle) Cancel() {
	h.pc.requestCancel()
}

// Done is closed when the batch reaches a terminal state.
func (h *BatchHandle) Done() <-chan struct{} {
	return h.done
}

// Outcome reports the batch's terminal state. Valid only after Done is
// closed.
func (h *BatchHandle) Outcome() Outcome {
	return h.outcome
}
