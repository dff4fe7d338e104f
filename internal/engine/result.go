// Package engine implements the stream encryption and decryption operations
// that the background workers drive. Each operation is synchronous and
// blocking from the caller's point of view, reports progress through a
// caller-supplied callback, and terminates promptly with ResultCancelled
// when Cancel is invoked from another goroutine.
package engine

// Result is the terminal outcome of one encrypt or decrypt operation.
// Exactly one value means success and exactly one means user-cancelled;
// every other value is a failure with a displayable description.
type Result int

const (
	Success Result = iota
	Cancelled
	InvalidRequest
	IOError
	InvalidFormat
	UnsupportedVersion
	AuthenticationFailed
	InternalError
)

// String returns a human-readable description suitable for error reports.
func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Cancelled:
		return "operation cancelled"
	case InvalidRequest:
		return "invalid request parameters"
	case IOError:
		return "I/O error reading or writing stream"
	case InvalidFormat:
		return "input is not a recognized encrypted stream"
	case UnsupportedVersion:
		return "encrypted stream version is not supported"
	case AuthenticationFailed:
		return "message authentication failed (wrong password or corrupted file)"
	case InternalError:
		return "internal error"
	default:
		return "unknown result"
	}
}
