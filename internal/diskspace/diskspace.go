// Package diskspace checks that a target volume has room for an output
// file before the transform starts writing it.
package diskspace

import "fmt"

// InsufficientSpaceError indicates that there is not enough disk space
// available for the planned output.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	requiredMB := float64(e.RequiredBytes) / (1024 * 1024)
	availableMB := float64(e.AvailableBytes) / (1024 * 1024)
	return fmt.Sprintf("insufficient disk space for %s: need %.2f MB, have %.2f MB available",
		e.Path, requiredMB, availableMB)
}

// safetyMargin leaves headroom beyond the predicted output size.
const safetyMargin = 1.05

// Check verifies the filesystem holding targetPath has room for
// requiredBytes plus a safety margin. When the filesystem cannot be
// queried (network mounts, virtual filesystems) the check passes and the
// write is left to fail naturally.
func Check(targetPath string, requiredBytes int64) error {
	available := Available(targetPath)
	if available == 0 {
		return nil
	}

	required := int64(float64(requiredBytes) * safetyMargin)
	if available < required {
		return &InsufficientSpaceError{
			Path:           targetPath,
			RequiredBytes:  required,
			AvailableBytes: available,
		}
	}
	return nil
}
