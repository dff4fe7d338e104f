//go:build !windows

package diskspace

import (
	"path/filepath"
	"syscall"
)

// Available returns the space in bytes available to this process on the
// filesystem containing path, or 0 if it cannot be determined.
func Available(path string) int64 {
	dir := filepath.Dir(path)

	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return 0
	}
	return int64(stat.Bavail) * int64(stat.Bsize)
}
