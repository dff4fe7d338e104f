package diskspace

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckSmallOutputPasses(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.aes")
	if err := Check(target, 1024); err != nil {
		t.Errorf("expected 1KB to fit, got: %v", err)
	}
}

func TestCheckImpossibleOutputFails(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.aes")
	if Available(target) == 0 {
		t.Skip("filesystem does not report free space")
	}

	err := Check(target, math.MaxInt64/2)
	if err == nil {
		t.Fatal("expected an insufficient space error")
	}
	var ise *InsufficientSpaceError
	if !errors.As(err, &ise) {
		t.Fatalf("error type = %T, want *InsufficientSpaceError", err)
	}
	if !strings.Contains(err.Error(), "insufficient disk space") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCheckUnknownFilesystemPasses(t *testing.T) {
	// A nonexistent directory cannot be queried; the check must not block
	// the operation.
	if err := Check("/nonexistent/dir/out.aes", 1024); err != nil {
		t.Errorf("expected unknown filesystem to pass, got: %v", err)
	}
}
