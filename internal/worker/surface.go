package worker

// Surface is the UI-facing presentation of a running batch. The worker
// goroutine is the only caller, and it calls sequentially: BeginFile,
// zero or more Percent updates, EndFile, repeated per file, then Close
// once when the batch ends. Implementations never block on user input.
type Surface interface {
	// BeginFile announces the file about to be processed. size is the
	// input size in bytes, or 0 when it is unknown.
	BeginFile(name string, size int64)

	// Percent reports transform progress for the current file, 0-100.
	// Updates are monotonic and throttled; 100 is delivered exactly once
	// per successfully transformed file.
	Percent(pct int)

	// EndFile marks the current file finished, whatever the result.
	EndFile()

	// Close releases the surface after the batch's last file.
	Close()
}

// nopSurface is used when the submitter does not care about presentation.
type nopSurface struct{}

func (nopSurface) BeginFile(string, int64) {}
func (nopSurface) Percent(int)             {}
func (nopSurface) EndFile()                {}
func (nopSurface) Close()                  {}
