package worker

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/terrapane/aescrypt-desktop/internal/diskspace"
	"github.com/terrapane/aescrypt-desktop/internal/events"
	"github.com/terrapane/aescrypt-desktop/internal/pathutil"
)

// fileStatus is the per-file result processBatch steers on.
type fileStatus int

const (
	fileOK fileStatus = iota
	fileFailed
	fileCancelled
)

// processBatch runs a batch's files strictly in submission order, stopping
// at the first failure or cancellation. Decrypt batches are prevalidated:
// every input must carry the encrypted suffix before any file is touched,
// so a bad list never produces partial output.
func (d *Dispatcher) processBatch(req *request) (processed int, outcome Outcome) {
	batch := req.batch

	if batch.Mode == ModeDecrypt {
		for _, in := range batch.Files {
			if !pathutil.HasEncryptedSuffix(in, d.cfg.Suffix) {
				d.rep.Error("Not an encrypted file: " + in)
				return 0, OutcomeFailed
			}
		}
	}

	for _, in := range batch.Files {
		if req.handle.pc.cancelRequested() {
			return processed, OutcomeCancelled
		}
		switch d.processFile(req, in) {
		case fileCancelled:
			return processed, OutcomeCancelled
		case fileFailed:
			return processed, OutcomeFailed
		}
		processed++
	}
	return processed, OutcomeCompleted
}

// processFile transforms one file. Any failure is reported before
// returning; cancellation is not a failure and is never reported.
func (d *Dispatcher) processFile(req *request, in string) fileStatus {
	pc := req.handle.pc
	name := filepath.Base(in)

	var size int64
	if fi, err := os.Stat(in); err == nil && fi.Mode().IsRegular() {
		size = fi.Size()
	}
	// size stays 0 on stat failure or irregular input; the transform then
	// runs without percentage updates and the open below reports the real
	// error if there is one.

	req.surface.BeginFile(name, size)
	defer req.surface.EndFile()
	pc.beginFile(uint64(size))
	d.publishFile(events.EventFileStarted, req.id, name, size, 0, nil)

	src, err := os.Open(in)
	if err != nil {
		d.rep.OSError("Unable to open input file "+in, err)
		d.publishFile(events.EventFileFailed, req.id, name, size, 0, err)
		return fileFailed
	}
	defer src.Close()

	out, ok := d.outputPath(in, req.batch.Mode)
	if !ok {
		// Decrypt prevalidation makes this unreachable; kept for safety.
		d.rep.Error("Not an encrypted file: " + in)
		return fileFailed
	}

	removeOnFail := true
	if fi, err := os.Stat(out); err == nil {
		if fi.Mode().IsRegular() {
			d.rep.Error("Output file already exists: " + out)
			d.publishFile(events.EventFileFailed, req.id, name, size, 0, os.ErrExist)
			return fileFailed
		}
		// Something non-regular (a pipe, a device) is writable but must
		// survive a failed transform.
		removeOnFail = false
	}

	if size > 0 {
		if err := diskspace.Check(out, outputEstimate(req.batch.Mode, size)); err != nil {
			d.rep.Error(err.Error())
			d.publishFile(events.EventFileFailed, req.id, name, size, 0, err)
			return fileFailed
		}
	}

	dst, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		d.rep.OSError("Unable to create output file "+out, err)
		d.publishFile(events.EventFileFailed, req.id, name, size, 0, err)
		return fileFailed
	}

	br := bufio.NewReaderSize(src, d.cfg.IOBufferSize)
	bw := bufio.NewWriterSize(dst, d.cfg.IOBufferSize)

	status := d.runTransform(req, name, br, bw, size)

	if status == fileOK {
		if err := bw.Flush(); err != nil {
			d.rep.OSError("Unable to finish writing "+out, err)
			status = fileFailed
		}
	}
	if err := dst.Close(); err != nil && status == fileOK {
		d.rep.OSError("Unable to finish writing "+out, err)
		status = fileFailed
	}

	switch status {
	case fileOK:
		req.surface.Percent(100)
		d.publishFile(events.EventFileCompleted, req.id, name, size, 100, nil)
	case fileCancelled:
		d.publishFile(events.EventFileCancelled, req.id, name, size, pcPercent(pc), nil)
		if removeOnFail {
			os.Remove(out)
		}
	case fileFailed:
		d.publishFile(events.EventFileFailed, req.id, name, size, pcPercent(pc), nil)
		if removeOnFail {
			os.Remove(out)
		}
	}
	return status
}

// outputEstimate predicts the output size for the space check. Encryption
// adds a bounded header and trailer; decryption only shrinks.
func outputEstimate(mode Mode, inputSize int64) int64 {
	if mode == ModeEncrypt {
		return inputSize + 512
	}
	return inputSize
}

func (d *Dispatcher) outputPath(in string, mode Mode) (string, bool) {
	if mode == ModeDecrypt {
		return pathutil.DecryptedName(in, d.cfg.Suffix)
	}
	return pathutil.EncryptedName(in, d.cfg.Suffix), true
}

func pcPercent(pc *progressChannel) int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.percent < 0 {
		return 0
	}
	return pc.percent
}
