package engine

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"io"
	"sync/atomic"

	"github.com/terrapane/aescrypt-desktop/internal/buffers"
)

// Decryptor performs one stream decryption. Cancel may be called from any
// goroutine; Decrypt observes it at chunk granularity and returns Cancelled.
// The zero value is ready to use.
type Decryptor struct {
	cancel atomic.Bool
}

// Cancel requests prompt voluntary termination of an in-flight Decrypt.
// Safe to call before, during, or after the operation.
func (d *Decryptor) Cancel() {
	d.cancel.Store(true)
}

// Decrypt parses the plaintext header from in, derives keys from password
// using the iteration count recorded in the header, streams the ciphertext
// to out, and verifies the HMAC-SHA256 trailer. Plaintext is written as it
// is produced; on a non-success result the caller is expected to discard
// the partial output. Progress positions count total input bytes consumed,
// so the final callback lands on the input file size.
func (d *Decryptor) Decrypt(password []byte, in io.Reader, out io.Writer,
	progress ProgressFunc, interval uint64) Result {

	if len(password) == 0 {
		return InvalidRequest
	}

	info, salt, iv, raw, err := parseHeader(in)
	switch {
	case err == nil:
	case errors.Is(err, errBadMagic),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return InvalidFormat
	case errors.Is(err, errBadVersion):
		return UnsupportedVersion
	default:
		return IOError
	}
	if info.Iterations == 0 {
		return InvalidFormat
	}

	encKey, macKey := deriveKeys(password, salt, info.Iterations)
	defer wipe(encKey)
	defer wipe(macKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return InternalError
	}
	stream := cipher.NewCTR(block, iv)
	mac := hmac.New(sha256.New, macKey)
	mac.Write(raw)

	// The trailing tagSize bytes of the stream are the MAC, not ciphertext.
	// A carry buffer withholds the last tagSize bytes seen until EOF proves
	// they are the trailer.
	readBuf := buffers.GetChunk()
	defer buffers.PutChunk(readBuf)
	plainBuf := buffers.GetChunk()
	defer buffers.PutChunk(plainBuf)
	buf, plain := *readBuf, *plainBuf
	pending := make([]byte, 0, chunkSize+tagSize)
	position := uint64(len(raw))
	var sinceReport uint64

	for {
		if d.cancel.Load() {
			return Cancelled
		}

		n, rerr := in.Read(buf)
		if n > 0 {
			position += uint64(n)
			sinceReport += uint64(n)
			pending = append(pending, buf[:n]...)

			if len(pending) > tagSize {
				ct := pending[:len(pending)-tagSize]
				mac.Write(ct)
				stream.XORKeyStream(plain[:len(ct)], ct)
				if _, werr := out.Write(plain[:len(ct)]); werr != nil {
					return IOError
				}
				copy(pending, pending[len(ct):])
				pending = pending[:tagSize]
			}

			if progress != nil && sinceReport >= interval {
				progress("decryptor", position)
				sinceReport = 0
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return IOError
		}
	}

	if len(pending) != tagSize {
		return InvalidFormat
	}
	if !hmac.Equal(pending, mac.Sum(nil)) {
		return AuthenticationFailed
	}

	if progress != nil {
		progress("decryptor", position)
	}

	return Success
}
