package engine

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"sync/atomic"

	"github.com/terrapane/aescrypt-desktop/internal/buffers"
)

// Encryptor performs one stream encryption. Cancel may be called from any
// goroutine; Encrypt observes it at chunk granularity and returns Cancelled.
// The zero value is ready to use.
type Encryptor struct {
	cancel atomic.Bool
}

// Cancel requests prompt voluntary termination of an in-flight Encrypt.
// Safe to call before, during, or after the operation.
func (e *Encryptor) Cancel() {
	e.cancel.Store(true)
}

// Encrypt derives keys from password, writes the plaintext header with the
// given extension fields, and streams in through AES-256-CTR to out with an
// HMAC-SHA256 trailer. progress, when non-nil, is invoked with the count of
// input bytes consumed at least every interval bytes and once at the final
// position; interval 0 reports every chunk.
func (e *Encryptor) Encrypt(password []byte, iterations uint32, in io.Reader,
	out io.Writer, extensions []Extension, progress ProgressFunc,
	interval uint64) Result {

	if len(password) == 0 || iterations == 0 {
		return InvalidRequest
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return InternalError
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return InternalError
	}

	encKey, macKey := deriveKeys(password, salt, iterations)
	defer wipe(encKey)
	defer wipe(macKey)

	header, err := buildHeader(extensions, iterations, salt, iv)
	if err != nil {
		return InvalidRequest
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return InternalError
	}
	stream := cipher.NewCTR(block, iv)
	mac := hmac.New(sha256.New, macKey)

	if _, err := out.Write(header); err != nil {
		return IOError
	}
	mac.Write(header)

	plainBuf := buffers.GetChunk()
	defer buffers.PutChunk(plainBuf)
	encryptedBuf := buffers.GetChunk()
	defer buffers.PutChunk(encryptedBuf)
	plain, encrypted := *plainBuf, *encryptedBuf
	var position, sinceReport uint64

	for {
		if e.cancel.Load() {
			return Cancelled
		}

		n, rerr := in.Read(plain)
		if n > 0 {
			stream.XORKeyStream(encrypted[:n], plain[:n])
			if _, werr := out.Write(encrypted[:n]); werr != nil {
				return IOError
			}
			mac.Write(encrypted[:n])

			position += uint64(n)
			sinceReport += uint64(n)
			if progress != nil && sinceReport >= interval {
				progress("encryptor", position)
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

	if _, err := out.Write(mac.Sum(nil)); err != nil {
		return IOError
	}

	// Terminal position is always reported, even when throttled updates
	// were skipped for the whole stream.
	if progress != nil {
		progress("encryptor", position)
	}

	return Success
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
