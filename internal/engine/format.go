package engine

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/terrapane/aescrypt-desktop/internal/buffers"
)

// Container layout:
//
//	magic        [4]byte  "AESC"
//	version      byte     1
//	extCount     uint16   big-endian
//	extensions   extCount * { nameLen u16, name, valueLen u16, value }
//	iterations   uint32   big-endian (KDF iteration count)
//	salt         [16]byte
//	iv           [16]byte
//	ciphertext   AES-256-CTR keystream XOR plaintext
//	tag          [32]byte HMAC-SHA256 over header and ciphertext
const (
	formatVersion = 1

	saltSize = 16
	ivSize   = 16
	keySize  = 32
	tagSize  = sha256.Size

	// chunkSize is the unit of streaming work, matching the pooled buffer
	// size. Cancellation and progress are observed at chunk granularity.
	chunkSize = buffers.ChunkSize
)

var magic = []byte("AESC")

// ProgressFunc receives throttle-eligible progress callbacks. label names
// the operation instance; position is the count of input bytes consumed.
type ProgressFunc func(label string, position uint64)

// Extension is one plaintext (name, value) header field.
type Extension struct {
	Name  string
	Value string
}

// HeaderInfo is the parsed plaintext header of an encrypted stream.
type HeaderInfo struct {
	Version    byte
	Extensions []Extension
	Iterations uint32
}

var (
	errBadMagic   = errors.New("bad magic")
	errBadVersion = errors.New("unsupported version")
)

// deriveKeys stretches password into an encryption key and a MAC key.
func deriveKeys(password []byte, salt []byte, iterations uint32) (encKey, macKey []byte) {
	material := pbkdf2.Key(password, salt, int(iterations), 2*keySize, sha256.New)
	return material[:keySize], material[keySize:]
}

// buildHeader serializes the plaintext header.
func buildHeader(extensions []Extension, iterations uint32, salt, iv []byte) ([]byte, error) {
	if len(extensions) > 0xFFFF {
		return nil, fmt.Errorf("too many extensions: %d", len(extensions))
	}

	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(formatVersion)

	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], uint16(len(extensions)))
	buf.Write(u16[:])

	for _, ext := range extensions {
		if len(ext.Name) > 0xFFFF || len(ext.Value) > 0xFFFF {
			return nil, fmt.Errorf("extension %q exceeds field size limit", ext.Name)
		}
		binary.BigEndian.PutUint16(u16[:], uint16(len(ext.Name)))
		buf.Write(u16[:])
		buf.WriteString(ext.Name)
		binary.BigEndian.PutUint16(u16[:], uint16(len(ext.Value)))
		buf.Write(u16[:])
		buf.WriteString(ext.Value)
	}

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], iterations)
	buf.Write(u32[:])
	buf.Write(salt)
	buf.Write(iv)

	return buf.Bytes(), nil
}

// parseHeader reads and parses the plaintext header, returning the parsed
// fields, the salt and IV, and the raw header bytes (needed for the MAC).
func parseHeader(r io.Reader) (info *HeaderInfo, salt, iv, raw []byte, err error) {
	var buf bytes.Buffer
	tee := io.TeeReader(r, &buf)

	head := make([]byte, len(magic)+1+2)
	if _, err = io.ReadFull(tee, head); err != nil {
		return nil, nil, nil, nil, err
	}
	if !bytes.Equal(head[:len(magic)], magic) {
		return nil, nil, nil, nil, errBadMagic
	}
	ver := head[len(magic)]
	if ver != formatVersion {
		return nil, nil, nil, nil, errBadVersion
	}

	extCount := binary.BigEndian.Uint16(head[len(magic)+1:])
	info = &HeaderInfo{Version: ver}
	for i := 0; i < int(extCount); i++ {
		name, rerr := readField(tee)
		if rerr != nil {
			return nil, nil, nil, nil, rerr
		}
		value, rerr := readField(tee)
		if rerr != nil {
			return nil, nil, nil, nil, rerr
		}
		info.Extensions = append(info.Extensions, Extension{Name: name, Value: value})
	}

	tail := make([]byte, 4+saltSize+ivSize)
	if _, err = io.ReadFull(tee, tail); err != nil {
		return nil, nil, nil, nil, err
	}
	info.Iterations = binary.BigEndian.Uint32(tail)
	salt = tail[4 : 4+saltSize]
	iv = tail[4+saltSize:]

	return info, salt, iv, buf.Bytes(), nil
}

func readField(r io.Reader) (string, error) {
	var u16 [2]byte
	if _, err := io.ReadFull(r, u16[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(u16[:])
	field := make([]byte, n)
	if _, err := io.ReadFull(r, field); err != nil {
		return "", err
	}
	return string(field), nil
}

// ReadHeader parses just the plaintext header of an encrypted stream,
// without deriving keys or touching the ciphertext. Used to inspect
// extension fields such as CREATED_BY.
func ReadHeader(r io.Reader) (*HeaderInfo, error) {
	info, _, _, _, err := parseHeader(r)
	if err != nil {
		switch {
		case errors.Is(err, errBadMagic):
			return nil, errors.New("input is not a recognized encrypted stream")
		case errors.Is(err, errBadVersion):
			return nil, errors.New("encrypted stream version is not supported")
		default:
			return nil, err
		}
	}
	return info, nil
}
