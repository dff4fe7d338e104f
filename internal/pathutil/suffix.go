// Package pathutil provides filename and path helpers for encrypted files.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix is the reserved extension for encrypted files.
const DefaultSuffix = ".aes"

// HasEncryptedSuffix reports whether name ends with the reserved suffix.
// The comparison is case-insensitive, so "DOC.AES" counts.
func HasEncryptedSuffix(name, suffix string) bool {
	if len(name) <= len(suffix) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

// EncryptedName returns the output path for encrypting in: the input path
// with the suffix appended.
func EncryptedName(in, suffix string) string {
	return in + suffix
}

// DecryptedName returns the output path for decrypting in: the input path
// with the suffix stripped. ok is false when in does not carry the suffix.
func DecryptedName(in, suffix string) (out string, ok bool) {
	if !HasEncryptedSuffix(in, suffix) {
		return "", false
	}
	return in[:len(in)-len(suffix)], true
}

// ResolveAbsolute converts path to an absolute path, expanding a leading ~
// to the user's home directory. Submitted batches always carry absolute
// paths so workers are independent of the host's working directory.
func ResolveAbsolute(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}

	return filepath.Abs(path)
}
