package engine

import "io"

// Operation is one encrypt-or-decrypt transform over a single stream pair.
// Run blocks until the transform finishes; Cancel is safe from any other
// goroutine and causes Run to return Cancelled promptly and voluntarily.
type Operation interface {
	Run(in io.Reader, out io.Writer, progress ProgressFunc, interval uint64) Result
	Cancel()
}

// EncryptOperation binds an Encryptor to its per-file parameters.
type EncryptOperation struct {
	enc        Encryptor
	password   []byte
	iterations uint32
	extensions []Extension
}

// NewEncrypt creates an encrypt operation. The password slice is borrowed,
// not copied; the caller retains ownership and wipes it.
func NewEncrypt(password []byte, iterations uint32, extensions []Extension) *EncryptOperation {
	return &EncryptOperation{
		password:   password,
		iterations: iterations,
		extensions: extensions,
	}
}

func (o *EncryptOperation) Run(in io.Reader, out io.Writer, progress ProgressFunc, interval uint64) Result {
	return o.enc.Encrypt(o.password, o.iterations, in, out, o.extensions, progress, interval)
}

func (o *EncryptOperation) Cancel() {
	o.enc.Cancel()
}

// DecryptOperation binds a Decryptor to its per-file parameters.
type DecryptOperation struct {
	dec      Decryptor
	password []byte
}

// NewDecrypt creates a decrypt operation. The password slice is borrowed,
// not copied; the caller retains ownership and wipes it.
func NewDecrypt(password []byte) *DecryptOperation {
	return &DecryptOperation{password: password}
}

func (o *DecryptOperation) Run(in io.Reader, out io.Writer, progress ProgressFunc, interval uint64) Result {
	return o.dec.Decrypt(o.password, in, out, progress, interval)
}

func (o *DecryptOperation) Cancel() {
	o.dec.Cancel()
}
