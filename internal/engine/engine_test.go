package engine

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIterations = 1000 // keep the KDF cheap in tests

func encryptBuffer(t *testing.T, plaintext, password []byte, exts []Extension) []byte {
	t.Helper()
	var enc Encryptor
	var out bytes.Buffer
	result := enc.Encrypt(password, testIterations, bytes.NewReader(plaintext), &out, exts, nil, 0)
	require.Equal(t, Success, result)
	return out.Bytes()
}

func TestRoundTrip(t *testing.T) {
	plaintext := make([]byte, 300_000) // spans several chunks
	_, err := rand.Read(plaintext)
	require.NoError(t, err)
	password := []byte("round trip password")

	encrypted := encryptBuffer(t, plaintext, password, nil)
	assert.NotContains(t, string(encrypted), string(plaintext[:64]))

	var dec Decryptor
	var restored bytes.Buffer
	result := dec.Decrypt(password, bytes.NewReader(encrypted), &restored, nil, 0)
	require.Equal(t, Success, result)
	assert.Equal(t, plaintext, restored.Bytes())
}

func TestRoundTripEmptyInput(t *testing.T) {
	encrypted := encryptBuffer(t, nil, []byte("pw"), nil)

	var dec Decryptor
	var restored bytes.Buffer
	result := dec.Decrypt([]byte("pw"), bytes.NewReader(encrypted), &restored, nil, 0)
	require.Equal(t, Success, result)
	assert.Empty(t, restored.Bytes())
}

func TestWrongPassword(t *testing.T) {
	encrypted := encryptBuffer(t, []byte("secret contents"), []byte("right"), nil)

	var dec Decryptor
	var out bytes.Buffer
	result := dec.Decrypt([]byte("wrong"), bytes.NewReader(encrypted), &out, nil, 0)
	assert.Equal(t, AuthenticationFailed, result)
}

func TestTamperedStream(t *testing.T) {
	encrypted := encryptBuffer(t, []byte("do not touch"), []byte("pw"), nil)
	encrypted[len(encrypted)-1] ^= 0x01

	var dec Decryptor
	var out bytes.Buffer
	result := dec.Decrypt([]byte("pw"), bytes.NewReader(encrypted), &out, nil, 0)
	assert.Equal(t, AuthenticationFailed, result)
}

func TestNotAnEncryptedStream(t *testing.T) {
	var dec Decryptor
	var out bytes.Buffer
	result := dec.Decrypt([]byte("pw"), bytes.NewReader([]byte("plain old text")), &out, nil, 0)
	assert.Equal(t, InvalidFormat, result)
}

func TestTruncatedStream(t *testing.T) {
	encrypted := encryptBuffer(t, []byte("short"), []byte("pw"), nil)

	var dec Decryptor
	var out bytes.Buffer
	// Cutting into the trailer leaves fewer ciphertext-plus-tag bytes than
	// a full tag, which is structurally invalid.
	result := dec.Decrypt([]byte("pw"), bytes.NewReader(encrypted[:len(encrypted)-tagSize-1]), &out, nil, 0)
	assert.Equal(t, InvalidFormat, result)

	// Cutting a single byte off the end keeps a plausible tag that fails
	// verification.
	result = dec.Decrypt([]byte("pw"), bytes.NewReader(encrypted[:len(encrypted)-1]), &out, nil, 0)
	assert.Equal(t, AuthenticationFailed, result)
}

func TestHeaderExtensions(t *testing.T) {
	exts := []Extension{
		{Name: "CREATED_BY", Value: "aescrypt-desktop 1.2.0"},
		{Name: "COMMENT", Value: "quarterly report"},
	}
	encrypted := encryptBuffer(t, []byte("payload"), []byte("pw"), exts)

	info, err := ReadHeader(bytes.NewReader(encrypted))
	require.NoError(t, err)
	assert.EqualValues(t, formatVersion, info.Version)
	assert.EqualValues(t, testIterations, info.Iterations)
	assert.Equal(t, exts, info.Extensions)
}

func TestCancelBeforeRun(t *testing.T) {
	var enc Encryptor
	enc.Cancel()

	var out bytes.Buffer
	result := enc.Encrypt([]byte("pw"), testIterations, bytes.NewReader([]byte("data")), &out, nil, nil, 0)
	assert.Equal(t, Cancelled, result)

	var dec Decryptor
	dec.Cancel()
	encrypted := encryptBuffer(t, []byte("data"), []byte("pw"), nil)
	result = dec.Decrypt([]byte("pw"), bytes.NewReader(encrypted), &out, nil, 0)
	assert.Equal(t, Cancelled, result)
}

func TestInvalidRequests(t *testing.T) {
	var enc Encryptor
	var out bytes.Buffer
	assert.Equal(t, InvalidRequest, enc.Encrypt(nil, testIterations, bytes.NewReader(nil), &out, nil, nil, 0))
	assert.Equal(t, InvalidRequest, enc.Encrypt([]byte("pw"), 0, bytes.NewReader(nil), &out, nil, nil, 0))

	var dec Decryptor
	assert.Equal(t, InvalidRequest, dec.Decrypt(nil, bytes.NewReader(nil), &out, nil, 0))
}

func TestProgressPositions(t *testing.T) {
	plaintext := make([]byte, 200_000)
	password := []byte("pw")

	var positions []uint64
	record := func(_ string, position uint64) {
		positions = append(positions, position)
	}

	var enc Encryptor
	var out bytes.Buffer
	result := enc.Encrypt(password, testIterations, bytes.NewReader(plaintext), &out, nil, record, 0)
	require.Equal(t, Success, result)

	require.NotEmpty(t, positions)
	for i := 1; i < len(positions); i++ {
		assert.GreaterOrEqual(t, positions[i], positions[i-1])
	}
	assert.EqualValues(t, len(plaintext), positions[len(positions)-1])

	// An interval larger than the stream suppresses everything except the
	// guaranteed terminal callback.
	positions = nil
	var enc2 Encryptor
	out.Reset()
	result = enc2.Encrypt(password, testIterations, bytes.NewReader(plaintext), &out, nil, record, ^uint64(0))
	require.Equal(t, Success, result)
	require.Len(t, positions, 1)
	assert.EqualValues(t, len(plaintext), positions[0])
}

func TestDecryptFinalPositionIsInputSize(t *testing.T) {
	encrypted := encryptBuffer(t, make([]byte, 150_000), []byte("pw"), nil)

	var last uint64
	record := func(_ string, position uint64) { last = position }

	var dec Decryptor
	var out bytes.Buffer
	result := dec.Decrypt([]byte("pw"), bytes.NewReader(encrypted), &out, record, 0)
	require.Equal(t, Success, result)
	assert.EqualValues(t, len(encrypted), last)
}
