// Package buffers provides reusable byte buffers for the streaming
// transform, reducing GC pressure when batches carry many files.
package buffers

import (
	"sync"
	"sync/atomic"
)

// ChunkSize is the streaming transform's read granularity (64 KB).
const ChunkSize = 64 * 1024

var allocations atomic.Int64

var chunkPool = &sync.Pool{
	New: func() interface{} {
		allocations.Add(1)
		buf := make([]byte, ChunkSize)
		return &buf
	},
}

// GetChunk retrieves a ChunkSize buffer from the pool. Return it with
// PutChunk when done.
//
// Usage:
//
//	buf := buffers.GetChunk()
//	defer buffers.PutChunk(buf)
//	n, err := reader.Read(*buf)
//	// Use (*buf)[:n] for actual data
func GetChunk() *[]byte {
	return chunkPool.Get().(*[]byte)
}

// PutChunk returns a buffer to the pool for reuse. The buffer is cleared
// first so plaintext never persists across uses, and buffers of the wrong
// size are discarded.
func PutChunk(buf *[]byte) {
	if buf != nil && len(*buf) == ChunkSize {
		clear(*buf)
		chunkPool.Put(buf)
	}
}

// Allocations returns how many fresh chunk buffers have been created,
// useful when tuning batch memory behavior.
func Allocations() int64 {
	return allocations.Load()
}
