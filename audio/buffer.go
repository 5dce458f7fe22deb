// Package audio buffers streamed audio chunks between ingestion and
// diarization submission.
package audio

import "sync"

// Buffer accumulates raw audio chunks for the whole recording. Chunks stay
// buffered across diarization runs so every run processes the full audio so
// far; only Reset discards them.
type Buffer struct {
	mu     sync.Mutex
	chunks [][]byte
	size   int
}

// NewBuffer creates an empty audio buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a chunk to the buffer. The chunk is copied so callers may
// reuse their slice.
func (b *Buffer) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	cp := make([]byte, len(chunk))
	copy(cp, chunk)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = append(b.chunks, cp)
	b.size += len(cp)
}

// Bytes concatenates all buffered chunks into one recording and returns it.
// The buffer is left untouched. Returns nil when the buffer is empty.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return nil
	}
	joined := make([]byte, 0, b.size)
	for _, c := range b.chunks {
		joined = append(joined, c...)
	}
	return joined
}

// Len returns the number of buffered chunks.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}

// Size returns the total number of buffered bytes.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Reset discards all buffered chunks.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
	b.size = 0
}
