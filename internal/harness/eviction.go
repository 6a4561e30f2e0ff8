package harness

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

const (
	// AssumedLLCSize is the last-level cache capacity the eviction buffer is
	// sized against.
	AssumedLLCSize = 64 * 1024 * 1024
	// EvictionFactor multiplies AssumedLLCSize to get the buffer size.
	EvictionFactor = 2
	// DefaultEvictionSize is the default eviction buffer size in bytes.
	DefaultEvictionSize = AssumedLLCSize * EvictionFactor
)

// scanSink receives the result of every scan so the reads cannot be
// optimized away.
var scanSink byte

// EvictionBuffer is priming data created once on first use and never
// written afterwards.
type EvictionBuffer struct {
	once  sync.Once
	ready atomic.Bool
	size  int
	data  []byte
}

// NewEvictionBuffer returns a buffer of size bytes that is allocated and
// filled on first use.
func NewEvictionBuffer(size int) *EvictionBuffer {
	return &EvictionBuffer{size: size}
}

// NewEvictionBufferFrom wraps existing data. The caller must not modify it
// afterwards.
func NewEvictionBufferFrom(data []byte) *EvictionBuffer {
	b := &EvictionBuffer{size: len(data), data: data}
	b.once.Do(func() { b.ready.Store(true) })
	return b
}

// Bytes returns the buffer contents, creating them if needed.
func (b *EvictionBuffer) Bytes() []byte {
	b.once.Do(func() {
		var seed [32]byte
		for i := 0; i < len(seed); i += 8 {
			v := rand.Uint64()
			for j := 0; j < 8; j++ {
				seed[i+j] = byte(v >> (8 * j))
			}
		}
		b.data = make([]byte, b.size)
		_, _ = rand.NewChaCha8(seed).Read(b.data)
		b.ready.Store(true)
	})
	return b.data
}

// Ready reports whether the buffer has been created.
func (b *EvictionBuffer) Ready() bool {
	return b.ready.Load()
}

// Size returns the buffer size in bytes.
func (b *EvictionBuffer) Size() int {
	return b.size
}

// scan reads every byte of the buffer.
func (b *EvictionBuffer) scan() {
	var acc byte
	for _, v := range b.Bytes() {
		acc ^= v
	}
	scanSink = acc
}
