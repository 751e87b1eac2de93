// Package pool provides object pooling to reduce GC pressure
package pool

import (
	"sync"
)

// BufferPool pools byte buffers used to assemble scan haystacks
var BufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

// GetBuffer gets an empty buffer from pool
func GetBuffer() *[]byte {
	b := BufferPool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// PutBuffer returns a buffer to pool
func PutBuffer(b *[]byte) {
	// oversized buffers would pin memory for the rest of the run
	if cap(*b) > 64<<10 {
		return
	}
	BufferPool.Put(b)
}

// JoinWords appends words separated by single spaces to buf and returns it
func JoinWords(buf []byte, words []string) []byte {
	for i, w := range words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w...)
	}
	return buf
}
