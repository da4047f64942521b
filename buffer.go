package flexlog

import (
	"io"
	"sync"
)

// Pooled scratch buffers for encoders. Modeled directly on the teacher's
// sync.Pool-backed buffer type: a []byte with helper methods instead of free
// functions, so render steps read naturally as method calls.

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 512)
		return (*buffer)(&b)
	},
}

type buffer []byte

func newBuffer() *buffer {
	return bufPool.Get().(*buffer)
}

// Release returns modestly sized buffers to the pool and leaks large ones,
// so one giant event doesn't permanently bloat the pool.
func (b *buffer) Release() {
	const maxSz = 64 << 10
	if b == nil {
		return
	}
	if cap(*b) <= maxSz {
		*b = (*b)[:0]
		bufPool.Put(b)
	}
}

func (b *buffer) Reset() { *b = (*b)[:0] }

func (b *buffer) Len() int { return len(*b) }

func (b *buffer) Bytes() []byte { return *b }

func (b *buffer) String() string { return string(*b) }

var (
	_ io.Writer       = (*buffer)(nil)
	_ io.StringWriter = (*buffer)(nil)
	_ io.ByteWriter   = (*buffer)(nil)
)

func (b *buffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}

func (b *buffer) WriteString(s string) (int, error) {
	*b = append(*b, s...)
	return len(s), nil
}

func (b *buffer) WriteByte(c byte) error {
	*b = append(*b, c)
	return nil
}
