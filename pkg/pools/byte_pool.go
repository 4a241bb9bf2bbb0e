package pools

// Byte buffer capacity classes. A snapshot record is 44 bytes per entity
// plus 36 per edge.
const (
	TinySize   = 256
	SmallSize  = 1024
	MediumSize = 4096
	LargeSize  = 16384
	HugeSize   = 65536
	MaxPool    = 1 << 20 // larger buffers are never kept
)

// BytePool recycles encode buffers by capacity class.
type BytePool struct {
	classes *classPool[byte]
}

// NewBytePool creates an empty byte pool
func NewBytePool() *BytePool {
	return &BytePool{
		classes: newClassPool[byte](TinySize, SmallSize, MediumSize, LargeSize, HugeSize),
	}
}

// Get returns a zero-length buffer with capacity of at least size.
func (p *BytePool) Get(size int) []byte {
	return p.classes.get(size)
}

// GetSized returns a buffer of length size. Its contents are not cleared.
func (p *BytePool) GetSized(size int) []byte {
	return p.Get(size)[:size]
}

// Put hands b back for reuse. b must not be used afterwards.
func (p *BytePool) Put(b []byte) {
	if cap(b) > MaxPool {
		return
	}
	p.classes.put(b)
}

var defaultBytePool = NewBytePool()

// GetBytes takes a buffer from the shared pool
func GetBytes(size int) []byte {
	return defaultBytePool.Get(size)
}

// GetBytesSized takes a buffer of length size from the shared pool
func GetBytesSized(size int) []byte {
	return defaultBytePool.GetSized(size)
}

// PutBytes returns a buffer to the shared pool
func PutBytes(b []byte) {
	defaultBytePool.Put(b)
}
