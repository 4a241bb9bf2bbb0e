package pools

// DefaultSlabChunk is the number of values per slab chunk
const DefaultSlabChunk = 256

// Slab is a chunked arena. Pointers handed out by Alloc stay valid until
// Reset; after Reset the memory is reused by later Allocs. A Slab is not
// safe for concurrent use.
type Slab[T any] struct {
	chunks    [][]T
	chunkSize int
	chunk     int // index of the chunk being filled
	used      int // values used in chunks[chunk]
}

// NewSlab creates a slab that grows in chunks of chunkSize values.
func NewSlab[T any](chunkSize int) *Slab[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultSlabChunk
	}
	return &Slab[T]{chunkSize: chunkSize}
}

// Alloc returns a pointer to a zeroed T
func (s *Slab[T]) Alloc() *T {
	if s.chunkSize <= 0 {
		s.chunkSize = DefaultSlabChunk
	}
	if len(s.chunks) == 0 {
		s.chunks = append(s.chunks, make([]T, s.chunkSize))
	}
	if s.used == s.chunkSize {
		s.chunk++
		s.used = 0
		if s.chunk == len(s.chunks) {
			s.chunks = append(s.chunks, make([]T, s.chunkSize))
		}
	}

	v := &s.chunks[s.chunk][s.used]
	var zero T
	*v = zero
	s.used++
	return v
}

// Len returns the number of values allocated since the last Reset
func (s *Slab[T]) Len() int {
	if len(s.chunks) == 0 {
		return 0
	}
	return s.chunk*s.chunkSize + s.used
}

// Cap returns the number of values the slab can hand out without growing
func (s *Slab[T]) Cap() int {
	return len(s.chunks) * s.chunkSize
}

// Reset makes all memory available again. Previously returned pointers must
// no longer be used.
func (s *Slab[T]) Reset() {
	s.chunk = 0
	s.used = 0
}
