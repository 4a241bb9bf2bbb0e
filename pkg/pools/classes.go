package pools

import "sync"

// classPool keeps one sync.Pool per capacity class. Slices are always
// stored at their class capacity, so any slice taken from class i can
// hold classes[i] elements.
type classPool[T any] struct {
	classes []int
	pools   []sync.Pool
}

func newClassPool[T any](classes ...int) *classPool[T] {
	p := &classPool[T]{
		classes: classes,
		pools:   make([]sync.Pool, len(classes)),
	}
	for i, c := range classes {
		c := c
		p.pools[i].New = func() any {
			s := make([]T, 0, c)
			return &s
		}
	}
	return p
}

// class returns the smallest class holding n elements, or -1
func (p *classPool[T]) class(n int) int {
	for i, c := range p.classes {
		if n <= c {
			return i
		}
	}
	return -1
}

// get returns an empty slice with capacity for at least n elements
func (p *classPool[T]) get(n int) []T {
	i := p.class(n)
	if i < 0 {
		return make([]T, 0, n)
	}
	sp, ok := p.pools[i].Get().(*[]T)
	if !ok || cap(*sp) < n {
		return make([]T, 0, p.classes[i])
	}
	return (*sp)[:0]
}

// put files s under the largest class it can serve. Slices below the
// smallest class or above the largest are dropped.
func (p *classPool[T]) put(s []T) {
	c := cap(s)
	for i := len(p.classes) - 1; i >= 0; i-- {
		if c >= p.classes[i] {
			if i == len(p.classes)-1 && c > p.classes[i] {
				return
			}
			s = s[:0]
			p.pools[i].Put(&s)
			return
		}
	}
}
