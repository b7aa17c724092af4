package geometry

import "sync"

// Handle identifies a shape held by an Arena. The zero Handle is never
// issued.
type Handle uint32

// Arena owns shapes on behalf of a single projector.
type Arena struct {
	mu     sync.RWMutex
	next   Handle
	shapes map[Handle]Shape
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{shapes: make(map[Handle]Shape)}
}

// Put stores a shape and returns its handle.
func (a *Arena) Put(s Shape) (Handle, error) {
	if s == nil {
		return 0, ErrNilShape
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.shapes[a.next] = s
	return a.next, nil
}

// Get returns the shape for a handle.
func (a *Arena) Get(h Handle) (Shape, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.shapes[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return s, nil
}

// Release drops a shape. Releasing an unknown handle is an error.
func (a *Arena) Release(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.shapes[h]; !ok {
		return ErrInvalidHandle
	}
	delete(a.shapes, h)
	return nil
}

// Clear releases every shape.
func (a *Arena) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shapes = make(map[Handle]Shape)
}

// Len reports how many shapes are held.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.shapes)
}
