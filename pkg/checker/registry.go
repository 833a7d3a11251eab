package checker

import (
	"errors"
	"fmt"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/convex"
)

// ErrUnknownHandle is returned for a handle that was never registered or
// has been released.
var ErrUnknownHandle = errors.New("unknown shape handle")

// Handle is an opaque reference to a shape held by a Registry. The zero
// Handle is never issued.
type Handle uint64

// Registry maps handles to shapes so callers that cannot hold Go values,
// such as a scripting layer, can address shapes by number.
type Registry struct {
	mu     sync.RWMutex
	next   Handle
	shapes map[Handle]convex.Convex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{shapes: make(map[Handle]convex.Convex)}
}

// Register stores c and returns its handle. c must pass convex.Validate.
func (r *Registry) Register(c convex.Convex) (Handle, error) {
	if err := convex.Validate(c); err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.shapes[r.next] = c
	return r.next, nil
}

// Release forgets h.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shapes[h]; !ok {
		return fmt.Errorf("release %d: %w", h, ErrUnknownHandle)
	}
	delete(r.shapes, h)
	return nil
}

// Lookup returns the shape behind h.
func (r *Registry) Lookup(h Handle) (convex.Convex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.shapes[h]
	if !ok {
		return nil, fmt.Errorf("lookup %d: %w", h, ErrUnknownHandle)
	}
	return c, nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

// Support is the handle form of the package level Support.
func (r *Registry) Support(h Handle, dir v3.Vec) (v3.Vec, error) {
	c, err := r.Lookup(h)
	if err != nil {
		return v3.Vec{}, err
	}
	return Support(c, dir), nil
}

// Center is the handle form of the package level Center.
func (r *Registry) Center(h Handle) (v3.Vec, error) {
	c, err := r.Lookup(h)
	if err != nil {
		return v3.Vec{}, err
	}
	return Center(c), nil
}

// Object is the handle form of the package level Object.
func (r *Registry) Object(h Handle) (ccd.Object, error) {
	c, err := r.Lookup(h)
	if err != nil {
		return ccd.Object{}, err
	}
	return Object(c), nil
}

// QueryHandles runs Query on the shapes behind h1 and h2. Unknown handles
// are an error rather than a false result.
func (c *Checker) QueryHandles(reg *Registry, q QueryType, r *Report, h1, h2 Handle, dmin float64) (bool, error) {
	c1, err := reg.Lookup(h1)
	if err != nil {
		return false, err
	}
	c2, err := reg.Lookup(h2)
	if err != nil {
		return false, err
	}
	return c.Query(q, r, c1, c2, dmin), nil
}
