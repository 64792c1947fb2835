// Package region models the body-buffer allocator the codec consumes as an
// external collaborator.
//
// A RecordBatch or DictionaryBatch body is read into a ByteRegion obtained
// from an Allocator; every Buffer view the batch decoder hands back slices
// into that one region, read-only, without copying. The region is released
// exactly once, by whoever owns the batch at the point it is discarded.
//
// The codec never implements its own memory management beyond this
// interface: production callers with an existing arena or mmap strategy can
// supply their own Allocator. NewPoolAllocator and NewHeapAllocator below
// are ready-made implementations; every reader takes its Allocator as an
// explicit argument, so none is substituted when a caller passes nil.
package region

import (
	"sync"
	"sync/atomic"

	"github.com/colexch/ipc/errs"
)

// ByteRegion is a contiguous, read-only byte buffer shared by all buffer
// views decoded from it.
//
// ByteRegion is reference counted: Retain increments the count (used when a
// DictionaryBatch's embedded RecordBatch and the outer caller both need to
// keep the region alive independently), and Release decrements it, handing
// the backing memory back to the allocator once the count reaches zero.
type ByteRegion interface {
	// Bytes returns the region's contents. The returned slice must not be
	// modified, and must not be retained past a corresponding Release.
	Bytes() []byte

	// Retain increments the region's reference count.
	Retain()

	// Release decrements the region's reference count, returning the
	// backing memory to its allocator once the count reaches zero.
	// Calling Release more times than Retain (including the implicit
	// retain from Allocate) is reported as ErrAlreadyReleased rather than
	// panicking, since a caller racing a double-release is a bug this
	// package can surface cheaply.
	Release() error
}

// Allocator obtains and reclaims ByteRegions for batch bodies.
type Allocator interface {
	// Allocate returns a new ByteRegion of exactly n bytes, already retained once.
	Allocate(n int) (ByteRegion, error)
}

// pooledRegion is the default ByteRegion implementation, backed by a
// sync.Pool of reusable byte slices.
type pooledRegion struct {
	buf   []byte
	pool  *sync.Pool
	count int32
}

func (r *pooledRegion) Bytes() []byte { return r.buf }

func (r *pooledRegion) Retain() {
	atomic.AddInt32(&r.count, 1)
}

func (r *pooledRegion) Release() error {
	n := atomic.AddInt32(&r.count, -1)
	switch {
	case n > 0:
		return nil
	case n == 0:
		//nolint:staticcheck // intentionally returning a truncated slice to the pool
		r.pool.Put(r.buf[:0])
		return nil
	default:
		return errs.ErrAlreadyReleased
	}
}

// PoolAllocator is an Allocator implementation that reuses byte slices
// across batch decodes via sync.Pool, avoiding a fresh allocation for every
// streamed message in the common case of repeatedly-sized bodies. Slices
// are not rounded up to size classes: a pooled slice is reused when its
// capacity covers the request, and otherwise a slice of exactly n bytes is
// allocated.
type PoolAllocator struct {
	pool sync.Pool
}

// NewPoolAllocator creates an Allocator with no preallocated buffers; an
// Allocate finding no pooled slice large enough will allocate, and later
// Allocate calls no larger than a released slice's capacity may reuse it.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{
		pool: sync.Pool{
			New: func() any { return make([]byte, 0) },
		},
	}
}

// Allocate returns a ByteRegion of exactly n bytes, retained once.
func (a *PoolAllocator) Allocate(n int) (ByteRegion, error) {
	if n < 0 {
		return nil, errs.ErrOversizedBatch
	}

	buf, _ := a.pool.Get().([]byte)
	if cap(buf) < n {
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
		clear(buf)
	}

	return &pooledRegion{buf: buf, pool: &a.pool, count: 1}, nil
}

// heapRegion is a ByteRegion that simply owns a heap-allocated slice and
// releases it to the garbage collector, used by NewHeapAllocator for callers
// that do not want pooling (e.g. short-lived CLI tools, tests).
type heapRegion struct {
	buf   []byte
	count int32
}

func (r *heapRegion) Bytes() []byte { return r.buf }
func (r *heapRegion) Retain()       { atomic.AddInt32(&r.count, 1) }
func (r *heapRegion) Release() error {
	n := atomic.AddInt32(&r.count, -1)
	if n < 0 {
		return errs.ErrAlreadyReleased
	}

	return nil
}

// HeapAllocator is the simplest Allocator: every call to Allocate makes a
// fresh slice, and Release simply drops the reference.
type HeapAllocator struct{}

// NewHeapAllocator creates an Allocator with no pooling or reuse.
func NewHeapAllocator() HeapAllocator { return HeapAllocator{} }

// Allocate returns a freshly allocated ByteRegion of exactly n bytes.
func (HeapAllocator) Allocate(n int) (ByteRegion, error) {
	if n < 0 {
		return nil, errs.ErrOversizedBatch
	}

	return &heapRegion{buf: make([]byte, n), count: 1}, nil
}
