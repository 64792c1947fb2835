package region

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colexch/ipc/errs"
)

func TestPoolAllocatorAllocate(t *testing.T) {
	a := NewPoolAllocator()

	r, err := a.Allocate(16)
	require.NoError(t, err)
	require.Len(t, r.Bytes(), 16)

	require.NoError(t, r.Release())
	require.ErrorIs(t, r.Release(), errs.ErrAlreadyReleased)
}

func TestPoolAllocatorReusesBuffer(t *testing.T) {
	a := NewPoolAllocator()

	r1, err := a.Allocate(32)
	require.NoError(t, err)
	copy(r1.Bytes(), []byte("hello world, this is reused!!!!"))
	require.NoError(t, r1.Release())

	r2, err := a.Allocate(32)
	require.NoError(t, err)
	// a zeroed buffer is handed back regardless of reuse
	for _, b := range r2.Bytes() {
		require.Equal(t, byte(0), b)
	}
}

func TestPoolAllocatorNegativeSize(t *testing.T) {
	a := NewPoolAllocator()
	_, err := a.Allocate(-1)
	require.ErrorIs(t, err, errs.ErrOversizedBatch)
}

func TestByteRegionRetainRelease(t *testing.T) {
	a := NewPoolAllocator()
	r, err := a.Allocate(8)
	require.NoError(t, err)

	r.Retain()
	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
	require.ErrorIs(t, r.Release(), errs.ErrAlreadyReleased)
}

func TestHeapAllocator(t *testing.T) {
	a := NewHeapAllocator()

	r, err := a.Allocate(10)
	require.NoError(t, err)
	require.Len(t, r.Bytes(), 10)
	require.NoError(t, r.Release())

	_, err = a.Allocate(-5)
	require.ErrorIs(t, err, errs.ErrOversizedBatch)
}
