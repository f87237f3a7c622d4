package stack

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLIFOOrder(t *testing.T) {
	buf, err := New(4)
	require.NoError(t, err)

	for _, v := range []int32{1, 2, 3, 4} {
		require.NoError(t, buf.Push(v))
	}

	for _, want := range []int32{4, 3, 2, 1} {
		v, ok := buf.Pop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}

	_, ok := buf.Pop()
	assert.False(t, ok, "buffer should be empty after draining")
}

func TestPushOverflow(t *testing.T) {
	buf, err := New(2)
	require.NoError(t, err)

	require.NoError(t, buf.Push(10))
	require.NoError(t, buf.Push(20))

	err = buf.Push(30)
	assert.ErrorIs(t, err, ErrOverflow)

	// Rejected push leaves the buffer untouched.
	assert.Equal(t, uint(2), buf.Capacity())
	assert.Equal(t, uint(2), buf.Usage())

	stats := buf.Stats()
	assert.Equal(t, uint64(2), stats.Pushes)
	assert.Equal(t, uint64(1), stats.Overflows)
}

func TestZeroCapacity(t *testing.T) {
	buf, err := New(0)
	require.NoError(t, err)

	assert.Equal(t, uint(0), buf.Capacity())
	assert.ErrorIs(t, buf.Push(1), ErrOverflow)

	_, ok := buf.Pop()
	assert.False(t, ok)
}

func TestAutoResize(t *testing.T) {
	t.Run("grows to minimum of 8 from zero", func(t *testing.T) {
		buf, err := New(0, WithAutoResize(true))
		require.NoError(t, err)

		require.NoError(t, buf.Push(1))
		assert.Equal(t, uint(8), buf.Capacity())
		assert.Equal(t, uint(1), buf.Usage())
	})

	t.Run("doubles when full", func(t *testing.T) {
		buf, err := New(8, WithAutoResize(true))
		require.NoError(t, err)

		for i := int32(0); i < 9; i++ {
			require.NoError(t, buf.Push(i))
		}
		assert.Equal(t, uint(16), buf.Capacity())
		assert.Equal(t, uint(9), buf.Usage())
	})

	t.Run("preserves order across growth", func(t *testing.T) {
		buf, err := New(2, WithAutoResize(true))
		require.NoError(t, err)

		for i := int32(1); i <= 10; i++ {
			require.NoError(t, buf.Push(i))
		}
		for want := int32(10); want >= 1; want-- {
			v, ok := buf.Pop()
			require.True(t, ok)
			assert.Equal(t, want, v)
		}
	})

	t.Run("exhaustion leaves prior state unchanged", func(t *testing.T) {
		failing := func(n uint) ([]int32, error) {
			if n > 2 {
				return nil, errors.New("out of memory")
			}
			return make([]int32, n), nil
		}
		buf, err := New(2, WithAutoResize(true), WithAllocator(failing))
		require.NoError(t, err)

		require.NoError(t, buf.Push(1))
		require.NoError(t, buf.Push(2))

		err = buf.Push(3)
		assert.ErrorIs(t, err, ErrExhausted)
		assert.Equal(t, uint(2), buf.Capacity())
		assert.Equal(t, uint(2), buf.Usage())

		stats := buf.Stats()
		assert.Equal(t, uint64(1), stats.Overflows)

		v, ok := buf.Pop()
		require.True(t, ok)
		assert.Equal(t, int32(2), v)
	})
}

func TestResize(t *testing.T) {
	t.Run("shrink truncates to bottom of stack", func(t *testing.T) {
		buf, err := New(5)
		require.NoError(t, err)
		for i := int32(1); i <= 5; i++ {
			require.NoError(t, buf.Push(i))
		}

		require.NoError(t, buf.Resize(2))
		assert.Equal(t, uint(2), buf.Capacity())
		assert.Equal(t, uint(2), buf.Usage())

		// The two oldest pushes survive, still in LIFO order.
		v, ok := buf.Pop()
		require.True(t, ok)
		assert.Equal(t, int32(2), v)
		v, ok = buf.Pop()
		require.True(t, ok)
		assert.Equal(t, int32(1), v)
	})

	t.Run("grow preserves contents", func(t *testing.T) {
		buf, err := New(2)
		require.NoError(t, err)
		require.NoError(t, buf.Push(7))
		require.NoError(t, buf.Push(8))

		require.NoError(t, buf.Resize(10))
		assert.Equal(t, uint(10), buf.Capacity())
		assert.Equal(t, uint(2), buf.Usage())

		v, ok := buf.Pop()
		require.True(t, ok)
		assert.Equal(t, int32(8), v)
	})

	t.Run("zero releases storage", func(t *testing.T) {
		buf, err := New(4)
		require.NoError(t, err)
		require.NoError(t, buf.Push(1))

		require.NoError(t, buf.Resize(0))
		assert.Equal(t, uint(0), buf.Capacity())
		assert.Equal(t, uint(0), buf.Usage())

		require.NoError(t, buf.Resize(3))
		assert.Equal(t, uint(3), buf.Capacity())
		assert.Equal(t, uint(0), buf.Usage())
		require.NoError(t, buf.Push(9))
	})

	t.Run("allocation failure rolls back", func(t *testing.T) {
		calls := 0
		flaky := func(n uint) ([]int32, error) {
			calls++
			if calls > 1 {
				return nil, errors.New("out of memory")
			}
			return make([]int32, n), nil
		}
		buf, err := New(3, WithAllocator(flaky))
		require.NoError(t, err)
		require.NoError(t, buf.Push(42))

		err = buf.Resize(100)
		assert.ErrorIs(t, err, ErrExhausted)
		assert.Equal(t, uint(3), buf.Capacity())
		assert.Equal(t, uint(1), buf.Usage())
	})

	t.Run("max capacity bound", func(t *testing.T) {
		buf, err := New(2, WithMaxCapacity(4))
		require.NoError(t, err)

		assert.NoError(t, buf.Resize(4))
		assert.ErrorIs(t, buf.Resize(5), ErrExhausted)
		assert.Equal(t, uint(4), buf.Capacity())
	})
}

func TestClear(t *testing.T) {
	buf, err := New(4)
	require.NoError(t, err)
	require.NoError(t, buf.Push(1))
	require.NoError(t, buf.Push(2))

	buf.Clear()
	assert.Equal(t, uint(0), buf.Usage())
	assert.Equal(t, uint(4), buf.Capacity())

	// Clear does not touch any counter.
	stats := buf.Stats()
	assert.Equal(t, uint64(2), stats.Pushes)
	assert.Equal(t, uint64(0), stats.Pops)
}

func TestUnderflowCounter(t *testing.T) {
	buf, err := New(2)
	require.NoError(t, err)

	_, ok := buf.Pop()
	assert.False(t, ok)
	_, ok = buf.Pop()
	assert.False(t, ok)

	stats := buf.Stats()
	assert.Equal(t, uint64(2), stats.Underflows)
	assert.Equal(t, uint64(0), stats.Pops)
}

func TestConcurrentPushes(t *testing.T) {
	const (
		capacity = 64
		workers  = 16
		perEach  = 32
	)

	buf, err := New(capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perEach; i++ {
				buf.Push(int32(w*perEach + i))
			}
		}(w)
	}
	wg.Wait()

	// Exactly capacity pushes succeed; everything else overflows.
	stats := buf.Stats()
	assert.Equal(t, uint64(capacity), stats.Pushes)
	assert.Equal(t, uint64(workers*perEach-capacity), stats.Overflows)
	assert.Equal(t, uint(capacity), buf.Usage())
}

func TestConcurrentMixedOps(t *testing.T) {
	buf, err := New(32)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				buf.Push(int32(i))
				buf.Pop()
				buf.Resize(uint(16 + i%32))
			}
		}()
	}
	wg.Wait()

	// Invariant: usage never exceeds capacity.
	assert.LessOrEqual(t, buf.Usage(), buf.Capacity())
}
