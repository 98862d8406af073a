package vstack_test

import (
	"testing"

	"github.com/hupe1980/vstack"
	"github.com/hupe1980/vstack/resource"
	"github.com/hupe1980/vstack/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	t.Run("stack", func(t *testing.T) {
		mc := &vstack.BasicMetricsCollector{}
		c := &testutil.Counter{FailCopyAt: 4}
		s, err := vstack.NewWithHooks(testutil.CountingHooks[int](c),
			vstack.WithScalePercent(100),
			vstack.WithMetricsCollector(mc),
		)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Push(i))
		}
		assert.Error(t, s.Push(3))
		require.NoError(t, s.Pop())
		assert.Error(t, s.Erase(5))
		require.NoError(t, s.Erase(2))

		stats := mc.GetStats()
		// 0 -> 1 -> 2 -> 4
		assert.Equal(t, int64(3), stats.GrowCount)
		assert.Equal(t, int64(0), stats.GrowErrors)
		assert.Equal(t, int64(4), stats.InsertCount)
		assert.Equal(t, int64(1), stats.InsertErrors)
		assert.Equal(t, int64(3), stats.RemoveCount)
		assert.Equal(t, int64(3), stats.RemovedItems)
		assert.Equal(t, int64(1), stats.RemoveErrors)
		assert.Equal(t, int64(4), stats.CopyCount)
		assert.Equal(t, int64(3), stats.DestroyCount)
		assert.Equal(t, int64(1), stats.HookErrors)

		require.NoError(t, s.Close())
	})

	t.Run("raw grow failure", func(t *testing.T) {
		mc := &vstack.BasicMetricsCollector{}
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 4})
		r, err := vstack.NewRaw(4,
			vstack.WithMemoryController(rc),
			vstack.WithMetricsCollector(mc),
		)
		require.NoError(t, err)
		defer r.Close()

		require.NoError(t, r.Push([]byte{1, 2, 3, 4}))
		assert.ErrorIs(t, r.Push([]byte{1, 2, 3, 4}), vstack.ErrOutOfMemory)

		stats := mc.GetStats()
		assert.Equal(t, int64(2), stats.GrowCount)
		assert.Equal(t, int64(1), stats.GrowErrors)
		assert.Equal(t, int64(2), stats.InsertCount)
		assert.Equal(t, int64(1), stats.InsertErrors)
		assert.GreaterOrEqual(t, stats.GrowAvgNanos, int64(0))
	})

	t.Run("empty", func(t *testing.T) {
		mc := &vstack.BasicMetricsCollector{}
		assert.Equal(t, vstack.BasicMetricsStats{}, mc.GetStats())
	})
}

func TestNilOptionsFallBack(t *testing.T) {
	s, err := vstack.New[int](vstack.WithLogger(nil), vstack.WithMetricsCollector(nil))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Push(1))

	r, err := vstack.NewRaw(1, vstack.WithAllocator(nil))
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Push([]byte{1}))
}
