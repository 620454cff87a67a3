package window

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

func row(v float64) telemetrics.Row {
	return telemetrics.Row{CapturedAt: time.UnixMilli(int64(v * 1000)), Values: []float64{v, v * 2}}
}

func TestWindow_Empty(t *testing.T) {
	w := New(0)
	assert.Equal(t, DefaultRollover, w.rollover)

	_, ok := w.Latest()
	assert.False(t, ok)
	empty, version := w.Since(0)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
	assert.Equal(t, uint64(0), version)

	columns, rows, version := w.Snapshot()
	assert.Empty(t, columns)
	assert.Empty(t, rows)
	assert.Equal(t, uint64(0), version)
}

func TestWindow_Rollover(t *testing.T) {
	ctx := context.Background()
	w := New(3)
	require.NoError(t, w.Open(ctx, []string{"ut", "pitch"}))
	openVersion := w.Version()

	for i := 1; i <= 5; i++ {
		require.NoError(t, w.Write(ctx, row(float64(i))))
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, openVersion+5, w.Version())

	_, rows, _ := w.Snapshot()
	require.Len(t, rows, 3)
	assert.Equal(t, 3.0, rows[0].Values[0])
	assert.Equal(t, 5.0, rows[2].Values[0])

	latest, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, w.Version(), latest.Version)
	assert.Equal(t, map[string]float64{"ut": 5, "pitch": 10}, latest.Values)
	assert.Equal(t, int64(5000), latest.CapturedAt)
}

func TestWindow_Since(t *testing.T) {
	ctx := context.Background()
	w := New(10)
	require.NoError(t, w.Open(ctx, []string{"ut", "pitch"}))

	for i := 1; i <= 4; i++ {
		require.NoError(t, w.Write(ctx, row(float64(i))))
	}
	all, version := w.Since(0)
	require.Len(t, all, 4)
	assert.Equal(t, all[3].Version, version)

	newer, _ := w.Since(all[1].Version)
	require.Len(t, newer, 2)
	assert.Equal(t, 3.0, newer[0].Values["ut"])
	assert.Equal(t, 4.0, newer[1].Values["ut"])

	rest, _ := w.Since(w.Version())
	assert.Empty(t, rest)
}

func TestWindow_SinceDeliversEachRowOnce(t *testing.T) {
	ctx := context.Background()
	w := New(1000)
	require.NoError(t, w.Open(ctx, []string{"ut", "pitch"}))
	const total = 200

	go func() {
		for i := 1; i <= total; i++ {
			_ = w.Write(ctx, row(float64(i)))
		}
	}()

	seen := map[uint64]int{}
	var last uint64
	require.Eventually(t, func() bool {
		rows, version := w.Since(last)
		for _, r := range rows {
			seen[r.Version]++
		}
		last = version
		return len(seen) == total
	}, 5*time.Second, time.Millisecond)

	for v, n := range seen {
		assert.Equal(t, 1, n, "version %d", v)
	}
}

func TestWindow_WriteCopiesValues(t *testing.T) {
	ctx := context.Background()
	w := New(2)
	require.NoError(t, w.Open(ctx, []string{"ut", "pitch"}))

	r := row(1)
	require.NoError(t, w.Write(ctx, r))
	r.Values[0] = 99

	latest, _ := w.Latest()
	assert.Equal(t, 1.0, latest.Values["ut"])
}

func TestWindow_ReopenKeepsVersionMonotonic(t *testing.T) {
	ctx := context.Background()
	w := New(2)
	require.NoError(t, w.Open(ctx, []string{"ut"}))
	require.NoError(t, w.Write(ctx, telemetrics.Row{Values: []float64{1}}))
	before := w.Version()

	require.NoError(t, w.Open(ctx, []string{"met"}))
	assert.Greater(t, w.Version(), before)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, []string{"met"}, w.Columns())
}

func TestWindow_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	w := New(50)
	require.NoError(t, w.Open(ctx, []string{"ut", "pitch"}))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = w.Write(ctx, row(float64(i)))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				w.Since(0)
				w.Latest()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, w.Len())
}
