// Package window keeps the most recent telemetry rows for the dashboard.
package window

import (
	"context"
	"sync"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

const DefaultRollover = 300

// Sample is a row tagged with the window version it was written at.
type Sample struct {
	Version uint64 `json:"version"`
	telemetrics.Record
}

type entry struct {
	version uint64
	row     telemetrics.Row
}

// Window is a ring buffer of rows. Every write bumps the version, so a
// client can ask for everything newer than the last version it saw.
// It implements recorder.Sink.
type Window struct {
	mu       sync.RWMutex
	rollover int
	columns  []string
	buf      []entry
	start    int
	n        int
	version  uint64
}

func New(rollover int) *Window {
	if rollover <= 0 {
		rollover = DefaultRollover
	}
	return &Window{
		rollover: rollover,
		buf:      make([]entry, rollover),
	}
}

// Open sets the columns and drops any rows of a previous run. The version
// keeps counting.
func (w *Window) Open(ctx context.Context, columns []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.columns = append([]string(nil), columns...)
	w.start, w.n = 0, 0
	w.version++
	return nil
}

func (w *Window) Write(ctx context.Context, row telemetrics.Row) error {
	values := append([]float64(nil), row.Values...)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.version++
	e := entry{version: w.version, row: telemetrics.Row{CapturedAt: row.CapturedAt, Values: values}}
	if w.n < w.rollover {
		w.buf[(w.start+w.n)%w.rollover] = e
		w.n++
		return nil
	}
	w.buf[w.start] = e
	w.start = (w.start + 1) % w.rollover
	return nil
}

func (w *Window) Close() error {
	return nil
}

func (w *Window) Columns() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.columns...)
}

func (w *Window) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}

func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.n
}

func (w *Window) at(i int) entry {
	return w.buf[(w.start+i)%w.rollover]
}

func (w *Window) sample(e entry) Sample {
	return Sample{Version: e.version, Record: telemetrics.NewRecord("", w.columns, e.row)}
}

// Latest returns the newest row.
func (w *Window) Latest() (Sample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.n == 0 {
		return Sample{}, false
	}
	return w.sample(w.at(w.n - 1)), true
}

// Since returns the rows written after the given version, oldest first,
// and the window version they are current to.
func (w *Window) Since(version uint64) ([]Sample, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := []Sample{}
	for i := 0; i < w.n; i++ {
		e := w.at(i)
		if e.version > version {
			out = append(out, w.sample(e))
		}
	}
	return out, w.version
}

// Snapshot copies the whole window.
func (w *Window) Snapshot() ([]string, []telemetrics.Row, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rows := make([]telemetrics.Row, w.n)
	for i := range rows {
		rows[i] = w.at(i).row
	}
	return append([]string(nil), w.columns...), rows, w.version
}
