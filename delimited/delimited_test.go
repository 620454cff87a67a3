package delimited

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

func TestWriter_MinimalQuoting(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write([]string{"ut", "mean altitude", "a|b", "line\nbreak"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "ut |mean altitude| |a||b| |line\nbreak|\n", buf.String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1200000", FormatFloat(1200000))
	assert.Equal(t, "0.1", FormatFloat(0.1))
	assert.Equal(t, "-12.75", FormatFloat(-12.75))
	assert.Equal(t, "NaN", FormatFloat(math.NaN()))
}

func TestReader_RoundTrip(t *testing.T) {
	records := [][]string{
		{"ut", "mean altitude", "a|b"},
		{"1", "", "line\nbreak"},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	for _, want := range records {
		got, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReader_UnterminatedQuote(t *testing.T) {
	_, err := NewReader(strings.NewReader("a |b c\n")).Read()
	assert.True(t, errors.Is(err, ErrUnterminatedQuote))
}

func TestReadLog(t *testing.T) {
	in := "ut mean_altitude apoapsis_altitude\n" +
		"100 10.5 2000\n" +
		"\n" +
		"101 20.25 4000\n"

	l, err := ReadLog(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"ut", "mean_altitude", "apoapsis_altitude"}, l.Columns)
	assert.Equal(t, [][]float64{{100, 10.5, 2000}, {101, 20.25, 4000}}, l.Rows)

	alt, ok := l.Column("mean_altitude")
	assert.True(t, ok)
	assert.Equal(t, []float64{10.5, 20.25}, alt)

	_, ok = l.Column("thrust")
	assert.False(t, ok)
}

func TestReadLog_Errors(t *testing.T) {
	_, err := ReadLog(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadLog(strings.NewReader("a b\n1\n"))
	assert.Error(t, err)

	_, err = ReadLog(strings.NewReader("a b\n1 x\n"))
	assert.Error(t, err)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.log")
	sink := NewFileSink(path)
	ctx := context.Background()

	require.NoError(t, sink.Open(ctx, []string{"ut", "thrust"}))
	require.NoError(t, sink.Write(ctx, telemetrics.Row{CapturedAt: time.Now(), Values: []float64{1, 215.5}}))

	// rows are flushed immediately
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ut thrust\n1 215.5\n", string(data))

	require.NoError(t, sink.Write(ctx, telemetrics.Row{Values: []float64{2, 0}}))
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	l, err := ReadLog(f)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 215.5}, {2, 0}}, l.Rows)
}
