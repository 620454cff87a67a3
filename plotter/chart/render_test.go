package chart

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/ksp-telemetry/delimited"
)

func launchLog(columns ...string) *delimited.Log {
	log := &delimited.Log{Columns: columns}
	for i := 0; i < 20; i++ {
		row := make([]float64, len(columns))
		for j := range row {
			row[j] = float64(i * (j + 1))
		}
		log.Rows = append(log.Rows, row)
	}
	return log
}

func TestRender(t *testing.T) {
	log := launchLog("ut", "thrust", "mean_altitude", "angle_of_attack", "pitch",
		"apoapsis_altitude", "periapsis_altitude")

	var buf bytes.Buffer
	require.NoError(t, Render(log, DefaultPanels, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestRender_QualifiedAndMissingColumns(t *testing.T) {
	log := launchLog("space_center_ut", "vessel_thrust", "flight_pitch")
	log.Rows[3][1] = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, Render(log, DefaultPanels, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRender_NoTime(t *testing.T) {
	var buf bytes.Buffer
	err := Render(launchLog("thrust"), DefaultPanels, &buf)
	assert.EqualError(t, err, "log has no ut column")
}

func TestResolve(t *testing.T) {
	log := launchLog("space_center_ut", "orbit_apoapsis_altitude")

	_, name, ok := resolve(log, "ut")
	require.True(t, ok)
	assert.Equal(t, "space_center_ut", name)

	_, name, ok = resolve(log, "apoapsis_altitude")
	require.True(t, ok)
	assert.Equal(t, "orbit_apoapsis_altitude", name)

	_, _, ok = resolve(log, "thrust")
	assert.False(t, ok)
}

func TestPointsSkipsNonFinite(t *testing.T) {
	xys := points([]float64{0, 1, 2, 3}, []float64{1, math.NaN(), math.Inf(1), 4})
	require.Len(t, xys, 2)
	assert.Equal(t, 3.0, xys[1].X)
}
