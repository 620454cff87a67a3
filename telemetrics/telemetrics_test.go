package telemetrics

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinder serves fixed values keyed by "category.attribute".
type fakeBinder struct {
	values map[string]Value
	bound  []string
}

func (b *fakeBinder) Bind(category Category, attribute string) (Stream, error) {
	key := string(category) + "." + attribute
	b.bound = append(b.bound, key)
	if _, ok := b.values[key]; !ok {
		b.values[key] = Scalar(1)
	}
	return func() (Value, error) { return b.values[key], nil }, nil
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{values: map[string]Value{
		"space_center.ut":      Scalar(1000.5),
		"flight.velocity":      Tuple(1, 2, 3),
		"flight.mean_altitude": Scalar(75000),
		"flight.speed":         Scalar(2200),
		"orbit.speed":          Scalar(2250),
	}}
}

func TestNewLoggable_ExpandsTuples(t *testing.T) {
	b := newFakeBinder()

	l, err := NewLoggable("flight", Flight, []string{"mean_altitude", "velocity"}, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"flight_mean_altitude", "flight_velocity_0", "flight_velocity_1", "flight_velocity_2"}, l.Columns())

	line, err := l.Update()
	require.NoError(t, err)
	assert.Equal(t, []float64{75000, 1, 2, 3}, line)
}

func TestNewLoggable_UnknownAttribute(t *testing.T) {
	_, err := NewLoggable("flight", Flight, []string{"warp_factor"}, newFakeBinder())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAttribute))
}

func TestLoggable_UpdateDetectsWidthChange(t *testing.T) {
	b := newFakeBinder()
	l, err := NewLoggable("", Flight, []string{"velocity"}, b)
	require.NoError(t, err)

	b.values["flight.velocity"] = Tuple(1, 2)
	_, err = l.Update()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnMismatch))
}

func TestNewFrame_ShortAndQualifiedHeaders(t *testing.T) {
	items := Items{
		{Category: SpaceCenter, Attributes: []string{"ut"}},
		{Category: Flight, Attributes: []string{"mean_altitude", "speed"}},
	}

	short, err := NewFrame(items, HeaderShort, newFakeBinder())
	require.NoError(t, err)
	assert.Equal(t, []string{"ut", "mean_altitude", "speed"}, short.Columns())

	qualified, err := NewFrame(items, HeaderQualified, newFakeBinder())
	require.NoError(t, err)
	assert.Equal(t, []string{"space_center_ut", "flight_mean_altitude", "flight_speed"}, qualified.Columns())

	now := time.Unix(1700000000, 0)
	qualified.now = func() time.Time { return now }
	row, err := qualified.Update()
	require.NoError(t, err)
	assert.Equal(t, now, row.CapturedAt)
	assert.Equal(t, []float64{1000.5, 75000, 2200}, row.Values)
}

func TestNewFrame_RejectsDuplicateColumns(t *testing.T) {
	items := Items{
		{Category: Flight, Attributes: []string{"speed"}},
		{Category: Orbit, Attributes: []string{"speed"}},
	}

	_, err := NewFrame(items, HeaderShort, newFakeBinder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")

	f, err := NewFrame(items, HeaderQualified, newFakeBinder())
	require.NoError(t, err)
	assert.Equal(t, []string{"flight_speed", "orbit_speed"}, f.Columns())
}

func TestItemsValidate(t *testing.T) {
	assert.NoError(t, DefaultItems().Validate())
	assert.Error(t, Items{}.Validate())
	assert.Error(t, Items{{Category: Flight}}.Validate())

	err := Items{{Category: "warp_drive", Attributes: []string{"x"}}}.Validate()
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestLookup_Resource(t *testing.T) {
	spec, err := Lookup(Resource, "LiquidFuel.amount")
	require.NoError(t, err)
	assert.Equal(t, "amount", spec.Name)

	_, err = Lookup(Resource, "amount")
	assert.True(t, errors.Is(err, ErrUnknownAttribute))

	name, attr, ok := SplitResource("SolidFuel.max")
	assert.True(t, ok)
	assert.Equal(t, "SolidFuel", name)
	assert.Equal(t, "max", attr)
}

func TestCatalogCoversEveryCategory(t *testing.T) {
	for _, c := range Categories() {
		specs, err := Attributes(c)
		require.NoError(t, err, c)
		assert.NotEmpty(t, specs, c)
		for _, spec := range specs {
			assert.GreaterOrEqual(t, spec.Arity, 1, "%s.%s", c, spec.Name)
		}
	}
}

func TestLoadLogConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	content := `
qualified_header: true
log_items:
  - category: space_center
    attributes: [ut]
  - category: orbit
    attributes: [apoapsis_altitude, periapsis_altitude]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadLogConfig(path)
	require.NoError(t, err)
	assert.Equal(t, HeaderQualified, cfg.HeaderStyle())
	require.Len(t, cfg.Items, 2)
	assert.Equal(t, SpaceCenter, cfg.Items[0].Category)
	assert.Equal(t, []string{"apoapsis_altitude", "periapsis_altitude"}, cfg.Items[1].Attributes)
}

func TestLoadLogConfig_DefaultsAndErrors(t *testing.T) {
	cfg, err := LoadLogConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultItems(), cfg.Items)
	assert.Equal(t, HeaderShort, cfg.HeaderStyle())

	_, err = LoadLogConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_items:\n  - category: flight\n    attributes: [warp]\n"), 0644))
	_, err = LoadLogConfig(bad)
	assert.True(t, errors.Is(err, ErrUnknownAttribute))
}

func TestNewRecord_SkipsNonFinite(t *testing.T) {
	row := Row{CapturedAt: time.UnixMilli(1234), Values: []float64{1, math.NaN(), math.Inf(1)}}

	rec := NewRecord("s1", []string{"a", "b", "c"}, row)
	assert.Equal(t, "s1", rec.Session)
	assert.Equal(t, int64(1234), rec.CapturedAt)
	assert.Equal(t, map[string]float64{"a": 1}, rec.Values)
}
