package ascent

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	kerbinMu     = 3.5316e12
	kerbinRadius = 600000.0
)

func TestGravityTurnAngle(t *testing.T) {
	p := DefaultProfile()

	_, ok := GravityTurnAngle(p.TurnStartAltitude, p)
	assert.False(t, ok, "start of the band is excluded")
	_, ok = GravityTurnAngle(p.TurnEndAltitude, p)
	assert.False(t, ok, "end of the band is excluded")
	_, ok = GravityTurnAngle(100, p)
	assert.False(t, ok)

	mid := (p.TurnStartAltitude + p.TurnEndAltitude) / 2
	angle, ok := GravityTurnAngle(mid, p)
	require.True(t, ok)
	assert.True(t, scalar.EqualWithinAbs(angle, (p.TurnAngleStart+p.TurnAngleEnd)/2, 1e-9))

	low, _ := GravityTurnAngle(1000, p)
	high, _ := GravityTurnAngle(60000, p)
	assert.Less(t, low, high)
	assert.Greater(t, low, p.TurnAngleStart)
	assert.Less(t, high, p.TurnAngleEnd)
}

func TestVisVivaSpeed(t *testing.T) {
	r := kerbinRadius + 80000

	// circular orbit: v = sqrt(mu/r)
	circular := VisVivaSpeed(kerbinMu, r, r)
	assert.True(t, scalar.EqualWithinAbs(circular, math.Sqrt(kerbinMu/r), 1e-9))
	assert.InDelta(t, 2278.9, circular, 0.1)
}

func TestCircularizationDeltaV(t *testing.T) {
	r := kerbinRadius + 80000

	assert.True(t, scalar.EqualWithinAbs(CircularizationDeltaV(kerbinMu, r, r), 0, 1e-9))

	// suborbital trajectory with apoapsis at r and periapsis inside Kerbin
	a := (r + kerbinRadius - 200000) / 2
	dv := CircularizationDeltaV(kerbinMu, r, a)
	assert.Greater(t, dv, 0.0)
	assert.True(t, scalar.EqualWithinAbs(VisVivaSpeed(kerbinMu, r, a)+dv, VisVivaSpeed(kerbinMu, r, r), 1e-9))
}

func TestBurnTime(t *testing.T) {
	const (
		thrust = 60000.0
		isp    = 320.0
		mass   = 5000.0
		g0     = 9.82
	)

	dv := 950.0
	duration, err := BurnTime(dv, thrust, isp, mass, g0)
	require.NoError(t, err)

	// the propellant burnt in that time must give back the same delta-v
	ve := isp * g0
	burnt := thrust / ve * duration
	assert.True(t, scalar.EqualWithinAbs(ve*math.Log(mass/(mass-burnt)), dv, 1e-6))

	zero, err := BurnTime(0, thrust, isp, mass, g0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)
}

func TestBurnTime_Errors(t *testing.T) {
	_, err := BurnTime(100, 0, 320, 5000, 9.82)
	assert.True(t, errors.Is(err, ErrNoThrust))

	_, err = BurnTime(100, 1000, 0, 5000, 9.82)
	assert.True(t, errors.Is(err, ErrNoThrust))

	_, err = BurnTime(100, 1000, 320, 0, 9.82)
	assert.Error(t, err)
}
