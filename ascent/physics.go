package ascent

import (
	"errors"
	"fmt"
	"math"
)

var ErrNoThrust = errors.New("vessel has no usable thrust")

// GravityTurnAngle returns how far the vessel should be pitched over from
// vertical at the given altitude. It is only defined strictly inside the
// turn band; ok is false elsewhere.
func GravityTurnAngle(altitude float64, p Profile) (float64, bool) {
	if altitude <= p.TurnStartAltitude || altitude >= p.TurnEndAltitude {
		return 0, false
	}
	frac := (altitude - p.TurnStartAltitude) / (p.TurnEndAltitude - p.TurnStartAltitude)
	return frac*(p.TurnAngleEnd-p.TurnAngleStart) + p.TurnAngleStart, true
}

// VisVivaSpeed is the orbital speed at radius r on an orbit with
// semi-major axis a around a body with gravitational parameter mu.
func VisVivaSpeed(mu, r, a float64) float64 {
	return math.Sqrt(mu * ((2. / r) - (1. / a)))
}

// CircularizationDeltaV is the prograde delta-v needed at radius r to turn
// an orbit with semi-major axis a into a circular orbit of radius r.
func CircularizationDeltaV(mu, r, a float64) float64 {
	return VisVivaSpeed(mu, r, r) - VisVivaSpeed(mu, r, a)
}

// BurnTime uses the rocket equation to find how long a burn of deltaV
// takes at constant thrust. isp is in seconds, g0 converts it to an
// exhaust velocity.
func BurnTime(deltaV, thrust, isp, mass, g0 float64) (float64, error) {
	if thrust <= 0 || isp <= 0 {
		return 0, fmt.Errorf("%w: thrust=%g isp=%g", ErrNoThrust, thrust, isp)
	}
	if mass <= 0 {
		return 0, fmt.Errorf("invalid vessel mass %g", mass)
	}

	ve := isp * g0
	m1 := mass / math.Exp(deltaV/ve)
	flowRate := thrust / ve
	return (mass - m1) / flowRate, nil
}
