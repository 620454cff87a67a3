package ascent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/yaron8/ksp-telemetry/logi"
)

// Burn is the planned circularization burn.
type Burn struct {
	DeltaV   float64
	Duration float64
	UT       float64
}

// Autopilot flies the scripted ascent: gravity turn, apoapsis raise,
// coast out of the atmosphere and a circularization burn at apoapsis.
type Autopilot struct {
	vessel  Vessel
	profile Profile
	out     io.Writer
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error

	turnAngle     float64
	srbsSeparated bool
}

func NewAutopilot(vessel Vessel, profile Profile) *Autopilot {
	return &Autopilot{
		vessel:  vessel,
		profile: profile,
		out:     os.Stdout,
		logger:  logi.GetLogger(),
		sleep:   sleepContext,
	}
}

// WithOutput redirects the console messages.
func (a *Autopilot) WithOutput(w io.Writer) *Autopilot {
	a.out = w
	return a
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (a *Autopilot) say(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// Fly runs the whole sequence and returns the executed burn.
func (a *Autopilot) Fly(ctx context.Context) (Burn, error) {
	if err := a.profile.Validate(); err != nil {
		return Burn{}, err
	}
	a.logger.Info("Ascent starting",
		"target_altitude", a.profile.TargetAltitude,
		"turn_start", a.profile.TurnStartAltitude,
		"turn_end", a.profile.TurnEndAltitude)

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"prepare", a.prepare},
		{"countdown", a.countdown},
		{"launch", a.launch},
		{"gravity turn", a.gravityTurn},
		{"raise apoapsis", a.raiseApoapsis},
		{"coast", a.coast},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return Burn{}, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	burn, node, err := a.planCircularization()
	if err != nil {
		return Burn{}, fmt.Errorf("plan circularization: %w", err)
	}
	if err := a.executeBurn(ctx, burn, node); err != nil {
		return burn, fmt.Errorf("circularization burn: %w", err)
	}

	a.say("Launch complete")
	a.logger.Info("Ascent complete", "delta_v", burn.DeltaV, "burn_time", burn.Duration)
	return burn, nil
}

func (a *Autopilot) prepare(ctx context.Context) error {
	if err := a.vessel.SetSAS(false); err != nil {
		return err
	}
	if err := a.vessel.SetRCS(false); err != nil {
		return err
	}
	return a.vessel.SetThrottle(1.0)
}

func (a *Autopilot) countdown(ctx context.Context) error {
	for i := a.profile.Countdown; i > 0; i-- {
		a.say("%d ...", i)
		if err := a.sleep(ctx, time.Second); err != nil {
			return err
		}
	}
	a.say("Launch!")
	return nil
}

func (a *Autopilot) launch(ctx context.Context) error {
	if err := a.vessel.ActivateNextStage(); err != nil {
		return err
	}
	if err := a.vessel.EngageAutopilot(); err != nil {
		return err
	}
	return a.vessel.TargetPitchAndHeading(90, a.profile.Heading)
}

// gravityTurn pitches over with altitude until the apoapsis nears the
// target.
func (a *Autopilot) gravityTurn(ctx context.Context) error {
	for {
		altitude, err := a.vessel.MeanAltitude()
		if err != nil {
			return err
		}

		if angle, ok := GravityTurnAngle(altitude, a.profile); ok && math.Abs(angle-a.turnAngle) > a.profile.TurnStep {
			a.turnAngle = angle
			a.logger.Debug("Turn angle updated", "altitude", altitude, "angle", angle)
			if err := a.vessel.TargetPitchAndHeading(90-a.turnAngle, a.profile.Heading); err != nil {
				return err
			}
		}

		if err := a.separateBoosters(); err != nil {
			return err
		}

		apoapsis, err := a.vessel.ApoapsisAltitude()
		if err != nil {
			return err
		}
		if apoapsis > a.profile.TargetAltitude*a.profile.ApproachFraction {
			a.say("Approaching target apoapsis")
			return nil
		}

		if err := a.sleep(ctx, a.profile.PollInterval); err != nil {
			return err
		}
	}
}

func (a *Autopilot) separateBoosters() error {
	if a.profile.SRBStage < 0 || a.srbsSeparated {
		return nil
	}
	fuel, err := a.vessel.StageResource(a.profile.SRBStage, "SolidFuel")
	if err != nil {
		return err
	}
	if fuel >= a.profile.SRBFuelThreshold {
		return nil
	}
	if err := a.vessel.ActivateNextStage(); err != nil {
		return err
	}
	a.srbsSeparated = true
	a.say("SRBs separated")
	return nil
}

func (a *Autopilot) raiseApoapsis(ctx context.Context) error {
	if err := a.vessel.SetThrottle(a.profile.ApproachThrottle); err != nil {
		return err
	}
	if err := a.waitUntil(ctx, func() (bool, error) {
		apoapsis, err := a.vessel.ApoapsisAltitude()
		return apoapsis >= a.profile.TargetAltitude, err
	}); err != nil {
		return err
	}
	if err := a.vessel.SetThrottle(0); err != nil {
		return err
	}
	a.say("Target apoapsis reached")
	return nil
}

func (a *Autopilot) coast(ctx context.Context) error {
	a.say("Coasting out of atmosphere")
	if err := a.waitUntil(ctx, func() (bool, error) {
		altitude, err := a.vessel.MeanAltitude()
		return altitude >= a.profile.AtmosphereAltitude, err
	}); err != nil {
		return err
	}
	return a.vessel.ResetThrustLimits()
}

func (a *Autopilot) planCircularization() (Burn, Node, error) {
	a.say("Planning circularization burn")

	orbit, err := a.vessel.Orbit()
	if err != nil {
		return Burn{}, nil, err
	}
	ut, err := a.vessel.UT()
	if err != nil {
		return Burn{}, nil, err
	}

	burn := Burn{
		DeltaV: CircularizationDeltaV(orbit.GravitationalParameter, orbit.Apoapsis, orbit.SemiMajorAxis),
		UT:     ut + orbit.TimeToApoapsis,
	}

	engines, err := a.vessel.Propulsion()
	if err != nil {
		return Burn{}, nil, err
	}
	burn.Duration, err = BurnTime(burn.DeltaV, engines.AvailableThrust, engines.SpecificImpulse,
		engines.Mass, a.profile.StandardGravity)
	if err != nil {
		return Burn{}, nil, err
	}

	node, err := a.vessel.AddNode(burn.UT, burn.DeltaV)
	if err != nil {
		return Burn{}, nil, err
	}

	a.logger.Info("Circularization planned", "delta_v", burn.DeltaV, "burn_time", burn.Duration, "ut", burn.UT)
	return burn, node, nil
}

func (a *Autopilot) executeBurn(ctx context.Context, burn Burn, node Node) error {
	a.say("Orientating ship for circularization burn")
	if err := a.vessel.DisengageAutopilot(); err != nil {
		return err
	}
	if err := a.vessel.EngageAutopilot(); err != nil {
		return err
	}
	if err := a.vessel.AimAlongNode(node); err != nil {
		return err
	}
	if err := a.vessel.WaitForAutopilot(); err != nil {
		return err
	}

	a.say("Waiting until circularization burn")
	if err := a.waitUntil(ctx, func() (bool, error) {
		timeToApoapsis, err := a.vessel.TimeToApoapsis()
		return timeToApoapsis-burn.Duration/2. <= 0, err
	}); err != nil {
		return err
	}

	a.say("Executing burn")
	if err := a.vessel.SetThrottle(1.0); err != nil {
		return err
	}
	burnErr := a.sleep(ctx, time.Duration(burn.Duration*float64(time.Second)))
	// the engines are cut even when the burn is interrupted
	if err := a.vessel.SetThrottle(0); err != nil {
		return err
	}
	if burnErr != nil {
		return burnErr
	}
	return node.Remove()
}

func (a *Autopilot) waitUntil(ctx context.Context, done func() (bool, error)) error {
	for {
		ok, err := done()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if err := a.sleep(ctx, a.profile.PollInterval); err != nil {
			return err
		}
	}
}
