package kerbal

import (
	"fmt"

	"github.com/atburke/krpc-go/spacecenter"
	"github.com/atburke/krpc-go/types"

	"github.com/yaron8/ksp-telemetry/ascent"
)

// Vessel drives the active vessel for the launcher.
type Vessel struct {
	s *Session
}

var _ ascent.Vessel = (*Vessel)(nil)

func (s *Session) Vessel() *Vessel {
	return &Vessel{s: s}
}

func (v *Vessel) UT() (float64, error) {
	return widen(v.s.spaceCenter.UT())
}

func (v *Vessel) MeanAltitude() (float64, error) {
	return widen(v.s.flight.MeanAltitude())
}

func (v *Vessel) ApoapsisAltitude() (float64, error) {
	return widen(v.s.orbit.ApoapsisAltitude())
}

func (v *Vessel) TimeToApoapsis() (float64, error) {
	return widen(v.s.orbit.TimeToApoapsis())
}

func (v *Vessel) Orbit() (ascent.OrbitState, error) {
	var state ascent.OrbitState
	var err error
	if state.GravitationalParameter, err = widen(v.s.body.GravitationalParameter()); err != nil {
		return state, err
	}
	if state.Apoapsis, err = widen(v.s.orbit.Apoapsis()); err != nil {
		return state, err
	}
	if state.SemiMajorAxis, err = widen(v.s.orbit.SemiMajorAxis()); err != nil {
		return state, err
	}
	state.TimeToApoapsis, err = widen(v.s.orbit.TimeToApoapsis())
	return state, err
}

func (v *Vessel) Propulsion() (ascent.Propulsion, error) {
	var p ascent.Propulsion
	var err error
	if p.AvailableThrust, err = widen(v.s.vessel.AvailableThrust()); err != nil {
		return p, err
	}
	if p.SpecificImpulse, err = widen(v.s.vessel.SpecificImpulse()); err != nil {
		return p, err
	}
	p.Mass, err = widen(v.s.vessel.Mass())
	return p, err
}

// StageResource is the amount of a resource held by the parts that are
// dropped when the given stage decouples.
func (v *Vessel) StageResource(stage int, resource string) (float64, error) {
	resources, err := v.s.vessel.ResourcesInDecoupleStage(int32(stage), false)
	if err != nil {
		return 0, err
	}
	return widen(resources.Amount(resource))
}

func (v *Vessel) SetSAS(on bool) error {
	return v.s.control.SetSAS(on)
}

func (v *Vessel) SetRCS(on bool) error {
	return v.s.control.SetRCS(on)
}

func (v *Vessel) SetThrottle(throttle float64) error {
	return v.s.control.SetThrottle(float32(throttle))
}

func (v *Vessel) ActivateNextStage() error {
	_, err := v.s.control.ActivateNextStage()
	return err
}

func (v *Vessel) ResetThrustLimits() error {
	parts, err := v.s.vessel.Parts()
	if err != nil {
		return err
	}
	engines, err := parts.Engines()
	if err != nil {
		return err
	}
	for _, engine := range engines {
		if err := engine.SetThrustLimit(1); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vessel) EngageAutopilot() error {
	return v.s.autoPilot.Engage()
}

func (v *Vessel) DisengageAutopilot() error {
	return v.s.autoPilot.Disengage()
}

func (v *Vessel) TargetPitchAndHeading(pitch, heading float64) error {
	return v.s.autoPilot.TargetPitchAndHeading(float32(pitch), float32(heading))
}

func (v *Vessel) AddNode(ut, prograde float64) (ascent.Node, error) {
	node, err := v.s.control.AddNode(ut, float32(prograde), 0, 0)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// AimAlongNode targets the prograde axis (0,1,0) of the node's orbital
// reference frame. The autopilot must already be engaged.
func (v *Vessel) AimAlongNode(node ascent.Node) error {
	n, ok := node.(*spacecenter.Node)
	if !ok {
		return fmt.Errorf("unexpected node type %T", node)
	}
	frame, err := n.OrbitalReferenceFrame()
	if err != nil {
		return err
	}
	if err := v.s.autoPilot.SetReferenceFrame(frame); err != nil {
		return err
	}
	return v.s.autoPilot.SetTargetDirection(types.Tuple3[float64, float64, float64]{B: 1})
}

func (v *Vessel) WaitForAutopilot() error {
	return v.s.autoPilot.Wait()
}
