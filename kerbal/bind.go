package kerbal

import (
	"fmt"

	"github.com/atburke/krpc-go/spacecenter"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

// Bind implements telemetrics.Binder over the live game.
func (s *Session) Bind(category telemetrics.Category, attribute string) (telemetrics.Stream, error) {
	if _, err := telemetrics.Lookup(category, attribute); err != nil {
		return nil, err
	}

	if category == telemetrics.Resource {
		return s.bindResource(attribute)
	}

	streams, err := s.streams(category)
	if err != nil {
		return nil, err
	}
	stream, ok := streams[attribute]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnsupported, category, attribute)
	}
	return stream, nil
}

func (s *Session) streams(category telemetrics.Category) (map[string]telemetrics.Stream, error) {
	switch category {
	case telemetrics.SpaceCenter:
		return map[string]telemetrics.Stream{
			"ut": scalar(s.spaceCenter.UT),
		}, nil
	case telemetrics.Vessel:
		return s.vesselStreams(), nil
	case telemetrics.Flight:
		return s.flightStreams(), nil
	case telemetrics.Orbit:
		return s.orbitStreams(), nil
	case telemetrics.AutoPilot:
		return s.autoPilotStreams(), nil
	case telemetrics.Control:
		return s.controlStreams(), nil
	case telemetrics.Communications:
		return map[string]telemetrics.Stream{
			"signal_strength": scalar(s.comms.SignalStrength),
			"signal_delay":    scalar(s.comms.SignalDelay),
			"power":           scalar(s.comms.TotalCommPower),
		}, nil
	case telemetrics.Node:
		return s.nodeStreams(), nil
	}
	return nil, fmt.Errorf("%w: %q", telemetrics.ErrUnknownCategory, category)
}

func (s *Session) vesselStreams() map[string]telemetrics.Stream {
	v := s.vessel
	return map[string]telemetrics.Stream{
		"met":                     scalar(v.MET),
		"mass":                    scalar(v.Mass),
		"dry_mass":                scalar(v.DryMass),
		"thrust":                  scalar(v.Thrust),
		"available_thrust":        scalar(v.AvailableThrust),
		"max_thrust":              scalar(v.MaxThrust),
		"max_vacuum_thrust":       scalar(v.MaxVacuumThrust),
		"specific_impulse":        scalar(v.SpecificImpulse),
		"vacuum_specific_impulse": scalar(v.VacuumSpecificImpulse),
		"moment_of_inertia":       triple(v.MomentOfInertia),
		"inertia_tensor":          list(v.InertiaTensor),
	}
}

func (s *Session) flightStreams() map[string]telemetrics.Stream {
	f := s.flight
	return map[string]telemetrics.Stream{
		"g_force":                          scalar(f.GForce),
		"mean_altitude":                    scalar(f.MeanAltitude),
		"surface_altitude":                 scalar(f.SurfaceAltitude),
		"elevation":                        scalar(f.Elevation),
		"latitude":                         scalar(f.Latitude),
		"longitude":                        scalar(f.Longitude),
		"velocity":                         triple(f.Velocity),
		"speed":                            scalar(f.Speed),
		"horizontal_speed":                 scalar(f.HorizontalSpeed),
		"vertical_speed":                   scalar(f.VerticalSpeed),
		"center_of_mass":                   triple(f.CenterOfMass),
		"rotation":                         quad(f.Rotation),
		"direction":                        triple(f.Direction),
		"pitch":                            scalar(f.Pitch),
		"heading":                          scalar(f.Heading),
		"roll":                             scalar(f.Roll),
		"prograde":                         triple(f.Prograde),
		"retrograde":                       triple(f.Retrograde),
		"normal":                           triple(f.Normal),
		"anti_normal":                      triple(f.AntiNormal),
		"radial":                           triple(f.Radial),
		"anti_radial":                      triple(f.AntiRadial),
		"atmosphere_density":               scalar(f.AtmosphereDensity),
		"dynamic_pressure":                 scalar(f.DynamicPressure),
		"static_pressure":                  scalar(f.StaticPressure),
		"static_pressure_at_msl":           scalar(f.StaticPressureAtMSL),
		"aerodynamic_force":                triple(f.AerodynamicForce),
		"lift":                             triple(f.Lift),
		"drag":                             triple(f.Drag),
		"speed_of_sound":                   scalar(f.SpeedOfSound),
		"mach":                             scalar(f.Mach),
		"reynolds_number":                  scalar(f.ReynoldsNumber),
		"true_air_speed":                   scalar(f.TrueAirSpeed),
		"equivalent_air_speed":             scalar(f.EquivalentAirSpeed),
		"terminal_velocity":                scalar(f.TerminalVelocity),
		"angle_of_attack":                  scalar(f.AngleOfAttack),
		"sideslip_angle":                   scalar(f.SideslipAngle),
		"total_air_temperature":            scalar(f.TotalAirTemperature),
		"static_air_temperature":           scalar(f.StaticAirTemperature),
		"stall_fraction":                   scalar(f.StallFraction),
		"drag_coefficient":                 scalar(f.DragCoefficient),
		"lift_coefficient":                 scalar(f.LiftCoefficient),
		"ballistic_coefficient":            scalar(f.BallisticCoefficient),
		"thrust_specific_fuel_consumption": scalar(f.ThrustSpecificFuelConsumption),
	}
}

func (s *Session) orbitStreams() map[string]telemetrics.Stream {
	o := s.orbit
	return map[string]telemetrics.Stream{
		"apoapsis":                    scalar(o.Apoapsis),
		"periapsis":                   scalar(o.Periapsis),
		"apoapsis_altitude":           scalar(o.ApoapsisAltitude),
		"periapsis_altitude":          scalar(o.PeriapsisAltitude),
		"semi_major_axis":             scalar(o.SemiMajorAxis),
		"semi_minor_axis":             scalar(o.SemiMinorAxis),
		"radius":                      scalar(o.Radius),
		"speed":                       scalar(o.Speed),
		"period":                      scalar(o.Period),
		"time_to_apoapsis":            scalar(o.TimeToApoapsis),
		"time_to_periapsis":           scalar(o.TimeToPeriapsis),
		"eccentricity":                scalar(o.Eccentricity),
		"inclination":                 scalar(o.Inclination),
		"longitude_of_ascending_node": scalar(o.LongitudeOfAscendingNode),
		"argument_of_periapsis":       scalar(o.ArgumentOfPeriapsis),
		"epoch":                       scalar(o.Epoch),
		"mean_anomaly":                scalar(o.MeanAnomaly),
		"eccentric_anomaly":           scalar(o.EccentricAnomaly),
		"true_anomaly":                scalar(o.TrueAnomaly),
		"orbital_speed":               scalar(o.OrbitalSpeed),
		"time_to_soi_change":          scalar(o.TimeToSOIChange),
	}
}

func (s *Session) autoPilotStreams() map[string]telemetrics.Stream {
	a := s.autoPilot
	return map[string]telemetrics.Stream{
		"error":             scalar(a.Error),
		"pitch_error":       scalar(a.PitchError),
		"heading_error":     scalar(a.HeadingError),
		"roll_error":        scalar(a.RollError),
		"target_pitch":      scalar(a.TargetPitch),
		"target_heading":    scalar(a.TargetHeading),
		"target_roll":       scalar(a.TargetRoll),
		"target_direction":  triple(a.TargetDirection),
		"roll_threshold":    scalar(a.RollThreshold),
		"stopping_time":     triple(a.StoppingTime),
		"deceleration_time": triple(a.DecelerationTime),
		"attenuation_angle": triple(a.AttenuationAngle),
		"time_to_peak":      triple(a.TimeToPeak),
		"overshoot":         triple(a.Overshoot),
		"pitch_pid_gains":   triple(a.PitchPIDGains),
		"roll_pid_gains":    triple(a.RollPIDGains),
		"yaw_pid_gains":     triple(a.YawPIDGains),
	}
}

func (s *Session) controlStreams() map[string]telemetrics.Stream {
	c := s.control
	return map[string]telemetrics.Stream{
		"throttle":       scalar(c.Throttle),
		"pitch":          scalar(c.Pitch),
		"yaw":            scalar(c.Yaw),
		"roll":           scalar(c.Roll),
		"forward":        scalar(c.Forward),
		"up":             scalar(c.Up),
		"right":          scalar(c.Right),
		"wheel_throttle": scalar(c.WheelThrottle),
		"wheel_steering": scalar(c.WheelSteering),
		"current_stage":  scalar(c.CurrentStage),
	}
}

// firstNode is the next planned maneuver node, if any.
func (s *Session) firstNode() (*spacecenter.Node, bool, error) {
	nodes, err := s.control.Nodes()
	if err != nil {
		return nil, false, err
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return nodes[0], true, nil
}

func (s *Session) nodeStreams() map[string]telemetrics.Stream {
	return map[string]telemetrics.Stream{
		"prograde":          optional(s.firstNode, (*spacecenter.Node).Prograde),
		"normal":            optional(s.firstNode, (*spacecenter.Node).Normal),
		"radial":            optional(s.firstNode, (*spacecenter.Node).Radial),
		"delta_v":           optional(s.firstNode, (*spacecenter.Node).DeltaV),
		"remaining_delta_v": optional(s.firstNode, (*spacecenter.Node).RemainingDeltaV),
		"time_to":           optional(s.firstNode, (*spacecenter.Node).TimeTo),
	}
}

// bindResource serves "<Resource>.amount" and "<Resource>.max" from the
// whole vessel.
func (s *Session) bindResource(attribute string) (telemetrics.Stream, error) {
	name, attr, _ := telemetrics.SplitResource(attribute)
	switch attr {
	case "amount":
		return scalar(func() (float32, error) { return s.resources.Amount(name) }), nil
	case "max":
		return scalar(func() (float32, error) { return s.resources.Max(name) }), nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnsupported, telemetrics.Resource, attribute)
}
