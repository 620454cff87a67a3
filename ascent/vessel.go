package ascent

// OrbitState is the part of the orbit needed to plan circularization.
type OrbitState struct {
	GravitationalParameter float64
	Apoapsis               float64 // radius from the body's centre
	SemiMajorAxis          float64
	TimeToApoapsis         float64
}

// Propulsion is the current engine performance of the vessel.
type Propulsion struct {
	AvailableThrust float64
	SpecificImpulse float64
	Mass            float64
}

// Node is a planned maneuver.
type Node interface {
	Remove() error
}

// Vessel is everything the ascent needs from the active vessel.
type Vessel interface {
	UT() (float64, error)
	MeanAltitude() (float64, error)
	ApoapsisAltitude() (float64, error)
	TimeToApoapsis() (float64, error)
	Orbit() (OrbitState, error)
	Propulsion() (Propulsion, error)
	StageResource(stage int, resource string) (float64, error)

	SetSAS(on bool) error
	SetRCS(on bool) error
	SetThrottle(throttle float64) error
	ActivateNextStage() error
	ResetThrustLimits() error

	EngageAutopilot() error
	DisengageAutopilot() error
	TargetPitchAndHeading(pitch, heading float64) error
	AddNode(ut, prograde float64) (Node, error)
	// AimAlongNode points the engaged autopilot prograde in the node's orbital frame.
	AimAlongNode(node Node) error
	WaitForAutopilot() error
}
