package telemetrics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownAttribute = errors.New("unknown attribute")
)

type Category string

const (
	SpaceCenter    Category = "space_center"
	Vessel         Category = "vessel"
	Flight         Category = "flight"
	Orbit          Category = "orbit"
	AutoPilot      Category = "autopilot"
	Control        Category = "control"
	Communications Category = "communications"
	Resource       Category = "resource"
	Node           Category = "node"
)

// Kind selects how the simulator fakes an attribute.
type Kind int

const (
	KindRandom Kind = iota
	KindClock
)

type AttributeSpec struct {
	Name  string
	Arity int
	Kind  Kind
}

func scalars(names ...string) []AttributeSpec {
	specs := make([]AttributeSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, AttributeSpec{Name: name, Arity: 1})
	}
	return specs
}

func vectors(arity int, names ...string) []AttributeSpec {
	specs := scalars(names...)
	for i := range specs {
		specs[i].Arity = arity
	}
	return specs
}

func join(groups ...[]AttributeSpec) []AttributeSpec {
	var out []AttributeSpec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var catalog = map[Category][]AttributeSpec{
	SpaceCenter: {
		{Name: "ut", Arity: 1, Kind: KindClock},
	},
	Vessel: join(
		[]AttributeSpec{{Name: "met", Arity: 1, Kind: KindClock}},
		scalars("mass", "dry_mass", "thrust", "available_thrust", "max_thrust",
			"max_vacuum_thrust", "specific_impulse", "vacuum_specific_impulse"),
		vectors(3, "moment_of_inertia"),
		vectors(9, "inertia_tensor"),
	),
	Flight: join(
		scalars("g_force", "mean_altitude", "surface_altitude", "elevation",
			"latitude", "longitude"),
		vectors(3, "velocity"),
		scalars("speed", "horizontal_speed", "vertical_speed"),
		vectors(3, "center_of_mass"),
		vectors(4, "rotation"),
		vectors(3, "direction"),
		scalars("pitch", "heading", "roll"),
		vectors(3, "prograde", "retrograde", "normal", "anti_normal", "radial", "anti_radial"),
		scalars("atmosphere_density", "dynamic_pressure", "static_pressure",
			"static_pressure_at_msl"),
		vectors(3, "aerodynamic_force", "lift", "drag"),
		scalars("speed_of_sound", "mach", "reynolds_number", "true_air_speed",
			"equivalent_air_speed", "terminal_velocity", "angle_of_attack",
			"sideslip_angle", "total_air_temperature", "static_air_temperature",
			"stall_fraction", "drag_coefficient", "lift_coefficient",
			"ballistic_coefficient", "thrust_specific_fuel_consumption"),
	),
	Orbit: scalars("apoapsis", "periapsis", "apoapsis_altitude", "periapsis_altitude",
		"semi_major_axis", "semi_minor_axis", "radius", "speed", "period",
		"time_to_apoapsis", "time_to_periapsis", "eccentricity", "inclination",
		"longitude_of_ascending_node", "argument_of_periapsis", "epoch",
		"mean_anomaly", "eccentric_anomaly", "true_anomaly", "orbital_speed",
		"time_to_soi_change"),
	AutoPilot: join(
		scalars("error", "pitch_error", "heading_error", "roll_error",
			"target_pitch", "target_heading", "target_roll"),
		vectors(3, "target_direction"),
		scalars("roll_threshold"),
		vectors(3, "stopping_time", "deceleration_time", "attenuation_angle",
			"time_to_peak", "overshoot", "pitch_pid_gains", "roll_pid_gains",
			"yaw_pid_gains"),
	),
	Control: scalars("throttle", "pitch", "yaw", "roll", "forward", "up", "right",
		"wheel_throttle", "wheel_steering", "current_stage"),
	Communications: scalars("signal_strength", "signal_delay", "power"),
	Resource:       scalars("amount", "max", "density"),
	Node: scalars("prograde", "normal", "radial", "delta_v", "remaining_delta_v",
		"time_to"),
}

// Categories lists every known category in a stable order.
func Categories() []Category {
	return []Category{SpaceCenter, Vessel, Flight, Orbit, AutoPilot, Control,
		Communications, Resource, Node}
}

// Attributes returns the catalog entries of a category.
func Attributes(category Category) ([]AttributeSpec, error) {
	specs, ok := catalog[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return specs, nil
}

// SplitResource splits a resource attribute ("LiquidFuel.amount") into the
// resource name and the attribute.
func SplitResource(attribute string) (string, string, bool) {
	i := strings.LastIndex(attribute, ".")
	if i <= 0 || i == len(attribute)-1 {
		return "", "", false
	}
	return attribute[:i], attribute[i+1:], true
}

// Lookup finds the catalog entry for an attribute of a category.
func Lookup(category Category, attribute string) (AttributeSpec, error) {
	specs, err := Attributes(category)
	if err != nil {
		return AttributeSpec{}, err
	}

	name := attribute
	if category == Resource {
		_, attr, ok := SplitResource(attribute)
		if !ok {
			return AttributeSpec{}, fmt.Errorf("%w: %s.%s (want <Resource>.<attribute>)",
				ErrUnknownAttribute, category, attribute)
		}
		name = attr
	}

	for _, spec := range specs {
		if spec.Name == name {
			return spec, nil
		}
	}
	return AttributeSpec{}, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, category, attribute)
}
