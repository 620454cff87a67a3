package ascent

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Profile configures the scripted ascent. Altitudes are in metres, angles
// in degrees.
type Profile struct {
	TurnStartAltitude  float64       `mapstructure:"turn_start_altitude"`
	TurnEndAltitude    float64       `mapstructure:"turn_end_altitude"`
	TargetAltitude     float64       `mapstructure:"target_altitude"`
	TurnAngleStart     float64       `mapstructure:"turn_angle_start"`
	TurnAngleEnd       float64       `mapstructure:"turn_angle_end"`
	TurnStep           float64       `mapstructure:"turn_step"`
	Heading            float64       `mapstructure:"heading"`
	Countdown          int           `mapstructure:"countdown"`
	ApproachFraction   float64       `mapstructure:"approach_fraction"`
	ApproachThrottle   float64       `mapstructure:"approach_throttle"`
	AtmosphereAltitude float64       `mapstructure:"atmosphere_altitude"`
	StandardGravity    float64       `mapstructure:"standard_gravity"`
	SRBStage           int           `mapstructure:"srb_stage"`
	SRBFuelThreshold   float64       `mapstructure:"srb_fuel_threshold"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
}

func DefaultProfile() Profile {
	return Profile{
		TurnStartAltitude:  500,
		TurnEndAltitude:    70000,
		TargetAltitude:     80000,
		TurnAngleStart:     7,
		TurnAngleEnd:       90,
		TurnStep:           0.5,
		Heading:            90,
		Countdown:          10,
		ApproachFraction:   0.9,
		ApproachThrottle:   0.25,
		AtmosphereAltitude: 70500,
		StandardGravity:    9.82,
		SRBStage:           -1,
		SRBFuelThreshold:   0.1,
		PollInterval:       50 * time.Millisecond,
	}
}

func (p Profile) Validate() error {
	if p.TurnEndAltitude <= p.TurnStartAltitude {
		return fmt.Errorf("turn_end_altitude (%g) must be above turn_start_altitude (%g)",
			p.TurnEndAltitude, p.TurnStartAltitude)
	}
	if p.TargetAltitude <= 0 {
		return fmt.Errorf("target_altitude must be positive")
	}
	if p.ApproachFraction <= 0 || p.ApproachFraction > 1 {
		return fmt.Errorf("approach_fraction must be in (0, 1]")
	}
	if p.ApproachThrottle < 0 || p.ApproachThrottle > 1 {
		return fmt.Errorf("approach_throttle must be in [0, 1]")
	}
	if p.StandardGravity <= 0 {
		return fmt.Errorf("standard_gravity must be positive")
	}
	if p.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if p.Countdown < 0 {
		return fmt.Errorf("countdown must not be negative")
	}
	return nil
}

// LoadProfile reads a profile file on top of the defaults. An empty path
// returns the defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}
