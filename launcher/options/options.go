package options

import (
	"errors"

	"github.com/akamensky/argparse"
)

type Options struct {
	ProfileFile *string
	OutFile     *string
	Interval    *float64
	parser      *argparse.Parser
}

// NewOptions parses the command line; args[0] is the program name.
func NewOptions(args []string) (*Options, error) {
	option := &Options{}

	parser := argparse.NewParser("launcher", "Flies the active vessel into a circular orbit")
	option.ProfileFile = parser.String("p", "profile", &argparse.Options{
		Help: "Ascent profile file (YAML, TOML or JSON); defaults to an 80 km orbit",
	})
	option.OutFile = parser.String("o", "outfile", &argparse.Options{
		Help: "Also log launch telemetry to this file",
	})
	option.Interval = parser.Float("i", "interval", &argparse.Options{
		Help:    "Telemetry interval in seconds when logging",
		Default: 1.0,
	})

	option.parser = parser
	if err := parser.Parse(args); err != nil {
		return option, err
	}

	if *option.Interval <= 0 {
		return option, errors.New("interval must be positive")
	}

	return option, nil
}

func (o *Options) Usage(err error) string {
	return o.parser.Usage(err)
}
