package options

import (
	"errors"

	"github.com/akamensky/argparse"
)

type Options struct {
	OutFile    *string
	ConfigFile *string
	Interval   *float64
	Simulate   *bool
	MaxSamples *int
	Qualified  *bool
	parser     *argparse.Parser
}

// NewOptions parses the command line; args[0] is the program name.
func NewOptions(args []string) (*Options, error) {
	option := &Options{}

	parser := argparse.NewParser("logger", "Logs kRPC telemetry to a space delimited file")
	option.OutFile = parser.String("o", "outfile", &argparse.Options{
		Required: true,
		Help:     "Output filename",
	})
	option.ConfigFile = parser.String("c", "configfile", &argparse.Options{
		Help: "Log items config file (YAML, TOML or JSON); defaults to the launch telemetry set",
	})
	option.Interval = parser.Float("i", "interval", &argparse.Options{
		Help:    "Interval between samples in seconds",
		Default: 1.0,
	})
	option.Simulate = parser.Flag("s", "simulate", &argparse.Options{
		Help: "Log simulated values instead of connecting to the game",
	})
	option.MaxSamples = parser.Int("n", "samples", &argparse.Options{
		Help:    "Stop after this many samples (0 logs until interrupted)",
		Default: 0,
	})
	option.Qualified = parser.Flag("q", "qualified", &argparse.Options{
		Help: "Prefix every column with its category",
	})

	option.parser = parser
	if err := parser.Parse(args); err != nil {
		return option, err
	}

	if err := option.Validate(); err != nil {
		return option, err
	}

	return option, nil
}

func (o *Options) Validate() error {
	if *o.OutFile == "" {
		return errors.New("output filename must not be empty")
	}
	if *o.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if *o.MaxSamples < 0 {
		return errors.New("samples must not be negative")
	}
	return nil
}

func (o *Options) Usage(err error) string {
	return o.parser.Usage(err)
}
