package options

import (
	"path/filepath"
	"strings"

	"github.com/akamensky/argparse"
)

type Options struct {
	InFile  *string
	OutFile *string
	parser  *argparse.Parser
}

// NewOptions parses the command line; args[0] is the program name.
func NewOptions(args []string) (*Options, error) {
	option := &Options{}

	parser := argparse.NewParser("plotter", "Plots a telemetry log into a 2x2 PNG summary")
	option.InFile = parser.String("f", "file", &argparse.Options{
		Required: true,
		Help:     "Telemetry log written by logger",
	})
	option.OutFile = parser.String("o", "outfile", &argparse.Options{
		Help: "PNG filename; defaults to the log name with a .png extension",
	})

	option.parser = parser
	if err := parser.Parse(args); err != nil {
		return option, err
	}

	if *option.OutFile == "" {
		png := strings.TrimSuffix(*option.InFile, filepath.Ext(*option.InFile)) + ".png"
		option.OutFile = &png
	}
	return option, nil
}

func (o *Options) Usage(err error) string {
	return o.parser.Usage(err)
}
