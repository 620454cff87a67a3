package main

import (
	"fmt"
	"os"

	"github.com/yaron8/ksp-telemetry/delimited"
	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/plotter/chart"
	"github.com/yaron8/ksp-telemetry/plotter/options"
)

func main() {
	opts, err := options.NewOptions(os.Args)
	if err != nil {
		fmt.Fprint(os.Stderr, opts.Usage(err))
		os.Exit(2)
	}

	logger, err := logi.NewLog(&logi.Config{LogDir: os.Getenv("LOG_DIR"), LogFileName: "plotter.log"})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(*opts.InFile, *opts.OutFile); err != nil {
		logger.Error("Plot failed", "infile", *opts.InFile, "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger.Info("Plot written", "infile", *opts.InFile, "outfile", *opts.OutFile)
	fmt.Println("Plot written to:", *opts.OutFile)
}

func run(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	log, err := delimited.ReadLog(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := chart.Render(log, chart.DefaultPanels, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
