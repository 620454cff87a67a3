package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaron8/ksp-telemetry/ascent"
	"github.com/yaron8/ksp-telemetry/delimited"
	"github.com/yaron8/ksp-telemetry/kerbal"
	"github.com/yaron8/ksp-telemetry/launcher/config"
	"github.com/yaron8/ksp-telemetry/launcher/options"
	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/recorder"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

type Bootstrap struct {
	options   *options.Options
	session   *kerbal.Session
	autopilot *ascent.Autopilot
	recorder  *recorder.Recorder
	logger    *slog.Logger
}

func NewBootstrap(ctx context.Context, opts *options.Options, cfg *config.Config) (*Bootstrap, error) {
	profile, err := ascent.LoadProfile(*opts.ProfileFile)
	if err != nil {
		return nil, err
	}

	fmt.Println("Setting up connection")
	session, err := kerbal.Connect(ctx, cfg.KRPC)
	if err != nil {
		return nil, err
	}

	b := &Bootstrap{
		options:   opts,
		session:   session,
		autopilot: ascent.NewAutopilot(session.Vessel(), profile),
		logger:    logi.GetLogger(),
	}

	if *opts.OutFile != "" {
		frame, err := telemetrics.NewFrame(telemetrics.DefaultItems(), telemetrics.HeaderShort, session)
		if err != nil {
			session.Close()
			return nil, err
		}
		interval := time.Duration(*opts.Interval * float64(time.Second))
		b.recorder = recorder.NewRecorder(frame, interval, delimited.NewFileSink(*opts.OutFile))
		fmt.Println("Logging CSV data to: ", *opts.OutFile)
	}

	return b, nil
}

// Run flies the ascent. Telemetry, when enabled, is logged until the
// flight ends. A failing flight log never aborts the flight.
func (b *Bootstrap) Run(ctx context.Context) error {
	defer func() {
		if err := b.session.Close(); err != nil {
			b.logger.Error("Error closing kRPC connection", "error", err)
		}
	}()

	fly := func(ctx context.Context) error {
		_, err := b.autopilot.Fly(ctx)
		return err
	}
	if b.recorder == nil {
		return fly(ctx)
	}
	return flyWithLog(ctx, fly, b.recorder.Run, b.logger)
}

// flyWithLog runs record alongside fly and stops it once fly returns.
// Errors from record are only logged.
func flyWithLog(ctx context.Context, fly, record func(context.Context) error, logger *slog.Logger) error {
	flightCtx, landed := context.WithCancel(ctx)
	defer landed()

	var g errgroup.Group
	g.Go(func() error {
		if err := record(flightCtx); err != nil {
			logger.Error("Flight log stopped", "error", err)
			fmt.Println("Flight log stopped:", err)
		}
		return nil
	})

	err := fly(ctx)
	landed()
	_ = g.Wait()
	return err
}
