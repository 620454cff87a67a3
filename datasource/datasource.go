// Package datasource picks where telemetry comes from: a live game over
// kRPC or the simulator.
package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/yaron8/ksp-telemetry/kerbal"
	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/simulator"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

type Options struct {
	// Simulate skips the game entirely.
	Simulate bool
	// Fallback serves simulated data when the game cannot be reached.
	Fallback bool
	Seed     int64
}

// Source is an opened telemetry binder.
type Source struct {
	telemetrics.Binder
	session   *kerbal.Session
	simulated bool
}

var connect = kerbal.Connect

func Open(ctx context.Context, cfg kerbal.Config, opts Options) (*Source, error) {
	logger := logi.GetLogger()

	if opts.Simulate {
		logger.Info("Using simulated telemetry", "seed", opts.Seed)
		return simulated(opts.Seed), nil
	}

	session, err := connect(ctx, cfg)
	if err != nil {
		if !opts.Fallback {
			return nil, err
		}
		logger.Warn("Game not reachable, using simulated telemetry", "error", err)
		return simulated(opts.Seed), nil
	}

	return &Source{Binder: session, session: session}, nil
}

func simulated(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{Binder: simulator.NewSimulator(seed), simulated: true}
}

func (s *Source) Simulated() bool {
	return s.simulated
}

// Session is the live game connection; nil when simulated.
func (s *Source) Session() *kerbal.Session {
	return s.session
}

func (s *Source) String() string {
	if s.simulated {
		return "simulator"
	}
	return fmt.Sprintf("kRPC %s", s.session.Version())
}

func (s *Source) Close() error {
	if s.session == nil {
		return nil
	}
	return s.session.Close()
}
