// Package kerbal talks to a running game through kRPC. It serves telemetry
// streams for the logger and dashboard and the vessel controls used by the
// launcher.
package kerbal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	krpcgo "github.com/atburke/krpc-go"
	"github.com/atburke/krpc-go/krpc"
	"github.com/atburke/krpc-go/spacecenter"

	"github.com/yaron8/ksp-telemetry/logi"
)

var ErrUnsupported = errors.New("attribute not available from the game")

// Session holds the remote objects of the active vessel.
type Session struct {
	client  *krpcgo.KRPCClient
	logger  *slog.Logger
	version string

	spaceCenter *spacecenter.SpaceCenter
	vessel      *spacecenter.Vessel
	orbit       *spacecenter.Orbit
	body        *spacecenter.CelestialBody
	flight      *spacecenter.Flight
	autoPilot   *spacecenter.AutoPilot
	control     *spacecenter.Control
	comms       *spacecenter.Comms
	resources   *spacecenter.Resources
}

// Connect opens the connection and resolves the active vessel.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	client := krpcgo.DefaultKRPCClient()
	client.Host = cfg.Host
	client.RPCPort = cfg.RPCPort
	client.StreamPort = cfg.StreamPort
	client.ClientName = cfg.ClientName
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to kRPC at %s:%s: %w", cfg.Host, cfg.RPCPort, err)
	}

	s := &Session{
		client: client,
		logger: logi.GetLogger(),
	}
	if err := s.resolve(); err != nil {
		client.Close()
		return nil, err
	}

	s.logger.Info("Connected to kRPC", "host", cfg.Host, "version", s.version)
	return s, nil
}

func (s *Session) resolve() error {
	status, err := krpc.New(s.client).GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get server status: %w", err)
	}
	s.version = status.Version

	s.spaceCenter = spacecenter.New(s.client)
	if s.vessel, err = s.spaceCenter.ActiveVessel(); err != nil {
		return fmt.Errorf("failed to get active vessel: %w", err)
	}
	if s.orbit, err = s.vessel.Orbit(); err != nil {
		return fmt.Errorf("failed to get orbit: %w", err)
	}
	if s.body, err = s.orbit.Body(); err != nil {
		return fmt.Errorf("failed to get orbit body: %w", err)
	}
	frame, err := s.body.ReferenceFrame()
	if err != nil {
		return fmt.Errorf("failed to get body reference frame: %w", err)
	}
	if s.flight, err = s.vessel.Flight(frame); err != nil {
		return fmt.Errorf("failed to get flight: %w", err)
	}
	if s.autoPilot, err = s.vessel.AutoPilot(); err != nil {
		return fmt.Errorf("failed to get autopilot: %w", err)
	}
	if s.control, err = s.vessel.Control(); err != nil {
		return fmt.Errorf("failed to get control: %w", err)
	}
	if s.comms, err = s.vessel.Comms(); err != nil {
		return fmt.Errorf("failed to get comms: %w", err)
	}
	if s.resources, err = s.vessel.Resources(); err != nil {
		return fmt.Errorf("failed to get resources: %w", err)
	}
	return nil
}

// Version is the kRPC server version.
func (s *Session) Version() string {
	return s.version
}

func (s *Session) Close() error {
	return s.client.Close()
}
