// Package service wires the cron engine, the IPC endpoint, and the control
// loop together into the daemon's run loop.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nextlevelbuilder/cronus/internal/control"
	"github.com/nextlevelbuilder/cronus/internal/cronengine"
	"github.com/nextlevelbuilder/cronus/internal/ipcsock"
)

// Service is one running daemon instance.
type Service struct {
	endpoint *ipcsock.Endpoint
	engine   *cronengine.Engine
	loop     *control.Loop
	logger   *slog.Logger
}

// New builds a Service listening at sockPath.
func New(sockPath string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ep, err := ipcsock.Listen(sockPath)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	engine := cronengine.New(logger)
	loop := control.New(engine, logger)
	return &Service{endpoint: ep, engine: engine, loop: loop, logger: logger}, nil
}

// Run starts the cron engine and serves IPC connections, one at a time,
// until a client sends StopService or the listener errors.
func (s *Service) Run() error {
	s.engine.Start()
	defer s.endpoint.Close()

	for {
		conn, err := s.endpoint.Accept()
		if err != nil {
			return fmt.Errorf("service: accept: %w", err)
		}

		stopped, err := s.loop.Serve(conn)
		conn.Close()

		if stopped {
			s.logger.Info("service stopped")
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			s.logger.Warn("connection ended with error", "err", err)
		}
	}
}

// State reports the daemon's current lifecycle state.
func (s *Service) State() control.State { return s.loop.State() }
