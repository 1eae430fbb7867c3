// Package client is a thin synchronous wrapper over the IPC req/rep
// channel, grounded on the teacher's CommandClient-style helpers in
// cmd/cron_cmd.go (one exported method per RPC, each a single
// send-then-recv round trip).
package client

import (
	"fmt"

	"github.com/nextlevelbuilder/cronus/internal/ipcsock"
	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

// Client is a connected handle to a running daemon.
type Client struct {
	conn *ipcsock.Conn
}

// Dial connects to the daemon listening at sockPath.
func Dial(sockPath string) (*Client, error) {
	conn, err := ipcsock.Dial(sockPath)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Close releases the connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) roundTrip(req wire.Request) (wire.Reply, error) {
	payload, err := wire.EncodeRequest(req)
	if err != nil {
		return wire.Reply{}, fmt.Errorf("client: encode request: %w", err)
	}
	if err := c.conn.Send(payload); err != nil {
		return wire.Reply{}, fmt.Errorf("client: send: %w", err)
	}
	frame, err := c.conn.Recv()
	if err != nil {
		return wire.Reply{}, fmt.Errorf("client: recv: %w", err)
	}
	reply, err := wire.DecodeReply(frame)
	if err != nil {
		return wire.Reply{}, fmt.Errorf("client: decode reply: %w", err)
	}
	return reply, nil
}

// AddJob registers a job on cronExpr and returns its freshly minted handle.
func (c *Client) AddJob(cronExpr string, j wire.Job) (string, error) {
	reply, err := c.roundTrip(wire.NewAddJobRequest(cronExpr, j))
	if err != nil {
		return "", err
	}
	if reply.Kind == wire.RepError {
		return "", fmt.Errorf("client: %s: %s", reply.Error.Kind, reply.Error.Message)
	}
	if reply.Kind != wire.RepJobAdded {
		return "", fmt.Errorf("client: unexpected reply kind %q", reply.Kind)
	}
	return reply.ID, nil
}

// ListJobs returns every currently registered job.
func (c *Client) ListJobs() ([]wire.JobInfo, error) {
	reply, err := c.roundTrip(wire.NewListJobsRequest())
	if err != nil {
		return nil, err
	}
	if reply.Kind == wire.RepError {
		return nil, fmt.Errorf("client: %s: %s", reply.Error.Kind, reply.Error.Message)
	}
	if reply.Kind != wire.RepJobList {
		return nil, fmt.Errorf("client: unexpected reply kind %q", reply.Kind)
	}
	return reply.Jobs, nil
}

// DeleteJob removes a job by its handle text.
func (c *Client) DeleteJob(id string) error {
	reply, err := c.roundTrip(wire.NewDeleteJobRequest(id))
	if err != nil {
		return err
	}
	if reply.Kind == wire.RepError {
		return fmt.Errorf("client: %s: %s", reply.Error.Kind, reply.Error.Message)
	}
	if reply.Kind != wire.RepJobDeleted {
		return fmt.Errorf("client: unexpected reply kind %q", reply.Kind)
	}
	return nil
}

// Stop asks the daemon to shut down.
func (c *Client) Stop() error {
	reply, err := c.roundTrip(wire.NewStopServiceRequest())
	if err != nil {
		return err
	}
	if reply.Kind != wire.RepServiceStopped && reply.Kind != wire.RepServiceStopping {
		return fmt.Errorf("client: unexpected reply kind %q", reply.Kind)
	}
	return nil
}

// Ping checks whether the daemon is alive and responsive.
func (c *Client) Ping() (bool, error) {
	reply, err := c.roundTrip(wire.NewPingServiceRequest())
	if err != nil {
		return false, err
	}
	return reply.Kind == wire.RepServiceRunning, nil
}
