// Package control implements the daemon's control loop: a parser task that
// owns the IPC connection and a handler task that owns the cron engine,
// joined by two bounded channels. The split mirrors the teacher's
// read-pump/write-pump split in its gateway client (internal/gateway/
// client.go), generalized from a WebSocket connection to the raw framed
// Unix socket in internal/ipcsock.
package control

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/cronus/internal/cronengine"
	"github.com/nextlevelbuilder/cronus/internal/ipcsock"
	"github.com/nextlevelbuilder/cronus/internal/job"
	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

// chanCap is the bound on both the request and reply channels joining the
// parser and handler tasks, per the concurrency design.
const chanCap = 1024

// State is the daemon's lifecycle state.
type State int32

const (
	Starting State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Loop owns the engine and serves one IPC connection's request stream at a
// time. It does not own the listener's lifecycle beyond a single Serve
// call; the caller (internal/service) decides whether to accept again
// after a client disconnects.
type Loop struct {
	engine *cronengine.Engine
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New builds a control loop over engine.
func New(engine *cronengine.Engine, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{engine: engine, logger: logger, state: Starting}
}

// State returns the loop's current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Serve runs the parser/handler pair over conn until the client closes the
// connection, sends StopService, or the connection errors. It returns
// (stopRequested, error): stopRequested is true only when the client asked
// the service to stop and the handler has already replied.
func (l *Loop) Serve(conn *ipcsock.Conn) (stopRequested bool, err error) {
	l.setState(Running)

	reqCh := make(chan wire.Request, chanCap)
	repCh := make(chan wire.Reply, chanCap)
	stopCh := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)

	var parseErr error
	go func() {
		defer wg.Done()
		parseErr = l.parse(conn, reqCh, repCh)
	}()

	var stopped bool
	go func() {
		defer wg.Done()
		stopped = l.handle(reqCh, repCh, stopCh)
	}()

	wg.Wait()

	if stopped {
		l.setState(Stopping)
		l.engine.Shutdown()
		l.setState(Stopped)
		return true, nil
	}
	if parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return false, parseErr
	}
	return false, nil
}

// parse owns the connection: it reads one request, forwards it to the
// handler, waits for the matching reply, and writes it back, enforcing
// req->rep->req->rep alternation by construction — a second Recv never
// happens before the prior Send completes.
func (l *Loop) parse(conn *ipcsock.Conn, reqCh chan<- wire.Request, repCh <-chan wire.Reply) error {
	defer close(reqCh)
	for {
		frame, err := conn.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("control: recv: %w", err)
		}

		req, decodeErr := wire.DecodeRequest(frame)
		if decodeErr != nil {
			reply := wire.NewErrorReply(wire.ErrDecode, decodeErr.Error())
			payload, _ := wire.EncodeReply(reply)
			_ = conn.Send(payload)
			return fmt.Errorf("control: decode: %w", decodeErr)
		}

		reqCh <- req
		reply := <-repCh

		payload, err := wire.EncodeReply(reply)
		if err != nil {
			return fmt.Errorf("control: encode reply: %w", err)
		}
		if err := conn.Send(payload); err != nil {
			return fmt.Errorf("control: send: %w", err)
		}

		if reply.Kind == wire.RepServiceStopped {
			return nil
		}
	}
}

// handle owns the cron engine, processing one request at a time in
// arrival order. It returns true once it has replied to a StopService
// request, signaling the caller to drain and shut the engine down.
func (l *Loop) handle(reqCh <-chan wire.Request, repCh chan<- wire.Reply, stopCh chan<- struct{}) bool {
	defer close(repCh)
	for req := range reqCh {
		reply := l.dispatch(req)
		repCh <- reply
		if req.Kind == wire.ReqStopService {
			close(stopCh)
			return true
		}
	}
	return false
}

func (l *Loop) dispatch(req wire.Request) wire.Reply {
	switch req.Kind {
	case wire.ReqAddJob:
		return l.handleAddJob(req)
	case wire.ReqListJobs:
		return wire.NewJobListReply(l.engine.Snapshot())
	case wire.ReqDeleteJob:
		return l.handleDeleteJob(req)
	case wire.ReqStopService:
		l.logger.Info("stop requested")
		return wire.ReplyServiceStopped
	case wire.ReqPingService:
		return wire.ReplyServiceRunning
	default:
		return wire.NewErrorReply(wire.ErrUnknown, fmt.Sprintf("unhandled request kind %q", req.Kind))
	}
}

func (l *Loop) handleAddJob(req wire.Request) wire.Reply {
	if req.Job == nil {
		return wire.NewErrorReply(wire.ErrDecode, "AddJob missing job payload")
	}
	j, err := job.FromWire(*req.Job)
	if err != nil {
		return wire.NewErrorReply(wire.ErrDecode, err.Error())
	}
	id, err := l.engine.Register(req.Cron, j)
	if err != nil {
		return wire.NewErrorReply(wire.ErrBadCron, err.Error())
	}
	return wire.NewJobAddedReply(id.String())
}

func (l *Loop) handleDeleteJob(req wire.Request) wire.Reply {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return wire.NewErrorReply(wire.ErrBadID, fmt.Sprintf("malformed job id %q", req.ID))
	}
	if !l.engine.Deregister(id) {
		return wire.NewErrorReply(wire.ErrBadID, fmt.Sprintf("no such job %q", req.ID))
	}
	return wire.ReplyJobDeleted
}
