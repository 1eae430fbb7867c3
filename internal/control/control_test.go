package control

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/nextlevelbuilder/cronus/internal/cronengine"
	"github.com/nextlevelbuilder/cronus/internal/ipcsock"
	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness wires one client Conn to one server Conn over a real Unix socket
// and runs a single Loop.Serve call on the server side, returning once the
// exchange finishes.
func harness(t *testing.T) (client *ipcsock.Conn, loop *Loop, wait func() (bool, error)) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "control.sock")

	ep, err := ipcsock.Listen(path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ep.Close() })

	engine := cronengine.New(silentLogger())
	engine.Start()
	t.Cleanup(engine.Shutdown)

	loop = New(engine, silentLogger())

	serverConn := make(chan *ipcsock.Conn, 1)
	go func() {
		c, err := ep.Accept()
		if err != nil {
			serverConn <- nil
			return
		}
		serverConn <- c
	}()

	client, err = ipcsock.Dial(path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	sc := <-serverConn
	if sc == nil {
		t.Fatal("accept failed")
	}

	done := make(chan struct {
		stopped bool
		err     error
	}, 1)
	wait = func() (bool, error) {
		r := <-done
		return r.stopped, r.err
	}
	go func() {
		stopped, err := loop.Serve(sc)
		sc.Close()
		done <- struct {
			stopped bool
			err     error
		}{stopped, err}
	}()

	return client, loop, wait
}

func sendRecv(t *testing.T, conn *ipcsock.Conn, req wire.Request) wire.Reply {
	t.Helper()
	payload, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.Send(payload); err != nil {
		t.Fatal(err)
	}
	frame, err := conn.Recv()
	if err != nil {
		t.Fatal(err)
	}
	reply, err := wire.DecodeReply(frame)
	if err != nil {
		t.Fatal(err)
	}
	return reply
}

func TestAddListDeleteSequence(t *testing.T) {
	client, _, wait := harness(t)
	defer client.Close()

	addReply := sendRecv(t, client, wire.NewAddJobRequest("*/5 * * * * *", wire.NewCommandJob("/bin/true", nil)))
	if addReply.Kind != wire.RepJobAdded {
		t.Fatalf("expected JobAdded, got %+v", addReply)
	}
	id := addReply.ID

	listReply := sendRecv(t, client, wire.NewListJobsRequest())
	if listReply.Kind != wire.RepJobList || len(listReply.Jobs) != 1 {
		t.Fatalf("expected one job listed, got %+v", listReply)
	}
	if listReply.Jobs[0].ID != id {
		t.Fatalf("listed id %q does not match added id %q", listReply.Jobs[0].ID, id)
	}

	delReply := sendRecv(t, client, wire.NewDeleteJobRequest(id))
	if delReply.Kind != wire.RepJobDeleted {
		t.Fatalf("expected JobDeleted, got %+v", delReply)
	}

	listReply2 := sendRecv(t, client, wire.NewListJobsRequest())
	if len(listReply2.Jobs) != 0 {
		t.Fatalf("expected no jobs after delete, got %+v", listReply2.Jobs)
	}

	stopReply := sendRecv(t, client, wire.NewStopServiceRequest())
	if stopReply.Kind != wire.RepServiceStopped {
		t.Fatalf("expected ServiceStopped, got %+v", stopReply)
	}

	stopped, err := wait()
	if !stopped || err != nil {
		t.Fatalf("expected clean stop, got stopped=%v err=%v", stopped, err)
	}
}

func TestDeleteUnknownIDReturnsBadID(t *testing.T) {
	client, _, wait := harness(t)
	defer client.Close()

	reply := sendRecv(t, client, wire.NewDeleteJobRequest("00000000-0000-0000-0000-000000000000"))
	if reply.Kind != wire.RepError || reply.Error.Kind != wire.ErrBadID {
		t.Fatalf("expected BadId error, got %+v", reply)
	}

	sendRecv(t, client, wire.NewStopServiceRequest())
	wait()
}

func TestAddJobRejectsBadCron(t *testing.T) {
	client, _, wait := harness(t)
	defer client.Close()

	reply := sendRecv(t, client, wire.NewAddJobRequest("nonsense", wire.NewCommandJob("/bin/true", nil)))
	if reply.Kind != wire.RepError || reply.Error.Kind != wire.ErrBadCron {
		t.Fatalf("expected BadCron error, got %+v", reply)
	}

	sendRecv(t, client, wire.NewStopServiceRequest())
	wait()
}

func TestPingReturnsServiceRunning(t *testing.T) {
	client, _, wait := harness(t)
	defer client.Close()

	reply := sendRecv(t, client, wire.NewPingServiceRequest())
	if reply.Kind != wire.RepServiceRunning {
		t.Fatalf("expected ServiceRunning, got %+v", reply)
	}

	sendRecv(t, client, wire.NewStopServiceRequest())
	wait()
}
