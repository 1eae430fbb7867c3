package job

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromWireValidatesVariant(t *testing.T) {
	if _, err := FromWire(wire.Job{Kind: wire.JobCommand}); err == nil {
		t.Fatal("expected error for Command job missing path")
	}
	j, err := FromWire(wire.NewCommandJob("/bin/true", []string{"a"}))
	if err != nil {
		t.Fatal(err)
	}
	if j.Kind != wire.JobCommand || j.Path != "/bin/true" {
		t.Fatalf("unexpected job: %+v", j)
	}
}

func TestToWireRoundTrip(t *testing.T) {
	orig := wire.NewScriptJob("let x = 1;")
	j, err := FromWire(orig)
	if err != nil {
		t.Fatal(err)
	}
	back := j.ToWire()
	if back.Kind != orig.Kind || back.Src != orig.Src {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, orig)
	}
}

func TestCommandExecutorRuns(t *testing.T) {
	j, err := FromWire(wire.NewCommandJob("/bin/sh", []string{"-c", "exit 0"}))
	if err != nil {
		t.Fatal(err)
	}
	exec := j.Executor("test-id", silentLogger())
	done := make(chan struct{})
	go func() {
		exec(time.Now())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("executor did not return in time")
	}
}

func TestScriptExecutorRunsGoja(t *testing.T) {
	j, err := FromWire(wire.NewScriptJob("var x = 1 + 1;"))
	if err != nil {
		t.Fatal(err)
	}
	exec := j.Executor("test-id", silentLogger())
	exec(time.Now()) // must not panic on a well-formed script
}

func TestScriptFileExecutorReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.js")
	if err := os.WriteFile(path, []byte("var y = 2;"), 0o644); err != nil {
		t.Fatal(err)
	}
	j, err := FromWire(wire.NewScriptFileJob(path))
	if err != nil {
		t.Fatal(err)
	}
	exec := j.Executor("test-id", silentLogger())
	exec(time.Now())
}

func TestRunOnceReportsScriptErrors(t *testing.T) {
	j, err := FromWire(wire.NewScriptJob("this is not valid syntax {{{"))
	if err != nil {
		t.Fatal(err)
	}
	if err := j.RunOnce(nil); err == nil { //nolint:staticcheck // RunOnce only uses ctx for Command jobs
		t.Fatal("expected syntax error to surface")
	}
}

func TestDescribe(t *testing.T) {
	cmdJob, _ := FromWire(wire.NewCommandJob("/bin/true", nil))
	if got := cmdJob.Describe(); got == "" {
		t.Fatal("expected non-empty description")
	}
}
