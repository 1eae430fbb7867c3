// Package job turns a wire-level job description into an executable closure.
// It treats the embedded scripting runtime as an opaque black box: callers
// never see goja types, only a func(time.Time) they can hand to the cron
// engine.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/dop251/goja"

	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

// Job is the internal, validated form of wire.Job.
type Job struct {
	Kind wire.JobKind
	Path string
	Args []string
	Src  string
}

// FromWire converts a wire.Job into a Job, validating it first.
func FromWire(w wire.Job) (Job, error) {
	if err := w.Validate(); err != nil {
		return Job{}, err
	}
	return Job{Kind: w.Kind, Path: w.Path, Args: w.Args, Src: w.Src}, nil
}

// ToWire converts back to the wire representation, for ListJobs snapshots.
func (j Job) ToWire() wire.Job {
	return wire.Job{Kind: j.Kind, Path: j.Path, Args: j.Args, Src: j.Src}
}

// Describe returns a short human-readable identity used only in log lines,
// never part of the wire contract.
func (j Job) Describe() string {
	switch j.Kind {
	case wire.JobCommand:
		return fmt.Sprintf("command %s", j.Path)
	case wire.JobScript:
		return "inline script"
	case wire.JobScriptFile:
		return fmt.Sprintf("script file %s", j.Path)
	default:
		return "unknown job"
	}
}

// Executor builds the func(time.Time) the cron engine fires on each tick.
// The closure captures only immutable fields of j, so it's built once at
// registration time and reused for every firing.
func (j Job) Executor(id string, logger *slog.Logger) func(time.Time) {
	switch j.Kind {
	case wire.JobCommand:
		return j.commandExecutor(id, logger)
	case wire.JobScript:
		return j.scriptExecutor(id, logger, j.Src)
	case wire.JobScriptFile:
		return j.scriptFileExecutor(id, logger)
	default:
		return func(time.Time) {
			logger.Warn("job has unrecognized kind, skipping", "id", id)
		}
	}
}

// commandExecutor spawns the command detached from the daemon's own
// lifecycle; a launch error is logged and swallowed, never propagated to
// the control loop (ExecutionSilent in the error taxonomy).
func (j Job) commandExecutor(id string, logger *slog.Logger) func(time.Time) {
	path, args := j.Path, j.Args
	return func(fired time.Time) {
		cmd := exec.Command(path, args...)
		cmd.Stdout = nil
		cmd.Stderr = nil
		if err := cmd.Start(); err != nil {
			logger.Warn("job command failed to start", "id", id, "path", path, "err", err)
			return
		}
		logger.Info("job command started", "id", id, "path", path, "pid", cmd.Process.Pid, "fired_at", fired)
		go func() {
			if err := cmd.Wait(); err != nil {
				logger.Warn("job command exited with error", "id", id, "path", path, "err", err)
			}
		}()
	}
}

// scriptExecutor runs src through an embedded goja VM, one fresh VM per
// firing so concurrent firings of the same job never share interpreter
// state.
func (j Job) scriptExecutor(id string, logger *slog.Logger, src string) func(time.Time) {
	return func(fired time.Time) {
		vm := goja.New()
		if err := vm.Set("firedAt", fired.Unix()); err != nil {
			logger.Warn("job script setup failed", "id", id, "err", err)
			return
		}
		if _, err := vm.RunString(src); err != nil {
			logger.Warn("job script failed", "id", id, "err", err)
			return
		}
		logger.Info("job script completed", "id", id, "fired_at", fired)
	}
}

// scriptFileExecutor reads the script source at fire time, so edits to the
// file on disk take effect on the next tick without re-registering the job.
func (j Job) scriptFileExecutor(id string, logger *slog.Logger) func(time.Time) {
	path := j.Path
	return func(fired time.Time) {
		src, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("job script file unreadable", "id", id, "path", path, "err", err)
			return
		}
		j.scriptExecutor(id, logger, string(src))(fired)
	}
}

// RunOnce executes the job synchronously, without registering it on a
// schedule, and returns the command's or script's error.
func (j Job) RunOnce(ctx context.Context) error {
	switch j.Kind {
	case wire.JobCommand:
		cmd := exec.CommandContext(ctx, j.Path, j.Args...)
		return cmd.Run()
	case wire.JobScript:
		vm := goja.New()
		_, err := vm.RunString(j.Src)
		return err
	case wire.JobScriptFile:
		src, err := os.ReadFile(j.Path)
		if err != nil {
			return fmt.Errorf("job: read script file: %w", err)
		}
		vm := goja.New()
		_, err = vm.RunString(string(src))
		return err
	default:
		return fmt.Errorf("job: unknown kind %q", j.Kind)
	}
}
