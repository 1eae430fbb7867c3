// Package cronengine wraps robfig/cron/v3 with the seconds-first, optional
// year-field grammar the wire protocol exposes, and tracks per-job
// last-tick/next-tick state for ListJobs snapshots.
package cronengine

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/nextlevelbuilder/cronus/internal/job"
	"github.com/nextlevelbuilder/cronus/pkg/wire"
)

// entryMeta tracks everything the engine needs about one registered job
// beyond what robfig/cron itself remembers.
type entryMeta struct {
	entryID  cron.EntryID
	cronExpr string
	job      job.Job
	lastTick *time.Time
}

// Engine owns the cron runner and the job registry layered on top of it.
type Engine struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	entries map[uuid.UUID]*entryMeta
}

// New builds an Engine with second-resolution, local-timezone scheduling,
// matching the three retrieved repos (littleclaw, liteclaw, devclaw) that
// configure robfig/cron the same way.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		entries: make(map[uuid.UUID]*entryMeta),
	}
}

// Start begins firing registered jobs. Safe to call once.
func (e *Engine) Start() { e.cron.Start() }

// Shutdown stops the runner and waits for in-flight firings to return,
// per robfig/cron's own drain semantics.
func (e *Engine) Shutdown() {
	ctx := e.cron.Stop()
	<-ctx.Done()
}

// normalizeCron splits an optional trailing year field off the spec's
// 6-or-7-field grammar, validates it syntactically, and returns the
// 6-field string robfig/cron understands. robfig/cron has no year concept;
// the field is accepted for wire-grammar compatibility and otherwise
// ignored, per the Open Question resolution.
func normalizeCron(expr string) (string, error) {
	fields := strings.Fields(expr)
	switch len(fields) {
	case 6:
		return expr, nil
	case 7:
		year := fields[6]
		if year != "*" {
			if _, err := strconv.Atoi(year); err != nil {
				return "", fmt.Errorf("cronengine: bad year field %q", year)
			}
		}
		return strings.Join(fields[:6], " "), nil
	default:
		return "", fmt.Errorf("cronengine: expected 6 or 7 fields, got %d", len(fields))
	}
}

// Validate reports whether expr is an acceptable cron expression without
// registering anything, mirroring the teacher's own validateSchedule gate
// (internal/cron/service.go) which pre-checks with gronx before committing
// a job to the schedule.
func Validate(expr string) error {
	sixField, err := normalizeCron(expr)
	if err != nil {
		return err
	}
	if !gronx.New().IsValid(sixField) {
		return fmt.Errorf("cronengine: invalid cron expression %q", expr)
	}
	return nil
}

// Register validates expr, builds j's executor, and schedules it. It
// returns the freshly minted JobHandle on success.
func (e *Engine) Register(cronExpr string, j job.Job) (uuid.UUID, error) {
	sixField, err := normalizeCron(cronExpr)
	if err != nil {
		return uuid.UUID{}, err
	}
	if !gronx.New().IsValid(sixField) {
		return uuid.UUID{}, fmt.Errorf("cronengine: invalid cron expression %q", cronExpr)
	}

	id := uuid.New()
	meta := &entryMeta{cronExpr: cronExpr, job: j}

	wrapped := j.Executor(id.String(), e.logger)
	entryID, err := e.cron.AddFunc(sixField, func() {
		fired := time.Now()
		e.mu.Lock()
		meta.lastTick = &fired
		e.mu.Unlock()
		wrapped(fired)
	})
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cronengine: schedule: %w", err)
	}
	meta.entryID = entryID

	e.mu.Lock()
	e.entries[id] = meta
	e.mu.Unlock()

	e.logger.Info("job registered", "id", id, "cron", cronExpr, "job", j.Describe())
	return id, nil
}

// Deregister removes a job by handle. Returns false if the handle is
// unknown (the BadId error case).
func (e *Engine) Deregister(id uuid.UUID) bool {
	e.mu.Lock()
	meta, ok := e.entries[id]
	if ok {
		delete(e.entries, id)
	}
	e.mu.Unlock()

	if !ok {
		return false
	}
	e.cron.Remove(meta.entryID)
	e.logger.Info("job deregistered", "id", id)
	return true
}

// Snapshot returns the current job list in a stable order (sorted by job
// id), suitable for a
// ListJobs reply.
func (e *Engine) Snapshot() []wire.JobInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]wire.JobInfo, 0, len(e.entries))
	for id, meta := range e.entries {
		info := wire.JobInfo{
			ID:   id.String(),
			Cron: meta.cronExpr,
			Job:  meta.job.ToWire(),
		}
		if meta.lastTick != nil {
			v := uint64(meta.lastTick.Unix())
			info.LastRun = &v
		}
		if entry := e.cron.Entry(meta.entryID); entry.ID != 0 {
			v := uint64(entry.Next.Unix())
			info.NextRun = &v
		}
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Len reports the number of registered jobs.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}
