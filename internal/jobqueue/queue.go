// Package jobqueue implements the in-memory submission queue: an unbounded
// FIFO of job ids, a concurrent job store, and a fixed pool of workers.
// Jobs are transient; nothing survives a process restart.
package jobqueue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/logger"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// Status is the lifecycle state of a job. Transitions are monotonic:
// queued -> running -> done | error.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Payload is the submission a job wraps.
type Payload struct {
	UserID    string `json:"user_id"`
	ProblemID int    `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// ProcessFunc judges one payload. A returned error (or a panic, which is
// recovered) moves the job to the error status; it never stops the worker.
type ProcessFunc func(ctx context.Context, payload Payload) (interface{}, error)

type job struct {
	mu        sync.Mutex
	id        string
	status    Status
	payload   Payload
	result    interface{}
	errMsg    string
	createdAt time.Time
	updatedAt time.Time
}

// Snapshot is an immutable view of a job, safe to hand to callers while the
// worker keeps mutating the underlying record.
type Snapshot struct {
	ID        string      `json:"id"`
	Status    Status      `json:"status"`
	Payload   Payload     `json:"payload"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (j *job) snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		ID:        j.id,
		Status:    j.status,
		Payload:   j.payload,
		Result:    j.result,
		Error:     j.errMsg,
		CreatedAt: j.createdAt,
		UpdatedAt: j.updatedAt,
	}
}

// transition moves the job forward if it is in the expected state. Terminal
// jobs never change again.
func (j *job) transition(from, to Status, result interface{}, errMsg string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != from || j.status.Terminal() {
		return false
	}
	j.status = to
	j.result = result
	j.errMsg = errMsg
	j.updatedAt = time.Now()
	return true
}

// Queue is the shared FIFO plus job store. Construct one per process and
// inject it into the ingress paths; there is no package-level instance.
type Queue struct {
	jobs    *xsync.MapOf[string, *job]
	workers int
	started atomic.Bool
	wg      sync.WaitGroup

	mu       sync.Mutex
	notEmpty *sync.Cond
	pending  []string
	closed   bool
}

// New creates a queue with the given worker count (clamped to at least one).
func New(workers int) *Queue {
	if workers < 1 {
		workers = 1
	}
	q := &Queue{
		jobs:    xsync.NewMapOf[string, *job](),
		workers: workers,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// CreateJob allocates a queued job, appends it to the FIFO and returns its id.
// It never blocks the caller.
func (q *Queue) CreateJob(payload Payload) string {
	now := time.Now()
	j := &job{
		id:        uuid.NewString(),
		status:    StatusQueued,
		payload:   payload,
		createdAt: now,
		updatedAt: now,
	}
	q.jobs.Store(j.id, j)

	q.mu.Lock()
	q.pending = append(q.pending, j.id)
	q.mu.Unlock()
	q.notEmpty.Signal()
	return j.id
}

// GetJob returns a snapshot of the job, or ok=false if no such job was ever
// created. "Not found" is distinct from "still queued".
func (q *Queue) GetJob(id string) (Snapshot, bool) {
	j, ok := q.jobs.Load(id)
	if !ok {
		return Snapshot{}, false
	}
	return j.snapshot(), true
}

// Len returns the number of ids waiting to be dequeued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// StartWorkersOnce launches the worker pool. Calls after the first successful
// start are no-ops.
func (q *Queue) StartWorkersOnce(ctx context.Context, process ProcessFunc) {
	if !q.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.workerLoop(ctx, i, process)
	}
	logger.Info(ctx, "judge workers started", zap.Int("workers", q.workers))
}

// Close stops the workers after the FIFO drains of dequeued items and waits
// for in-flight jobs to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notEmpty.Broadcast()
	q.wg.Wait()
}

// dequeue blocks until an id is available or the queue is closed.
func (q *Queue) dequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.pending) == 0 {
		return "", false
	}
	id := q.pending[0]
	q.pending = q.pending[1:]
	return id, true
}

func (q *Queue) workerLoop(ctx context.Context, workerID int, process ProcessFunc) {
	defer q.wg.Done()
	for {
		id, ok := q.dequeue()
		if !ok {
			return
		}
		j, ok := q.jobs.Load(id)
		if !ok {
			continue
		}
		if !j.transition(StatusQueued, StatusRunning, nil, "") {
			continue
		}

		result, err := q.runProcess(ctx, process, j.payload)
		if err != nil {
			j.transition(StatusRunning, StatusError, nil, err.Error())
			logger.Error(ctx, "job failed",
				zap.Int("worker", workerID),
				zap.String("job_id", id),
				zap.Error(err),
			)
			continue
		}
		j.transition(StatusRunning, StatusDone, result, "")
		logger.Debug(ctx, "job done", zap.Int("worker", workerID), zap.String("job_id", id))
	}
}

// runProcess isolates one job: a panic inside process is recovered and
// reported as the job's error so the worker loop keeps going.
func (q *Queue) runProcess(ctx context.Context, process ProcessFunc, payload Payload) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing job: %v", r)
		}
	}()
	return process(ctx, payload)
}
