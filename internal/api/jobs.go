package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// Job statuses, in lifecycle order.
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobError   = "error"
)

// Job is one queued audit and, once finished, its outcome.
type Job struct {
	ID         string             `json:"id"`
	URL        string             `json:"url"`
	Keyword    string             `json:"keyword,omitempty"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	Result     *audit.Result      `json:"result,omitempty"`
	Error      *audit.TargetError `json:"error,omitempty"`
}

// JobRequest is the POST /api/v1/audits payload.
type JobRequest struct {
	URL     string `json:"url"`
	Keyword string `json:"keyword,omitempty"`
}

// JobManager runs audits asynchronously and retains a bounded window of
// finished jobs in memory. All methods are safe for concurrent use.
type JobManager struct {
	mu          sync.RWMutex
	auditor     *audit.Auditor
	jobs        map[string]*Job
	subscribers map[chan Job]struct{}
	maxJobs     int
	timeout     time.Duration
	metrics     *Metrics
}

// NewJobManager builds a manager that audits with the given auditor. It
// keeps at most 1000 jobs by default; SetMaxJobs adjusts the cap.
func NewJobManager(auditor *audit.Auditor) *JobManager {
	return &JobManager{
		auditor:     auditor,
		jobs:        make(map[string]*Job),
		subscribers: make(map[chan Job]struct{}),
		maxJobs:     1000,
	}
}

// SetMaxJobs bounds how many jobs stay in memory. Oldest finished jobs are
// pruned first; pending and running jobs are never pruned.
func (m *JobManager) SetMaxJobs(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > 0 {
		m.maxJobs = max
	}
}

// SetTimeout bounds each job's audit. Zero means the fetch client's own
// timeout is the only limit.
func (m *JobManager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

// SetMetrics wires audit counters into the manager. Nil disables them.
func (m *JobManager) SetMetrics(met *Metrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = met
}

// StartJob queues an audit and returns immediately with the pending job.
// The audit itself runs detached from the request context, since the
// response is written long before the audit finishes.
func (m *JobManager) StartJob(ctx context.Context, req JobRequest) (*Job, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, apperrors.ErrEmptyTargetURL
	}

	m.mu.Lock()
	job := &Job{
		ID:        generateJobID(),
		URL:       req.URL,
		Keyword:   req.Keyword,
		Status:    JobPending,
		CreatedAt: time.Now().UTC(),
	}
	m.jobs[job.ID] = job
	m.pruneLocked()
	m.broadcastLocked(*job)
	timeout := m.timeout
	m.mu.Unlock()

	go m.run(job.ID, timeout)

	snapshot := *job
	return &snapshot, nil
}

// run executes one job to completion.
func (m *JobManager) run(id string, timeout time.Duration) {
	started := time.Now().UTC()
	m.update(id, func(j *Job) {
		j.Status = JobRunning
		j.StartedAt = &started
	})

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	m.mu.RLock()
	auditor := m.auditor
	target := audit.Target{}
	if job, ok := m.jobs[id]; ok {
		target = audit.Target{URL: job.URL, Keyword: job.Keyword}
	}
	metrics := m.metrics
	m.mu.RUnlock()

	result, err := auditor.Run(ctx, target)
	finished := time.Now().UTC()

	m.update(id, func(j *Job) {
		j.FinishedAt = &finished
		if err != nil {
			j.Status = JobError
			j.Error = audit.Classify(err)
			return
		}
		j.Status = JobDone
		j.Result = result
	})

	if metrics != nil {
		errType := ""
		if err != nil {
			errType = audit.Classify(err).Type
		}
		metrics.ObserveAudit(finished.Sub(started), errType)
	}
}

// update mutates a job under the lock and broadcasts the new state.
func (m *JobManager) update(id string, fn func(*Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	fn(job)
	m.broadcastLocked(*job)
}

// GetJob returns a copy of the job, or nil when unknown.
func (m *JobManager) GetJob(ctx context.Context, id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %q not found", id)
	}
	snapshot := *job
	return &snapshot, nil
}

// ListJobs returns up to limit jobs, newest first.
func (m *JobManager) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID > jobs[j].ID
	})

	if limit > 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// Subscribe registers for job state changes. The returned func unsubscribes
// and closes the channel; it is safe to call more than once.
func (m *JobManager) Subscribe() (chan Job, func()) {
	ch := make(chan Job, 16)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
}

// broadcastLocked fans a state change out to every subscriber without
// blocking; a subscriber with a full buffer misses the update.
func (m *JobManager) broadcastLocked(job Job) {
	for ch := range m.subscribers {
		select {
		case ch <- job:
		default:
		}
	}
}

// pruneLocked drops the oldest finished jobs once the cap is exceeded.
func (m *JobManager) pruneLocked() {
	excess := len(m.jobs) - m.maxJobs
	if excess <= 0 {
		return
	}

	type finishedJob struct {
		id string
		at time.Time
	}
	var finished []finishedJob
	for id, job := range m.jobs {
		if job.Status != JobDone && job.Status != JobError {
			continue
		}
		at := job.CreatedAt
		if job.FinishedAt != nil {
			at = *job.FinishedAt
		}
		finished = append(finished, finishedJob{id: id, at: at})
	}
	sort.Slice(finished, func(i, j int) bool {
		return finished[i].at.Before(finished[j].at)
	})

	if excess > len(finished) {
		excess = len(finished)
	}
	for i := 0; i < excess; i++ {
		delete(m.jobs, finished[i].id)
	}
}

// generateJobID returns an unguessable job identifier.
func generateJobID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("job_%d", time.Now().UnixNano())
	}
	return "job_" + hex.EncodeToString(b)
}
