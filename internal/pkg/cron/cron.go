// Package cron runs named background jobs on fixed intervals and keeps each
// job's last outcome for the jobs admin routes.
package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status is a job's last known outcome.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
)

// Job is a background task run on a fixed interval.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	Fn          func(ctx context.Context) error
}

// Snapshot is the admin view of one job.
type Snapshot struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Message     string     `json:"message,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	NextRunAt   time.Time  `json:"next_run_at"`
}

type jobState struct {
	Job

	mu      sync.Mutex
	status  Status
	message string
	lastRun *time.Time
	nextRun time.Time
}

func (js *jobState) snapshot() Snapshot {
	js.mu.Lock()
	defer js.mu.Unlock()
	return Snapshot{
		Name:        js.Name,
		Description: js.Description,
		Status:      js.status,
		Message:     js.message,
		LastRunAt:   js.lastRun,
		NextRunAt:   js.nextRun,
	}
}

// Scheduler owns the registered jobs.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
}

func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*jobState)}
}

// Register adds a job. Call before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &jobState{
		Job:     job,
		status:  StatusIdle,
		nextRun: time.Now().Add(job.Interval),
	}
}

// Start launches one goroutine per registered job, each running until ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		go s.loop(ctx, js)
	}
}

func (s *Scheduler) loop(ctx context.Context, js *jobState) {
	for {
		js.mu.Lock()
		wait := time.Until(js.nextRun)
		js.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			s.execute(ctx, js)
		}
	}
}

// execute runs one job. A job already running (a manual trigger overlapping
// the schedule) is not run twice; its next slot still moves forward.
func (s *Scheduler) execute(ctx context.Context, js *jobState) {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.nextRun = time.Now().Add(js.Interval)
		js.mu.Unlock()
		return
	}
	js.status = StatusRunning
	js.mu.Unlock()

	started := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.lastRun = &started
	js.nextRun = time.Now().Add(js.Interval)
	if err != nil {
		js.status = StatusFailed
		js.message = err.Error()
	} else {
		js.status = StatusOK
		js.message = ""
	}
	js.mu.Unlock()
}

// Run triggers a job out of schedule, waits for it, and returns the
// resulting snapshot.
func (s *Scheduler) Run(ctx context.Context, name string) (Snapshot, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, fmt.Errorf("job %q not found", name)
	}
	s.execute(ctx, js)
	return js.snapshot(), nil
}

// Get returns the current state of one job.
func (s *Scheduler) Get(name string) (Snapshot, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, fmt.Errorf("job %q not found", name)
	}
	return js.snapshot(), nil
}

// List returns all jobs sorted by name.
func (s *Scheduler) List() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, len(s.jobs))
	for _, js := range s.jobs {
		out = append(out, js.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
