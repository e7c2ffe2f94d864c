package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// StatusReporter publishes a worker's status to the monitor on a heartbeat,
// so operators can see what each worker instance is doing and whether it is
// healthy. Each reporter owns one worker identity for its lifetime.
type StatusReporter struct {
	monitor *Monitor
	logger  *zap.Logger

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
}

// NewStatusReporter creates a reporter for one worker instance of the given
// type, assigning it a fresh worker ID.
func NewStatusReporter(client rueidis.Client, workerType string, logger *zap.Logger) *StatusReporter {
	return &StatusReporter{
		monitor: NewMonitor(client, logger),
		logger:  logger.Named("status_reporter"),
		status: Status{
			WorkerID:   uuid.New().String(),
			WorkerType: workerType,
			IsHealthy:  true,
		},
	}
}

// Start begins heartbeat reporting until Stop is called or ctx is done.
// Calling Start on a running reporter is a no-op.
func (r *StatusReporter) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)

	go r.run(ctx)
}

// Stop ends heartbeat reporting. Safe to call more than once.
func (r *StatusReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// UpdateStatus records the worker's current task and progress percentage.
// The change is published on the next heartbeat.
func (r *StatusReporter) UpdateStatus(task string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.CurrentTask = task
	r.status.Progress = progress
}

// SetHealthy records the worker's health state.
func (r *StatusReporter) SetHealthy(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.IsHealthy = healthy
}

// GetWorkerID returns the worker's assigned ID.
func (r *StatusReporter) GetWorkerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status.WorkerID
}

// run reports immediately and then on every heartbeat tick.
func (r *StatusReporter) run(ctx context.Context) {
	r.report(ctx)

	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.report(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *StatusReporter) report(ctx context.Context) {
	r.mu.Lock()
	status := r.status
	r.mu.Unlock()

	if err := r.monitor.ReportStatus(ctx, status); err != nil {
		r.logger.Error("Failed to report status", zap.Error(err))
	}
}
