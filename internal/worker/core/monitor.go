package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// HeartbeatInterval is how often workers report their status.
	HeartbeatInterval = 30 * time.Second

	// StatusTTL is how long a worker status entry lives without a heartbeat.
	StatusTTL = 2 * time.Minute

	// statusKeyPrefix is the Redis key prefix for worker status entries.
	statusKeyPrefix = "worker_status:"
)

// Status describes a worker's current state for operational monitoring.
type Status struct {
	WorkerID    string    `json:"workerId"`
	WorkerType  string    `json:"workerType"`
	CurrentTask string    `json:"currentTask"`
	Progress    int       `json:"progress"`
	IsHealthy   bool      `json:"isHealthy"`
	ReportedAt  time.Time `json:"reportedAt"`
}

// Monitor persists worker status entries in Redis.
type Monitor struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewMonitor creates a new worker status monitor.
func NewMonitor(client rueidis.Client, logger *zap.Logger) *Monitor {
	return &Monitor{
		client: client,
		logger: logger.Named("worker_monitor"),
	}
}

// ReportStatus writes a worker's status entry with a TTL so that crashed
// workers disappear from monitoring after a grace period.
func (m *Monitor) ReportStatus(ctx context.Context, status Status) error {
	status.ReportedAt = time.Now().UTC()

	data, err := sonic.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode worker status: %w", err)
	}

	key := statusKeyPrefix + status.WorkerID

	err = m.client.Do(ctx,
		m.client.B().Set().Key(key).Value(rueidis.BinaryString(data)).
			Ex(StatusTTL).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("failed to report worker status: %w", err)
	}

	return nil
}
