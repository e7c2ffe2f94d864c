package core_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/alwat83/ifyoumind/internal/worker/core"
	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (rueidis.Client, *miniredis.Miniredis, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		mr.Close()
		client.Close()
	}

	return client, mr, cleanup
}

func TestReportStatus(t *testing.T) {
	t.Parallel()
	client, mr, cleanup := setupTest(t)
	defer cleanup()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	monitor := core.NewMonitor(client, logger)

	err = monitor.ReportStatus(t.Context(), core.Status{
		WorkerID:    "worker-1",
		WorkerType:  "trending",
		CurrentTask: "Recomputing trending scores",
		Progress:    20,
		IsHealthy:   true,
	})
	require.NoError(t, err)

	raw, err := mr.Get("worker_status:worker-1")
	require.NoError(t, err)

	var stored core.Status
	require.NoError(t, sonic.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "trending", stored.WorkerType)
	assert.Equal(t, 20, stored.Progress)
	assert.True(t, stored.IsHealthy)
	assert.False(t, stored.ReportedAt.IsZero())
}

func TestReportStatusExpires(t *testing.T) {
	t.Parallel()
	client, mr, cleanup := setupTest(t)
	defer cleanup()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	monitor := core.NewMonitor(client, logger)

	err = monitor.ReportStatus(t.Context(), core.Status{
		WorkerID:   "worker-1",
		WorkerType: "trending",
		IsHealthy:  true,
	})
	require.NoError(t, err)

	mr.FastForward(core.StatusTTL + time.Second)

	assert.False(t, mr.Exists("worker_status:worker-1"))
}

func TestStatusReporterHeartbeat(t *testing.T) {
	t.Parallel()
	client, _, cleanup := setupTest(t)
	defer cleanup()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	reporter := core.NewStatusReporter(client, "trending", logger)
	assert.NotEmpty(t, reporter.GetWorkerID())

	reporter.Start(t.Context())
	defer reporter.Stop()

	key := "worker_status:" + reporter.GetWorkerID()

	// The initial report happens asynchronously shortly after Start
	assert.Eventually(t, func() bool {
		count, err := client.Do(t.Context(), client.B().Exists().Key(key).Build()).AsInt64()
		return err == nil && count == 1
	}, time.Second, 10*time.Millisecond)
}
