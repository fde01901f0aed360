package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"agro-market.backend/pkg/logger"
	"agro-market.backend/pkg/metrics"
)

const DefaultSweepInterval = 30 * time.Second

// Sweeper flips every overdue record it owns and reports how many changed.
type Sweeper interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// SweeperFunc adapts a function to Sweeper.
type SweeperFunc func(ctx context.Context, now time.Time) (int64, error)

func (f SweeperFunc) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	return f(ctx, now)
}

// ExpiryJob runs a Sweeper on a fixed interval until stopped.
type ExpiryJob struct {
	name     string
	sweeper  Sweeper
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewExpiryJob(name string, sweeper Sweeper, interval time.Duration) *ExpiryJob {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &ExpiryJob{
		name:     name,
		sweeper:  sweeper,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		stop:     make(chan struct{}),
	}
}

func (j *ExpiryJob) Name() string { return j.name }

// Start blocks until ctx is cancelled or Stop is called.
func (j *ExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting expiry job", zap.String("job", j.name), zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Expiry job stopped (context cancelled)", zap.String("job", j.name))
			return
		case <-j.stop:
			logger.Info(ctx, "Expiry job stopped", zap.String("job", j.name))
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *ExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// RunOnce performs a single sweep. Errors are logged; the next tick retries.
func (j *ExpiryJob) RunOnce(ctx context.Context) int64 {
	n, err := j.sweeper.ExpireDue(ctx, j.now())
	if err != nil {
		logger.Error(ctx, "Expiry sweep failed", zap.String("job", j.name), zap.Error(err))
		return 0
	}
	if n == 0 {
		return 0
	}
	metrics.ExpiredRecords.WithLabelValues(j.name).Add(float64(n))
	logger.Info(ctx, "Expired records", zap.String("job", j.name), zap.Int64("count", n))
	return n
}
