package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor periodically sweeps idle keys out of a MemoryLimiter so the key map
// does not grow with every address ever seen.
type Janitor struct {
	limiter *MemoryLimiter
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewJanitor(limiter *MemoryLimiter, interval time.Duration, logger *zap.Logger) (*Janitor, error) {
	if interval < time.Second {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		limiter: limiter,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, err
	}
	return j, nil
}

// Run performs one sweep.
func (j *Janitor) Run() {
	removed := j.limiter.Sweep(time.Now())
	if removed > 0 {
		j.logger.Debug("rate limit windows swept", zap.Int("removed", removed), zap.Int("tracked", j.limiter.Len()))
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("rate limit janitor started")
}

func (j *Janitor) Stop(ctx context.Context) {
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("rate limit janitor stopped")
}
