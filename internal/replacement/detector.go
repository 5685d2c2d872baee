package replacement

import (
	"context"
	"log/slog"
	"time"
)

// Detector ticks the no-show scan at a fixed cadence. The cadence is
// deployment configuration; the scan itself is safe to run from several
// replicas at once because each shift flip is a conditional update.
type Detector struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

func NewDetector(service *Service, interval time.Duration, logger *slog.Logger) *Detector {
	return &Detector{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled.
func (d *Detector) Run(ctx context.Context) error {
	d.logger.Info("no-show detector started", "interval", d.interval.String())

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("no-show detector stopping")
			return ctx.Err()
		case <-ticker.C:
			result, err := d.service.DetectNoShows(ctx, time.Now())
			if err != nil {
				d.logger.Error("no-show scan failed", "error", err)
				continue
			}
			if result.NoShowsMarked > 0 {
				d.logger.Info("no-show scan finished",
					"scanned", result.ShiftsScanned,
					"marked", result.NoShowsMarked,
					"notified", result.NotificationsSent)
			}
		}
	}
}
