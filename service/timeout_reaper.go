package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// TimeoutReaper periodically sweeps active games past their deadline back
// into the waiting pool.
type TimeoutReaper struct {
	games    GameService
	interval time.Duration
}

// NewTimeoutReaper creates a reaper sweeping at the given interval.
func NewTimeoutReaper(games GameService, interval time.Duration) *TimeoutReaper {
	return &TimeoutReaper{games: games, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (r *TimeoutReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.WithField("interval", r.interval).Info("Timeout reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Timeout reaper stopped")
			return
		case <-ticker.C:
			recycled, err := r.games.ReapExpired(ctx)
			if err != nil {
				log.WithError(err).Error("Timeout sweep failed")
				continue
			}
			if recycled > 0 {
				log.WithField("count", recycled).Info("Recycled expired games")
			}
		}
	}
}
