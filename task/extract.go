// Package task holds the recurring background jobs owned by the host
// process. The core packages expose synchronous operations only; every timer
// lives here.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/smileworthy/benefix/extract"

	"go.uber.org/zap"
)

// DailyExtractOptions contains the configuration for the daily SDF job
type DailyExtractOptions struct {
	Extracts *extract.Manager
	Hour     int // local hour of day the extract fires
	Logger   *zap.Logger
}

// DailyExtract regenerates the full SDF file once a day. The partner expects
// a wholesale regeneration on a fixed schedule, never an incremental update.
type DailyExtract struct {
	DailyExtractOptions
}

// NewDailyExtract returns the daily SDF extract task
func NewDailyExtract(option DailyExtractOptions) (*DailyExtract, error) {
	if option.Extracts == nil {
		return nil, fmt.Errorf("nil Extracts is invalid")
	}
	if option.Hour < 0 || option.Hour > 23 {
		return nil, fmt.Errorf("Hour must be between 0 and 23")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &DailyExtract{
		DailyExtractOptions: option,
	}, nil
}

// nextFiring returns the next occurrence of the configured hour after now
func (t *DailyExtract) nextFiring(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled, firing the SDF generation at the
// configured hour each day
func (t *DailyExtract) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := t.nextFiring(now)
		t.Logger.Info("Scheduled next SDF extract",
			zap.Time("At", next),
		)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case fired := <-timer.C:
			if _, err := t.Extracts.GenerateSDF(ctx, fired); err != nil {
				t.Logger.Error("Daily SDF extract failed",
					zap.Error(err),
				)
			}
		}
	}
}
