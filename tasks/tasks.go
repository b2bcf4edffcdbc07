package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/paycrest/bridge-wallet/utils/logger"
)

// Poller is refreshed on a schedule
type Poller interface {
	Refresh(ctx context.Context) error
}

// PollStatus refreshes the verification status once
func PollStatus(poller Poller, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := poller.Refresh(ctx); err != nil {
		logger.WithFields(logger.Fields{
			"Error": fmt.Sprintf("%v", err),
		}).Warnf("PollStatus: failed to refresh status")
	}
}

// StartPolling refreshes the status every interval and returns the running
// scheduler so the caller can stop it. A poll still running when the next
// one is due is not overlapped.
func StartPolling(poller Poller, interval, timeout time.Duration) (*gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid poll interval %s", interval)
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}

	scheduler := gocron.NewScheduler(time.Local)

	_, err := scheduler.Every(interval).SingletonMode().Do(PollStatus, poller, timeout)
	if err != nil {
		return nil, fmt.Errorf("StartPolling for PollStatus: %w", err)
	}

	scheduler.StartAsync()

	return scheduler, nil
}
