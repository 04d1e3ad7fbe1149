package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/logger"
)

// taskTimeout is how long an asynchronous action may stay in flight before it
// is failed by the periodic sweep.
const taskTimeout = 15 * time.Minute

func (d *Daemon) runPeriodicTask(ctx context.Context, task string, f func(context.Context) error, interval time.Duration) {
	go func() {
		for {
			err := f(ctx)
			if err != nil {
				slog.Error("Failed to run periodic task", slog.String("task", task), logger.Err(err))
			}

			t := time.NewTimer(interval)

			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
				t.Stop()
			}
		}
	}()
}

// consumeReports applies backend completion reports until shutdown.
func (d *Daemon) consumeReports(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case report := <-d.reports:
			err := d.dispatcher.HandleReport(ctx, report)
			if err != nil {
				if errors.Is(err, compute.ErrStaleReport) {
					slog.Warn("Discarding stale completion report", slog.String("server", report.ServerUUID.String()), slog.String("action", report.Action))
					continue
				}

				slog.Error("Failed to apply completion report", slog.String("server", report.ServerUUID.String()), slog.String("action", report.Action), logger.Err(err))
			}
		}
	}
}

// failStuckTasks moves servers whose in-flight action exceeded the task
// timeout into the error state.
func (d *Daemon) failStuckTasks(ctx context.Context) error {
	return d.dispatcher.FailStuck(ctx, taskTimeout)
}
