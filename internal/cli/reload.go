package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/pkg/domain"
)

// Debounce is how long Reload waits for a burst of change events to settle.
var Debounce = 100 * time.Millisecond

// WatchAndReload reloads v every time its loader reports a change, until ctx
// is done or the loader stops watching. A failed reload is logged and the
// previous Type Map stays active.
func WatchAndReload(ctx context.Context, v *atv.Validator, logger *slog.Logger) error {
	events, err := v.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("Watching types for changes")

	current := v.TypeMap()
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("Type changed", "type", name)
			open := settle(ctx, events)
			if ctx.Err() != nil {
				return nil
			}

			if err := v.Reload(ctx); err != nil {
				logger.Error("Reload failed, keeping previous types", "err", err)
				continue
			}
			next := v.TypeMap()
			if diff := domain.Diff(current, next); diff != nil {
				logger.Info("Types reloaded", "added", diff.Added, "changed", diff.Changed, "removed", diff.Removed)
			}
			current = next
			if !open {
				return nil
			}
		}
	}
}

// settle drains events until none arrive for Debounce. It reports false once
// the channel is closed or ctx ends.
func settle(ctx context.Context, events <-chan string) bool {
	timer := time.NewTimer(Debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return false
			}
			timer.Reset(Debounce)
		case <-timer.C:
			return true
		}
	}
}
