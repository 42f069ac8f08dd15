// internal/coordinator/runner.go
package coordinator

import (
	"context"
	"time"
)

// Run drives the recurring poll loop: one immediate cycle, then one
// every scan interval, until ctx is cancelled. Cycle failures surface
// through subscriber events, not through the return value.
func (c *Coordinator) Run(ctx context.Context) {
	_ = c.Refresh(ctx)

	ticker := time.NewTicker(c.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}
