// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shelf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

// StartAutoRefresh runs a background timer that reloads the default
// category at the configured interval. A tick is skipped when a load for
// that category is already in flight; the flag is only checked at fire
// time, there is no queueing. Progress and failures are written to w.
//
// Calling StartAutoRefresh while a timer is already running restarts it,
// picking up the current interval and default category.
func (c *Controller) StartAutoRefresh(ctx context.Context, w io.Writer) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	cfg := c.settings.Shelf()
	c.mu.Unlock()

	interval := c.RefreshEvery
	if interval <= 0 {
		interval = time.Duration(cfg.RefreshInterval) * time.Minute
	}
	if interval <= 0 {
		interval = time.Duration(types.DefaultShelfConfig().RefreshInterval) * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				cat := c.settings.Shelf().DefaultCategory
				if c.Loading(cat) {
					continue
				}
				if _, err := c.LoadCategory(ctx, cat); err != nil {
					fmt.Fprintf(w, "auto-refresh %s failed: %v\n", cat, err)
				} else {
					fmt.Fprintf(w, "auto-refresh %s done\n", cat)
				}
			}
		}
	}()
}

// StopAutoRefresh stops the background timer if one is running.
func (c *Controller) StopAutoRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
