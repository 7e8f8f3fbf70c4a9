package agent

import (
	"context"
	"time"
)

// Heartbeat fires a callback at a fixed interval until stopped. It stops on
// its own when the parent context is cancelled; Stop waits for the goroutine
// to exit so callers can rely on no beats after it returns.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func StartHeartbeat(ctx context.Context, interval time.Duration, beat func()) *Heartbeat {
	ctx, cancel := context.WithCancel(ctx)
	hb := &Heartbeat{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(hb.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				beat()
			}
		}
	}()

	return hb
}

func (h *Heartbeat) Stop() {
	h.cancel()
	<-h.done
}
