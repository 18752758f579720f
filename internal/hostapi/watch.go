package hostapi

import (
	"context"
	"time"
)

// DefaultWatchInterval is how often the daemon polls clipboard ownership.
const DefaultWatchInterval = time.Second

// Watch polls ownership of the active buffer every interval and logs when
// another application takes it over. It returns when ctx is done. A
// non-positive interval disables watching.
func (srv *Server) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	var owned bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			owned = srv.checkOwnership(owned)
		}
	}
}

// checkOwnership returns the current ownership state, logging an owned to
// lost transition.
func (srv *Server) checkOwnership(wasOwned bool) bool {
	srv.mu.Lock()
	owned := srv.s.Owned()
	mode := srv.s.Mode()
	srv.mu.Unlock()

	if wasOwned && !owned {
		srv.log.Info("clipboard ownership lost", "backend", srv.s.Backend(), "mode", mode)
	}
	return owned
}
