package webhook

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// replayGuard remembers delivery ids that were already relayed so GitHub
// redeliveries of a successful request are acknowledged without re-sending.
// It is process local and a nil guard remembers nothing.
type replayGuard struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func newReplayGuard(cfg ReplayConfig) *replayGuard {
	if cfg.Size <= 0 {
		return nil
	}
	return &replayGuard{
		seen: expirable.NewLRU[string, struct{}](cfg.Size, nil, cfg.Window),
	}
}

// Claim records id and reports whether it was not already held within the
// window. Concurrent claims of the same id succeed exactly once.
func (g *replayGuard) Claim(id string) bool {
	if g == nil || id == "" {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Peek honours the expiry window, Contains does not.
	if _, ok := g.seen.Peek(id); ok {
		return false
	}
	g.seen.Add(id, struct{}{})
	return true
}

// Release forgets id so a failed request can be redelivered.
func (g *replayGuard) Release(id string) {
	if g == nil || id == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen.Remove(id)
}

// defaultReplayWindow applies when a size is configured without a window.
const defaultReplayWindow = 10 * time.Minute
