// Package cache keeps id-keyed snapshots of the tracker's collections so
// dashboard and report reads avoid refetching everything from storage. Writes
// reconcile the affected entry instead of discarding the whole snapshot.
package cache

import "time"

// Cleaner is any cache that can drop its expired entries. Stores register
// themselves with a Manager through this interface.
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps registered caches on a fixed interval so expired snapshots
// are released even when nothing reads them.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		caches:      make([]Cleaner, 0),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the periodic sweep.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup launches the sweep loop. Stop ends it.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, cache := range m.caches {
				cache.CleanExpired()
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop ends the sweep loop and waits for it to exit.
func (m *Manager) Stop() {
	if m.stopCleanup != nil {
		close(m.stopCleanup)
		<-m.cleanupDone
	}
}
