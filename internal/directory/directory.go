// Package directory maintains a live, eventually-consistent view of all
// user records, fed by the store's watch channel. Balance mutations never
// trust this cache for the committed value; it serves reads and fast
// existence checks only.
package directory

import (
	"context"
	"sync"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
)

// Source is the slice of the user repository the directory consumes.
type Source interface {
	Watch(ctx context.Context) (<-chan repository.UserSnapshot, error)
}

type Directory struct {
	source Source

	mu    sync.RWMutex
	users []domain.User
	byID  map[string]domain.User
	err   error

	observers []func([]domain.User)

	cancel   context.CancelFunc
	done     chan struct{}
	teardown sync.Once
}

func New(source Source) *Directory {
	return &Directory{
		source: source,
		byID:   make(map[string]domain.User),
		done:   make(chan struct{}),
	}
}

// Subscribe establishes the standing subscription and keeps the snapshot
// current until Teardown. On a watch error the directory keeps serving
// its last known-good snapshot and records the error.
func (d *Directory) Subscribe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	snapshots, err := d.source.Watch(ctx)
	if err != nil {
		cancel()
		return err
	}

	go func() {
		defer close(d.done)
		for snap := range snapshots {
			if snap.Err != nil {
				logger.Warn("User watch reported error, keeping last snapshot", "error", snap.Err)
				d.setError(snap.Err)
				continue
			}
			d.replace(snap.Users)
		}
	}()
	return nil
}

// CurrentUsers returns the most recently materialized snapshot. It may
// be stale by the propagation latency of the store; no bound guaranteed.
func (d *Directory) CurrentUsers() []domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.User, len(d.users))
	copy(out, d.users)
	return out
}

// Lookup resolves a user from the current snapshot. A false return does
// not prove the user is absent upstream; the snapshot may lag.
func (d *Directory) Lookup(id string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.byID[id]
	return u, ok
}

// LastError returns the most recent watch error, or nil while the
// subscription is healthy.
func (d *Directory) LastError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// OnChange registers an observer called with each full replacement
// snapshot. Observers must not block; they run on the watch goroutine.
func (d *Directory) OnChange(fn func([]domain.User)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// Teardown releases the subscription exactly once. No notifications are
// delivered afterward; safe to call repeatedly.
func (d *Directory) Teardown() {
	d.teardown.Do(func() {
		if d.cancel != nil {
			d.cancel()
			<-d.done
		}
	})
}

func (d *Directory) replace(users []domain.User) {
	d.mu.Lock()
	d.users = users
	d.byID = make(map[string]domain.User, len(users))
	for _, u := range users {
		d.byID[u.ID] = u
	}
	d.err = nil
	observers := d.observers
	d.mu.Unlock()

	for _, fn := range observers {
		fn(users)
	}
}

func (d *Directory) setError(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}
