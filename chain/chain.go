package chain

import (
	"fmt"
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
	"go.uber.org/zap"
)

// Chain applies contract transactions atomically on top of the persistent
// store and publishes their notifications.
type Chain struct {
	log    *zap.Logger
	events eventlog.Log

	mtx   sync.RWMutex
	store *storage.MemCachedStore
}

// New returns Chain working on top of the given store and event log. Nil
// logger disables logging.
func New(backend storage.Store, events eventlog.Log, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}

	return &Chain{
		log:    log,
		events: events,
		store:  storage.NewMemCachedStore(backend),
	}
}

// NewMemory returns Chain working in memory only.
func NewMemory(log *zap.Logger) *Chain {
	return New(storage.NewMemoryStore(), eventlog.NewMemory(), log)
}

// Events returns the event log the Chain publishes notifications to.
func (c *Chain) Events() eventlog.Log {
	return c.events
}

// Invoke runs f within a new transaction. Changes made by f are committed
// only if f returns nil, notifications are published along with them.
// The error returned by f is returned as is.
func (c *Chain) Invoke(f func(tx *Tx) error) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	tx := newTx(storage.NewMemCachedStore(c.store), c.log)

	err := f(tx)
	if err == nil {
		err = tx.err
	}
	if err != nil {
		c.log.Debug("transaction rejected", zap.Error(err))
		return err
	}

	if len(tx.events) > 0 {
		err = c.events.Append(tx.events...)
		if err != nil {
			return fmt.Errorf("publish %d notifications: %w", len(tx.events), err)
		}
	}

	// both stores are in memory, so this can't fail as long as the events are
	// published
	_, err = tx.store.PersistSync()
	if err != nil {
		return fmt.Errorf("persist transaction changes: %w", err)
	}

	_, err = c.store.PersistSync()
	if err != nil {
		// state is committed in the cache and will be flushed with the next
		// transaction
		c.log.Error("failed to flush committed state to the backing store", zap.Error(err))
	}

	c.log.Debug("transaction committed", zap.Int("notifications", len(tx.events)))

	return nil
}

// View runs f within a read-only transaction. Any changes made by f are
// discarded, notifications are not published.
func (c *Chain) View(f func(tx *Tx) error) error {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	tx := newTx(storage.NewMemCachedStore(c.store), c.log)

	if err := f(tx); err != nil {
		return err
	}

	return tx.err
}

// Close flushes the committed state and closes the backing store.
func (c *Chain) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, err := c.store.PersistSync(); err != nil {
		return fmt.Errorf("flush committed state: %w", err)
	}

	return c.store.Close()
}
