package chain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// storagePrefix is the first byte of all contract storage keys.
const storagePrefix = 0x70

// Tx is a single transaction of the Chain.
type Tx struct {
	store  *storage.MemCachedStore
	log    *zap.Logger
	events []state.NotificationEvent

	// first storage failure, fails the transaction
	err error
}

func newTx(store *storage.MemCachedStore, log *zap.Logger) *Tx {
	return &Tx{
		store: store,
		log:   log,
	}
}

// Storage returns storage context of the contract with the given address.
func (t *Tx) Storage(contract util.Uint160) Context {
	return Context{
		tx:       t,
		contract: contract,
	}
}

// Notifications returns notifications emitted within the transaction so far.
func (t *Tx) Notifications() []state.NotificationEvent {
	return t.events
}

func (t *Tx) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

// Context is a storage context of the particular contract within the
// transaction.
type Context struct {
	tx       *Tx
	contract util.Uint160
}

// Contract returns the address of the contract the Context belongs to.
func (c Context) Contract() util.Uint160 {
	return c.contract
}

func (c Context) key(key []byte) []byte {
	k := make([]byte, 0, 1+util.Uint160Size+len(key))
	k = append(k, storagePrefix)
	k = append(k, c.contract.BytesBE()...)
	return append(k, key...)
}

// Get returns the value stored by key or nil if there is none. Storage
// failures fail the whole transaction.
func (c Context) Get(key []byte) []byte {
	v, err := c.tx.store.Get(c.key(key))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			c.tx.fail(fmt.Errorf("read %s storage: %w", c.contract.StringLE(), err))
		}
		return nil
	}

	return bytes.Clone(v)
}

// Put stores the value by key.
func (c Context) Put(key, value []byte) {
	c.tx.store.Put(c.key(key), bytes.Clone(value))
}

// Delete removes the value stored by key.
func (c Context) Delete(key []byte) {
	c.tx.store.Delete(c.key(key))
}

// Notify emits the named notification with the given fields on behalf of the
// contract. Notifications are published only if the transaction is committed.
func (c Context) Notify(name string, args ...stackitem.Item) {
	c.tx.events = append(c.tx.events, state.NotificationEvent{
		ScriptHash: c.contract,
		Name:       name,
		Item:       stackitem.NewArray(args),
	})
}

// Log writes the message on behalf of the contract.
func (c Context) Log(msg string, fields ...zap.Field) {
	c.tx.log.Info(msg, append(fields, zap.String("contract", c.contract.StringLE()))...)
}
