package chain

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingLog struct {
	eventlog.Memory
}

func (*failingLog) Append(...state.NotificationEvent) error {
	return errors.New("log is broken")
}

type flakyStore struct {
	*storage.MemoryStore
	fail bool
}

func (s *flakyStore) PutChangeSet(puts, stores map[string][]byte) error {
	if s.fail {
		return errors.New("disk is full")
	}
	return s.MemoryStore.PutChangeSet(puts, stores)
}

func TestChain_Invoke(t *testing.T) {
	contract := util.Uint160{1, 2, 3}
	key, value := []byte("key"), []byte("value")

	t.Run("commit", func(t *testing.T) {
		events := eventlog.NewMemory()
		c := New(storage.NewMemoryStore(), events, zaptest.NewLogger(t))

		err := c.Invoke(func(tx *Tx) error {
			ctx := tx.Storage(contract)
			ctx.Put(key, value)
			ctx.Notify("Stored", stackitem.NewByteArray(value))
			require.Len(t, tx.Notifications(), 1)
			return nil
		})
		require.NoError(t, err)

		err = c.View(func(tx *Tx) error {
			require.Equal(t, value, tx.Storage(contract).Get(key))
			require.Nil(t, tx.Storage(util.Uint160{3, 2, 1}).Get(key))
			return nil
		})
		require.NoError(t, err)

		records, err := events.Records()
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, contract, records[0].Event.ScriptHash)
		require.Equal(t, "Stored", records[0].Event.Name)
	})

	t.Run("rollback", func(t *testing.T) {
		events := eventlog.NewMemory()
		c := New(storage.NewMemoryStore(), events, zaptest.NewLogger(t))

		errReject := errors.New("rejected")
		err := c.Invoke(func(tx *Tx) error {
			ctx := tx.Storage(contract)
			ctx.Put(key, value)
			ctx.Notify("Stored")
			return errReject
		})
		require.ErrorIs(t, err, errReject)

		require.NoError(t, c.View(func(tx *Tx) error {
			require.Nil(t, tx.Storage(contract).Get(key))
			return nil
		}))
		require.Zero(t, events.Len())
	})

	t.Run("broken event log", func(t *testing.T) {
		c := New(storage.NewMemoryStore(), new(failingLog), zaptest.NewLogger(t))

		err := c.Invoke(func(tx *Tx) error {
			ctx := tx.Storage(contract)
			ctx.Put(key, value)
			ctx.Notify("Stored")
			return nil
		})
		require.Error(t, err)

		require.NoError(t, c.View(func(tx *Tx) error {
			require.Nil(t, tx.Storage(contract).Get(key))
			return nil
		}))
	})

	t.Run("no events", func(t *testing.T) {
		c := New(storage.NewMemoryStore(), new(failingLog), nil)

		require.NoError(t, c.Invoke(func(tx *Tx) error {
			tx.Storage(contract).Put(key, value)
			return nil
		}))
	})

	t.Run("delete", func(t *testing.T) {
		c := NewMemory(zaptest.NewLogger(t))

		require.NoError(t, c.Invoke(func(tx *Tx) error {
			tx.Storage(contract).Put(key, value)
			return nil
		}))
		require.NoError(t, c.Invoke(func(tx *Tx) error {
			tx.Storage(contract).Delete(key)
			return nil
		}))
		require.NoError(t, c.View(func(tx *Tx) error {
			require.Nil(t, tx.Storage(contract).Get(key))
			return nil
		}))
	})
}

func TestChain_View(t *testing.T) {
	contract := util.Uint160{1}
	c := NewMemory(zaptest.NewLogger(t))

	require.NoError(t, c.View(func(tx *Tx) error {
		ctx := tx.Storage(contract)
		ctx.Put([]byte("key"), []byte("value"))
		ctx.Notify("Ignored")
		return nil
	}))

	require.NoError(t, c.View(func(tx *Tx) error {
		require.Nil(t, tx.Storage(contract).Get([]byte("key")))
		return nil
	}))

	records, err := c.Events().Records()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestChain_Persistence(t *testing.T) {
	contract := util.Uint160{1}
	backend := storage.NewMemoryStore()

	c := New(backend, eventlog.NewMemory(), zaptest.NewLogger(t))
	require.NoError(t, c.Invoke(func(tx *Tx) error {
		tx.Storage(contract).Put([]byte("key"), []byte("value"))
		return nil
	}))

	v, err := backend.Get(append([]byte{storagePrefix}, append(contract.BytesBE(), "key"...)...))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)
}

func TestChain_FlushFailure(t *testing.T) {
	contract := util.Uint160{1}
	key := append([]byte{storagePrefix}, append(contract.BytesBE(), "key"...)...)
	backend := &flakyStore{MemoryStore: storage.NewMemoryStore(), fail: true}
	events := eventlog.NewMemory()

	c := New(backend, events, zaptest.NewLogger(t))
	require.NoError(t, c.Invoke(func(tx *Tx) error {
		ctx := tx.Storage(contract)
		ctx.Put([]byte("key"), []byte("value"))
		ctx.Notify("Stored")
		return nil
	}))

	require.Equal(t, 1, events.Len())

	require.NoError(t, c.View(func(tx *Tx) error {
		require.Equal(t, []byte("value"), tx.Storage(contract).Get([]byte("key")))
		return nil
	}))

	_, err := backend.Get(key)
	require.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.Error(t, c.Close())

	backend.fail = false
	require.NoError(t, c.Invoke(func(tx *Tx) error {
		tx.Storage(contract).Put([]byte("other"), []byte("value"))
		return nil
	}))

	v, err := backend.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)
}
