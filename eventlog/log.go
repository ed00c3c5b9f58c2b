package eventlog

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Log is an append-only log of contract notifications.
type Log interface {
	// Append adds events to the log in the given order. Either all events
	// are appended or none of them, in which case an error is returned.
	Append(events ...state.NotificationEvent) error

	// Records returns all records of the log in order.
	Records() ([]Record, error)
}

// Record is a single entry of the Log.
type Record struct {
	Index    uint64                  `json:"index"`
	PrevHash util.Uint256            `json:"prevhash"`
	Hash     util.Uint256            `json:"hash"`
	Event    state.NotificationEvent `json:"event"`
}

// ErrBrokenChain is returned by Verify when records do not form a valid
// chain.
var ErrBrokenChain = errors.New("broken record chain")

// chainRecords makes records for events following the record with the given
// index and hash.
func chainRecords(next uint64, prev util.Uint256, events []state.NotificationEvent) ([]Record, error) {
	res := make([]Record, 0, len(events))
	for i := range events {
		h, err := recordHash(next, prev, events[i])
		if err != nil {
			return nil, fmt.Errorf("event #%d (%s): %w", i, events[i].Name, err)
		}

		res = append(res, Record{
			Index:    next,
			PrevHash: prev,
			Hash:     h,
			Event:    events[i],
		})

		next++
		prev = h
	}

	return res, nil
}

func recordHash(index uint64, prev util.Uint256, ev state.NotificationEvent) (util.Uint256, error) {
	var item stackitem.Item = stackitem.NewArray(nil)
	if ev.Item != nil {
		item = ev.Item
	}

	payload, err := stackitem.Serialize(item)
	if err != nil {
		return util.Uint256{}, fmt.Errorf("serialize event fields: %w", err)
	}

	w := io.NewBufBinWriter()
	w.WriteBytes(prev.BytesBE())
	w.WriteU64LE(index)
	w.WriteBytes(ev.ScriptHash.BytesBE())
	w.WriteString(ev.Name)
	w.WriteVarBytes(payload)
	if w.Err != nil {
		return util.Uint256{}, w.Err
	}

	return hash.Sha256(w.Bytes()), nil
}

// Verify checks that records form a valid chain starting from the first
// record of the log.
func Verify(records []Record) error {
	var prev util.Uint256

	for i := range records {
		r := records[i]

		if r.Index != uint64(i) {
			return fmt.Errorf("%w: record #%d has index %d", ErrBrokenChain, i, r.Index)
		}

		if !r.PrevHash.Equals(prev) {
			return fmt.Errorf("%w: record #%d refers to %s instead of %s", ErrBrokenChain, i, r.PrevHash.StringLE(), prev.StringLE())
		}

		h, err := recordHash(r.Index, r.PrevHash, r.Event)
		if err != nil {
			return fmt.Errorf("record #%d: %w", i, err)
		}

		if !h.Equals(r.Hash) {
			return fmt.Errorf("%w: record #%d hash mismatch", ErrBrokenChain, i)
		}

		prev = r.Hash
	}

	return nil
}

// Filter returns events of the named notification emitted by the contract.
func Filter(records []Record, contract util.Uint160, name string) []state.NotificationEvent {
	var res []state.NotificationEvent
	for i := range records {
		if records[i].Event.Name == name && records[i].Event.ScriptHash.Equals(contract) {
			res = append(res, records[i].Event)
		}
	}
	return res
}

// Decoder is implemented by typed contract events.
type Decoder interface {
	FromStackItem(item *stackitem.Array) error
}

// Decode retrieves a set of all typed events with the given name emitted by
// the contract.
func Decode[T any, P interface {
	*T
	Decoder
}](records []Record, contract util.Uint160, name string) ([]*T, error) {
	var res []*T
	for _, ev := range Filter(records, contract, name) {
		event := new(T)
		if err := P(event).FromStackItem(ev.Item); err != nil {
			return nil, fmt.Errorf("failed to deserialize %s event from stackitem: %w", name, err)
		}
		res = append(res, event)
	}
	return res, nil
}
