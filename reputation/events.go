package reputation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
)

// ReputationChanged represents "ReputationChanged" event emitted by the
// contract.
type ReputationChanged struct {
	Subject        util.Uint160
	Actor          util.Uint160
	Request        util.Uint160
	Delta          *big.Int
	ResultingScore *big.Int
}

// ReputationChangedEventsFromLog retrieves a set of all emitted events with
// "ReputationChanged" name from the provided records.
func ReputationChangedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*ReputationChanged, error) {
	return eventlog.Decode[ReputationChanged](records, contract, ReputationChangedEvent)
}

// FromStackItem converts provided [stackitem.Array] to ReputationChanged or
// returns an error if it's not possible to do to so.
func (e *ReputationChanged) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	if e.Subject, err = common.AccountFromItem(arr[0]); err != nil {
		return fmt.Errorf("field Subject: %w", err)
	}
	if e.Actor, err = common.AccountFromItem(arr[1]); err != nil {
		return fmt.Errorf("field Actor: %w", err)
	}
	if e.Request, err = common.AccountFromItem(arr[2]); err != nil {
		return fmt.Errorf("field Request: %w", err)
	}
	if e.Delta, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field Delta: %w", err)
	}
	if e.ResultingScore, err = arr[4].TryInteger(); err != nil {
		return fmt.Errorf("field ResultingScore: %w", err)
	}

	return nil
}
