package reputation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/trustflow-contract/common"
)

// Change is a single record of the reputation ledger.
type Change struct {
	// Position of the record in the ledger.
	Index uint64
	// Account the reputation belongs to.
	Subject util.Uint160
	// Account that made the change.
	Actor util.Uint160
	// Request the change refers to, empty for direct score settings.
	Request util.Uint160
	// Applied score difference.
	Delta *big.Int
	// Score of the subject after the change.
	Score *big.Int
}

// ToStackItem converts the Change to [stackitem.Struct].
func (c *Change) ToStackItem() (stackitem.Item, error) {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewBigInteger(new(big.Int).SetUint64(c.Index)),
		common.AccountItem(c.Subject),
		common.AccountItem(c.Actor),
		common.AccountItem(c.Request),
		common.IntItem(c.Delta),
		common.IntItem(c.Score),
	}), nil
}

// FromStackItem restores the Change from [stackitem.Struct].
func (c *Change) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not a struct")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	index, err := arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Index: %w", err)
	}
	if !index.IsUint64() {
		return fmt.Errorf("field Index: invalid value %s", index)
	}
	c.Index = index.Uint64()

	if c.Subject, err = common.AccountFromItem(arr[1]); err != nil {
		return fmt.Errorf("field Subject: %w", err)
	}
	if c.Actor, err = common.AccountFromItem(arr[2]); err != nil {
		return fmt.Errorf("field Actor: %w", err)
	}
	if c.Request, err = common.AccountFromItem(arr[3]); err != nil {
		return fmt.Errorf("field Request: %w", err)
	}
	if c.Delta, err = arr[4].TryInteger(); err != nil {
		return fmt.Errorf("field Delta: %w", err)
	}
	if c.Score, err = arr[5].TryInteger(); err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	return nil
}
