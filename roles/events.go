package roles

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
)

// RoleGranted represents "RoleGranted" event emitted by the contract.
type RoleGranted struct {
	Role    Role
	Account util.Uint160
	Sender  util.Uint160
}

// RoleRevoked represents "RoleRevoked" event emitted by the contract.
type RoleRevoked struct {
	Role    Role
	Account util.Uint160
	Sender  util.Uint160
}

// RoleGrantedEventsFromLog retrieves a set of all emitted events with
// "RoleGranted" name from the provided records.
func RoleGrantedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*RoleGranted, error) {
	return eventlog.Decode[RoleGranted](records, contract, RoleGrantedEvent)
}

// RoleRevokedEventsFromLog retrieves a set of all emitted events with
// "RoleRevoked" name from the provided records.
func RoleRevokedEventsFromLog(records []eventlog.Record, contract util.Uint160) ([]*RoleRevoked, error) {
	return eventlog.Decode[RoleRevoked](records, contract, RoleRevokedEvent)
}

// FromStackItem converts provided [stackitem.Array] to RoleGranted or
// returns an error if it's not possible to do to so.
func (e *RoleGranted) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Role, e.Account, e.Sender, err = roleChangeFromItem(item)
	return err
}

// FromStackItem converts provided [stackitem.Array] to RoleRevoked or
// returns an error if it's not possible to do to so.
func (e *RoleRevoked) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Role, e.Account, e.Sender, err = roleChangeFromItem(item)
	return err
}

func roleChangeFromItem(item *stackitem.Array) (Role, util.Uint160, util.Uint160, error) {
	var account, sender util.Uint160

	if item == nil {
		return 0, account, sender, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return 0, account, sender, errors.New("not an array")
	}
	if len(arr) != 3 {
		return 0, account, sender, errors.New("wrong number of structure elements")
	}

	r, err := arr[0].TryInteger()
	if err != nil {
		return 0, account, sender, fmt.Errorf("field Role: %w", err)
	}
	if !r.IsInt64() || r.Int64() < int64(Admin) || r.Int64() > int64(Seller) {
		return 0, account, sender, fmt.Errorf("field Role: invalid value %s", r)
	}

	account, err = common.AccountFromItem(arr[1])
	if err != nil {
		return 0, account, sender, fmt.Errorf("field Account: %w", err)
	}

	sender, err = common.AccountFromItem(arr[2])
	if err != nil {
		return 0, account, sender, fmt.Errorf("field Sender: %w", err)
	}

	return Role(r.Int64()), account, sender, nil
}
