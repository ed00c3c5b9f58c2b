package common

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// AccountItem converts the account into a notification field.
func AccountItem(u util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(u.BytesBE())
}

// HashItem converts the hash into a notification field.
func HashItem(u util.Uint256) stackitem.Item {
	return stackitem.NewByteArray(u.BytesBE())
}

// IntItem converts the integer into a notification field.
func IntItem(v *big.Int) stackitem.Item {
	return stackitem.NewBigInteger(v)
}

// AccountFromItem decodes the account from a notification field.
func AccountFromItem(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// HashFromItem decodes the hash from a notification field.
func HashFromItem(item stackitem.Item) (util.Uint256, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}
