package common

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/trustflow-contract/chain"
)

// GetList returns the list of byte slices stored by key. Missing key means
// empty list.
func GetList(ctx chain.Context, key []byte) ([][]byte, error) {
	data := ctx.Get(key)
	if data == nil {
		return [][]byte{}, nil
	}

	item, err := stackitem.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize list %q: %w", key, err)
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, fmt.Errorf("list %q: not an array", key)
	}

	res := make([][]byte, 0, len(arr))
	for i := range arr {
		b, err := arr[i].TryBytes()
		if err != nil {
			return nil, fmt.Errorf("list %q, element #%d: %w", key, i, err)
		}
		res = append(res, b)
	}

	return res, nil
}

// PutList serializes the list and puts it into contract storage.
func PutList(ctx chain.Context, key []byte, list [][]byte) error {
	items := make([]stackitem.Item, 0, len(list))
	for i := range list {
		items = append(items, stackitem.NewByteArray(list[i]))
	}

	return SetSerialized(ctx, key, stackitem.NewArray(items))
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx chain.Context, key []byte, item stackitem.Item) error {
	data, err := stackitem.Serialize(item)
	if err != nil {
		return fmt.Errorf("serialize value of %q: %w", key, err)
	}

	ctx.Put(key, data)
	return nil
}

// GetSerialized returns the deserialized item stored by key or nil if there
// is none.
func GetSerialized(ctx chain.Context, key []byte) (stackitem.Item, error) {
	data := ctx.Get(key)
	if data == nil {
		return nil, nil
	}

	item, err := stackitem.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize value of %q: %w", key, err)
	}

	return item, nil
}

// GetInt returns the integer stored by key. Missing key means zero.
func GetInt(ctx chain.Context, key []byte) *big.Int {
	data := ctx.Get(key)
	if len(data) == 0 {
		return new(big.Int)
	}
	return bigint.FromBytes(data)
}

// PutInt puts the integer into contract storage.
func PutInt(ctx chain.Context, key []byte, v *big.Int) {
	ctx.Put(key, bigint.ToBytes(v))
}

// GetUint160 returns the account stored by key. The second value is false
// if there is no value.
func GetUint160(ctx chain.Context, key []byte) (util.Uint160, bool, error) {
	data := ctx.Get(key)
	if data == nil {
		return util.Uint160{}, false, nil
	}

	u, err := util.Uint160DecodeBytesBE(data)
	if err != nil {
		return util.Uint160{}, false, fmt.Errorf("decode account stored by %q: %w", key, err)
	}

	return u, true, nil
}

// GetUint256 returns the hash stored by key. The second value is false if
// there is no value.
func GetUint256(ctx chain.Context, key []byte) (util.Uint256, bool, error) {
	data := ctx.Get(key)
	if data == nil {
		return util.Uint256{}, false, nil
	}

	u, err := util.Uint256DecodeBytesBE(data)
	if err != nil {
		return util.Uint256{}, false, fmt.Errorf("decode hash stored by %q: %w", key, err)
	}

	return u, true, nil
}
