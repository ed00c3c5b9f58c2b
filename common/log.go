package common

import (
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// AccountField renders the account as a Neo address log field.
func AccountField(key string, u util.Uint160) zap.Field {
	return zap.String(key, address.Uint160ToString(u))
}

// HashField renders the hash as a base58 log field.
func HashField(key string, h util.Uint256) zap.Field {
	return zap.String(key, EncodeHash(h))
}

// EncodeHash returns base58 representation of the hash.
func EncodeHash(h util.Uint256) string {
	return base58.Encode(h.BytesBE())
}

// DecodeHash parses base58 representation of the hash.
func DecodeHash(s string) (util.Uint256, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}
