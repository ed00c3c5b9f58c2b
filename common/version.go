package common

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/trustflow-contract/chain"
)

const (
	major = 0
	minor = 1
	patch = 0

	// Versions from which contract storage can still be reused. These should
	// be used in a group (so prevMinor can be equal to minor if there are
	// any migration routines.
	prevMajor = 0
	prevMinor = 1
	prevPatch = 0

	Version = major*1_000_000 + minor*1_000 + patch

	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch

	// VersionKey is a storage key of the version the contract was deployed
	// with. Presence of the key means that the contract is deployed.
	VersionKey = "version"
)

// ErrVersionMismatch is returned by CheckVersion in case of error.
var ErrVersionMismatch = errors.New("stored version mismatch")

// CheckVersion checks that the stored version can be served by the current
// code: it must be no less than PrevVersion and no greater than Version.
func CheckVersion(from int64) error {
	if from < PrevVersion {
		return fmt.Errorf("%w: expected >=%d, got %d", ErrVersionMismatch, PrevVersion, from)
	}
	if from > Version {
		return fmt.Errorf("%w: expected <=%d, got %d", ErrVersionMismatch, Version, from)
	}
	return nil
}

// PutVersion marks the contract as deployed with the current version.
func PutVersion(ctx chain.Context) {
	PutInt(ctx, []byte(VersionKey), big.NewInt(Version))
}

// CheckDeployed checks that the contract is deployed with a compatible
// version.
func CheckDeployed(ctx chain.Context) error {
	raw := ctx.Get([]byte(VersionKey))
	if raw == nil {
		return fmt.Errorf("%w at %s", ErrNotDeployed, ctx.Contract().StringLE())
	}
	return CheckVersion(GetInt(ctx, []byte(VersionKey)).Int64())
}

// GetVersion returns the version the contract was deployed with.
func GetVersion(ctx chain.Context) (int64, error) {
	if err := CheckDeployed(ctx); err != nil {
		return 0, err
	}
	return GetInt(ctx, []byte(VersionKey)).Int64(), nil
}
