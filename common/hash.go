package common

import (
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ContractHash returns the address of the named contract deployed by the
// given account. Addresses do not depend on the contract code, so the same
// deployer always gets the same address for the same contract.
func ContractHash(deployer util.Uint160, name string) util.Uint160 {
	return state.CreateContractHash(deployer, 0, name)
}
