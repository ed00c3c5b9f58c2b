package roles

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"go.uber.org/zap"
)

// ContractName is used to derive the contract address from the deployer.
const ContractName = "Roles"

const (
	ownerKey      = "owner"
	membersPrefix = 'm'
)

// Notification names.
const (
	RoleGrantedEvent = "RoleGranted"
	RoleRevokedEvent = "RoleRevoked"
)

// Contract is a deployed Roles contract.
type Contract struct {
	chain *chain.Chain
	hash  util.Uint160
}

// Deploy deploys new Roles contract administered by the owner.
func Deploy(ch *chain.Chain, owner util.Uint160) (*Contract, error) {
	h := common.ContractHash(owner, ContractName)

	err := ch.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(h)
		if ctx.Get([]byte(common.VersionKey)) != nil {
			return fmt.Errorf("%w at %s", common.ErrAlreadyDeployed, h.StringLE())
		}

		common.PutVersion(ctx)
		ctx.Put([]byte(ownerKey), owner.BytesBE())

		ctx.Log("roles contract initialized", common.AccountField("owner", owner))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Contract{chain: ch, hash: h}, nil
}

// Open returns Roles contract deployed at the given address.
func Open(ch *chain.Chain, h util.Uint160) (*Contract, error) {
	err := ch.View(func(tx *chain.Tx) error {
		return common.CheckDeployed(tx.Storage(h))
	})
	if err != nil {
		return nil, err
	}

	return &Contract{chain: ch, hash: h}, nil
}

// Hash returns the contract address.
func (c *Contract) Hash() util.Uint160 {
	return c.hash
}

// GrantRole adds the account to the role members. Caller must be the
// registry administrator, the Admin role can be granted by the owner only.
// Granting an already held role does nothing.
func (c *Contract) GrantRole(caller util.Uint160, role Role, account util.Uint160) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		if err := c.checkManager(ctx, caller, role); err != nil {
			return err
		}

		members, err := getMembers(ctx, role)
		if err != nil {
			return err
		}

		for i := range members {
			if members[i].Equals(account) {
				return nil
			}
		}

		members = append(members, account)
		if err := putMembers(ctx, role, members); err != nil {
			return err
		}

		ctx.Notify(RoleGrantedEvent, common.IntItem(big.NewInt(int64(role))),
			common.AccountItem(account), common.AccountItem(caller))
		ctx.Log("role granted", zap.Stringer("role", role), common.AccountField("account", account))

		return nil
	})
}

// RevokeRole removes the account from the role members. Authorization is the
// same as for GrantRole. Revoking a role that is not held does nothing.
func (c *Contract) RevokeRole(caller util.Uint160, role Role, account util.Uint160) error {
	return c.chain.Invoke(func(tx *chain.Tx) error {
		ctx := tx.Storage(c.hash)

		if err := c.checkManager(ctx, caller, role); err != nil {
			return err
		}

		members, err := getMembers(ctx, role)
		if err != nil {
			return err
		}

		left := members[:0]
		for i := range members {
			if !members[i].Equals(account) {
				left = append(left, members[i])
			}
		}

		if len(left) == len(members) {
			return nil
		}

		if err := putMembers(ctx, role, left); err != nil {
			return err
		}

		ctx.Notify(RoleRevokedEvent, common.IntItem(big.NewInt(int64(role))),
			common.AccountItem(account), common.AccountItem(caller))
		ctx.Log("role revoked", zap.Stringer("role", role), common.AccountField("account", account))

		return nil
	})
}

// HasRole checks whether the account holds the role.
func (c *Contract) HasRole(role Role, account util.Uint160) (bool, error) {
	var res bool
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = c.HasRoleIn(tx, role, account)
		return
	})
	return res, err
}

// IsAdmin checks whether the account is the registry administrator: the
// owner or a member of the Admin role.
func (c *Contract) IsAdmin(account util.Uint160) (bool, error) {
	var res bool
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = c.IsAdminIn(tx, account)
		return
	})
	return res, err
}

// Owner returns the registry owner.
func (c *Contract) Owner() (util.Uint160, error) {
	var res util.Uint160
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = getOwner(tx.Storage(c.hash))
		return
	})
	return res, err
}

// Members returns members of the role in order of granting.
func (c *Contract) Members(role Role) ([]util.Uint160, error) {
	var res []util.Uint160
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = getMembers(tx.Storage(c.hash), role)
		return
	})
	return res, err
}

// Version returns the version the contract was deployed with.
func (c *Contract) Version() (int64, error) {
	var res int64
	err := c.chain.View(func(tx *chain.Tx) (err error) {
		res, err = common.GetVersion(tx.Storage(c.hash))
		return
	})
	return res, err
}

// HasRoleIn is HasRole executed within the given transaction. It's used by
// contracts relying on the registry.
func (c *Contract) HasRoleIn(tx *chain.Tx, role Role, account util.Uint160) (bool, error) {
	members, err := getMembers(tx.Storage(c.hash), role)
	if err != nil {
		return false, err
	}

	for i := range members {
		if members[i].Equals(account) {
			return true, nil
		}
	}

	return false, nil
}

// IsAdminIn is IsAdmin executed within the given transaction. It's used by
// contracts relying on the registry.
func (c *Contract) IsAdminIn(tx *chain.Tx, account util.Uint160) (bool, error) {
	owner, err := getOwner(tx.Storage(c.hash))
	if err != nil {
		return false, err
	}

	if owner.Equals(account) {
		return true, nil
	}

	return c.HasRoleIn(tx, Admin, account)
}

func (c *Contract) checkManager(ctx chain.Context, caller util.Uint160, role Role) error {
	if !role.IsValid() {
		return common.InvalidReference("unknown role")
	}

	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}

	if role == Admin {
		return common.CheckCaller(caller, owner, common.ErrOwnerOnly)
	}

	if owner.Equals(caller) {
		return nil
	}

	members, err := getMembers(ctx, Admin)
	if err != nil {
		return err
	}

	for i := range members {
		if members[i].Equals(caller) {
			return nil
		}
	}

	return common.Unauthorized(common.ErrAdminOnly)
}

func getOwner(ctx chain.Context) (util.Uint160, error) {
	owner, ok, err := common.GetUint160(ctx, []byte(ownerKey))
	if err != nil {
		return util.Uint160{}, err
	}
	if !ok {
		return util.Uint160{}, fmt.Errorf("%w at %s", common.ErrNotDeployed, ctx.Contract().StringLE())
	}
	return owner, nil
}

func membersKey(role Role) []byte {
	return []byte{membersPrefix, byte(role)}
}

func getMembers(ctx chain.Context, role Role) ([]util.Uint160, error) {
	list, err := common.GetList(ctx, membersKey(role))
	if err != nil {
		return nil, err
	}

	res := make([]util.Uint160, 0, len(list))
	for i := range list {
		u, err := util.Uint160DecodeBytesBE(list[i])
		if err != nil {
			return nil, fmt.Errorf("decode %s member #%d: %w", role, i, err)
		}
		res = append(res, u)
	}

	return res, nil
}

func putMembers(ctx chain.Context, role Role, members []util.Uint160) error {
	list := make([][]byte, 0, len(members))
	for i := range members {
		list = append(list, members[i].BytesBE())
	}
	return common.PutList(ctx, membersKey(role), list)
}
