package roles

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/chain"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/eventlog"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAccount(name string) util.Uint160 {
	return hash.Hash160([]byte(name))
}

func newRoles(t *testing.T) (*Contract, *chain.Chain, util.Uint160) {
	ch := chain.NewMemory(zaptest.NewLogger(t))
	owner := newAccount("owner")

	c, err := Deploy(ch, owner)
	require.NoError(t, err)

	return c, ch, owner
}

func records(t *testing.T, ch *chain.Chain) []eventlog.Record {
	rs, err := ch.Events().Records()
	require.NoError(t, err)
	return rs
}

func TestRoles_Deploy(t *testing.T) {
	c, ch, owner := newRoles(t)

	require.Equal(t, common.ContractHash(owner, ContractName), c.Hash())

	actual, err := c.Owner()
	require.NoError(t, err)
	require.Equal(t, owner, actual)

	v, err := c.Version()
	require.NoError(t, err)
	require.EqualValues(t, common.Version, v)

	_, err = Deploy(ch, owner)
	require.ErrorIs(t, err, common.ErrAlreadyDeployed)

	opened, err := Open(ch, c.Hash())
	require.NoError(t, err)
	require.Equal(t, c.Hash(), opened.Hash())

	_, err = Open(ch, newAccount("nothing"))
	require.ErrorIs(t, err, common.ErrNotDeployed)
}

func TestRoles_GrantRevoke(t *testing.T) {
	c, ch, owner := newRoles(t)
	acc := newAccount("buyer")

	ok, err := c.HasRole(Buyer, acc)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.GrantRole(owner, Buyer, acc))
	require.NoError(t, c.GrantRole(owner, Buyer, acc))

	ok, err = c.HasRole(Buyer, acc)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.HasRole(Seller, acc)
	require.NoError(t, err)
	require.False(t, ok)

	members, err := c.Members(Buyer)
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{acc}, members)

	granted, err := RoleGrantedEventsFromLog(records(t, ch), c.Hash())
	require.NoError(t, err)
	require.Equal(t, []*RoleGranted{{Role: Buyer, Account: acc, Sender: owner}}, granted)

	require.NoError(t, c.RevokeRole(owner, Buyer, acc))
	require.NoError(t, c.RevokeRole(owner, Buyer, acc))

	ok, err = c.HasRole(Buyer, acc)
	require.NoError(t, err)
	require.False(t, ok)

	revoked, err := RoleRevokedEventsFromLog(records(t, ch), c.Hash())
	require.NoError(t, err)
	require.Equal(t, []*RoleRevoked{{Role: Buyer, Account: acc, Sender: owner}}, revoked)

	require.Len(t, records(t, ch), 2)
}

func TestRoles_Authorization(t *testing.T) {
	c, ch, owner := newRoles(t)
	admin, stranger, seller := newAccount("admin"), newAccount("stranger"), newAccount("seller")

	t.Run("stranger", func(t *testing.T) {
		err := c.GrantRole(stranger, Seller, seller)
		require.ErrorIs(t, err, common.ErrUnauthorized)
		require.EqualError(t, err, common.ErrAdminOnly)

		err = c.RevokeRole(stranger, Seller, seller)
		require.ErrorIs(t, err, common.ErrUnauthorized)

		require.Empty(t, records(t, ch))
	})

	t.Run("admin role is managed by owner only", func(t *testing.T) {
		require.NoError(t, c.GrantRole(owner, Admin, admin))

		err := c.GrantRole(admin, Admin, stranger)
		require.ErrorIs(t, err, common.ErrUnauthorized)
		require.EqualError(t, err, common.ErrOwnerOnly)

		err = c.RevokeRole(admin, Admin, admin)
		require.EqualError(t, err, common.ErrOwnerOnly)
	})

	t.Run("delegated admin", func(t *testing.T) {
		ok, err := c.IsAdmin(admin)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, c.GrantRole(admin, Seller, seller))

		ok, err = c.HasRole(Seller, seller)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, c.RevokeRole(owner, Admin, admin))

		ok, err = c.IsAdmin(admin)
		require.NoError(t, err)
		require.False(t, ok)

		err = c.RevokeRole(admin, Seller, seller)
		require.EqualError(t, err, common.ErrAdminOnly)
	})

	t.Run("owner", func(t *testing.T) {
		ok, err := c.IsAdmin(owner)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = c.HasRole(Admin, owner)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown role", func(t *testing.T) {
		err := c.GrantRole(owner, Role(42), stranger)
		require.ErrorIs(t, err, common.ErrInvalidReference)
	})
}

func TestRole(t *testing.T) {
	for _, r := range []Role{Admin, Buyer, Seller} {
		require.True(t, r.IsValid())

		parsed, err := ParseRole(r.String())
		require.NoError(t, err)
		require.Equal(t, r, parsed)
	}

	require.Equal(t, "BUYER_ROLE", Buyer.String())
	require.False(t, Role(0).IsValid())

	_, err := ParseRole("AUDITOR_ROLE")
	require.Error(t, err)
}
