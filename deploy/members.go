package deploy

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/trustflow-contract/common"
	"github.com/nspcc-dev/trustflow-contract/roles"
	"go.uber.org/zap"
)

// Members lists accounts to be granted the roles on deployment.
type Members struct {
	Admins  []util.Uint160
	Buyers  []util.Uint160
	Sellers []util.Uint160
}

func grantMembers(l *zap.Logger, c *roles.Contract, owner util.Uint160, m Members) error {
	for _, group := range []struct {
		role     roles.Role
		accounts []util.Uint160
	}{
		{roles.Admin, m.Admins},
		{roles.Buyer, m.Buyers},
		{roles.Seller, m.Sellers},
	} {
		for i := range group.accounts {
			err := c.GrantRole(owner, group.role, group.accounts[i])
			if err != nil {
				return fmt.Errorf("grant %s to %s: %w", group.role, group.accounts[i].StringLE(), err)
			}

			l.Debug("role is granted", zap.Stringer("role", group.role),
				common.AccountField("account", group.accounts[i]))
		}
	}

	return nil
}
