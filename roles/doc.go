/*
Package roles contains implementation of the Roles contract (RoleRegistry).

Roles contract maintains which accounts hold which capability roles. The
contract is administered by its owner (the deployer). The owner is not a role
member and can't be revoked. Members of the ADMIN_ROLE are delegated
administrators: they can grant and revoke all roles except ADMIN_ROLE itself
which is managed by the owner only.

Role membership is checked by the Reputation and Request contracts.

# Contract notifications

RoleGranted notification. This notification is produced when an account gets
a role it did not hold before. Granting an already held role is a no-op and
produces nothing.

	RoleGranted:
	  - name: role
	    type: Integer
	  - name: account
	    type: Hash160
	  - name: sender
	    type: Hash160

RoleRevoked notification. This notification is produced when an account loses
a role it held. Revoking a role that is not held is a no-op and produces
nothing.

	RoleRevoked:
	  - name: role
	    type: Integer
	  - name: account
	    type: Hash160
	  - name: sender
	    type: Hash160
*/
package roles

/*
Contract storage model.

Current conventions:
 <role>: single byte role identifier

# Summary
Key-value storage format:
 - 'version' -> int
   version the contract was deployed with
 - 'owner' -> interop.Hash160
   registry administrator
 - 'm<role>' -> std.Serialize([]interop.Hash160)
   members of the role in order of granting
*/
