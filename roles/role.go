package roles

import (
	"fmt"
	"strconv"
)

// Role is a named capability granted to an account.
type Role byte

// Supported roles.
const (
	// Admin is a role of delegated registry administrators.
	Admin Role = iota + 1
	// Buyer is a role of accounts commissioning work.
	Buyer
	// Seller is a role of accounts executing and auditing work. The same
	// account may execute one request and audit another one, but never both
	// on the same request.
	Seller
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case Admin:
		return "ADMIN_ROLE"
	case Buyer:
		return "BUYER_ROLE"
	case Seller:
		return "SELLER_ROLE"
	default:
		return "UNKNOWN_ROLE(" + strconv.Itoa(int(r)) + ")"
	}
}

// IsValid checks whether the role is one of the supported ones.
func (r Role) IsValid() bool {
	return r >= Admin && r <= Seller
}

// ParseRole returns the role by its name.
func ParseRole(s string) (Role, error) {
	for r := Admin; r <= Seller; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
