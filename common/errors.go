package common

import "errors"

// Kinds of contract failures. Every error returned by a contract method
// because of the caller, the arguments or the current state unwraps to
// exactly one of them.
var (
	// ErrUnauthorized is a kind of errors returned when the caller lacks
	// the required role or identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidStateTransition is a kind of errors returned when the
	// operation is attempted outside its required prior state or tries to
	// re-set an already set field.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvalidReference is a kind of errors returned when the operation
	// references an unknown or mismatched request or account.
	ErrInvalidReference = errors.New("invalid reference")
)

var (
	// ErrAlreadyDeployed is returned on an attempt to deploy a contract to an
	// address already taken.
	ErrAlreadyDeployed = errors.New("contract is already deployed")
	// ErrNotDeployed is returned on an attempt to open a contract missing at
	// the given address.
	ErrNotDeployed = errors.New("contract is not deployed")
)

// Stable failure messages. Client integrations match on them, so they must
// never change.
const (
	ErrAdminOnly    = "admin only"
	ErrOwnerOnly    = "owner only"
	ErrBuyerOnly    = "buyer only"
	ErrExecutorOnly = "executor only"
	ErrAuditorOnly  = "auditor only"
)

// Error is a rejected contract operation. Error() returns a stable
// human-readable message, errors.Is matches the kind.
type Error struct {
	kind error
	msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the kind of the error.
func (e *Error) Unwrap() error {
	return e.kind
}

// Unauthorized returns ErrUnauthorized error with the given message.
func Unauthorized(msg string) error {
	return &Error{kind: ErrUnauthorized, msg: msg}
}

// InvalidStateTransition returns ErrInvalidStateTransition error with the
// given message.
func InvalidStateTransition(msg string) error {
	return &Error{kind: ErrInvalidStateTransition, msg: msg}
}

// InvalidReference returns ErrInvalidReference error with the given message.
func InvalidReference(msg string) error {
	return &Error{kind: ErrInvalidReference, msg: msg}
}
