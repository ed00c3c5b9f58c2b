package common

import "github.com/nspcc-dev/neo-go/pkg/util"

// CheckCaller checks that the caller is the expected account. It returns
// ErrUnauthorized error with the given message on fail.
func CheckCaller(caller, expected util.Uint160, msg string) error {
	if !caller.Equals(expected) {
		return Unauthorized(msg)
	}
	return nil
}

// CheckWitness checks that the caller passed the check performed by the
// ok function. It returns ErrUnauthorized error with the given message on
// fail and propagates storage errors as is.
func CheckWitness(ok bool, err error, msg string) error {
	if err != nil {
		return err
	}
	if !ok {
		return Unauthorized(msg)
	}
	return nil
}
