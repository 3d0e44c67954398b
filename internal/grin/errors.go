package grin

import (
	"errors"
	"fmt"
)

// ErrorCode is the integer status returned by [Evaluate].
type ErrorCode int

const (
	OK          ErrorCode = 0
	DomainError ErrorCode = 1
)

var (
	// ErrDomain indicates the profile value came out negative or NaN.
	ErrDomain = errors.New("grin: profile value outside domain (negative or NaN)")

	// ErrParameter indicates a medium parameter that is not a finite number.
	ErrParameter = errors.New("grin: parameter is not finite")

	// ErrUnknownParam indicates SetParam was given a name the medium lacks.
	ErrUnknownParam = errors.New("grin: unknown parameter")
)

func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "ok"
	case DomainError:
		return "domain_error"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Err maps a code to its sentinel error, or nil for OK.
func (c ErrorCode) Err() error {
	switch c {
	case OK:
		return nil
	case DomainError:
		return ErrDomain
	default:
		return fmt.Errorf("grin: unrecognized error code %d", int(c))
	}
}

// CodeOf maps an error back to the code a host would see. DomainError is
// the only nonzero code, so every failure maps to it.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return OK
	}
	return DomainError
}
