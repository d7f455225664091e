package token

import (
	"errors"
	"fmt"
)

// Reason classifies why a token failed verification.
type Reason string

const (
	ReasonMalformed            Reason = "malformed_token"
	ReasonSignatureMismatch    Reason = "signature_mismatch"
	ReasonExpired              Reason = "expired"
	ReasonNotYetValid          Reason = "not_yet_valid"
	ReasonUnsupportedAlgorithm Reason = "unsupported_algorithm"
)

var (
	ErrMalformedToken       = errors.New("token is malformed")
	ErrSignatureMismatch    = errors.New("token signature does not match")
	ErrExpired              = errors.New("token has expired")
	ErrNotYetValid          = errors.New("token is not yet valid")
	ErrUnsupportedAlgorithm = errors.New("signing algorithm is not supported")
	ErrEmptySecret          = errors.New("secret is empty")
)

var reasonErrors = map[Reason]error{
	ReasonMalformed:            ErrMalformedToken,
	ReasonSignatureMismatch:    ErrSignatureMismatch,
	ReasonExpired:              ErrExpired,
	ReasonNotYetValid:          ErrNotYetValid,
	ReasonUnsupportedAlgorithm: ErrUnsupportedAlgorithm,
}

// VerificationError is the tagged failure returned by Verifier.Verify.
type VerificationError struct {
	Reason Reason
	Cause  error
}

func (e *VerificationError) Error() string {
	base := reasonErrors[e.Reason]
	msg := string(e.Reason)
	if base != nil {
		msg = base.Error()
	}
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's reason, so callers can write
// errors.Is(err, token.ErrExpired).
func (e *VerificationError) Is(target error) bool {
	if target == nil {
		return false
	}
	return reasonErrors[e.Reason] == target
}

func newVerificationError(reason Reason, cause error) *VerificationError {
	return &VerificationError{Reason: reason, Cause: cause}
}

// ReasonOf extracts the failure reason from err, or "" when err is not a
// verification failure.
func ReasonOf(err error) Reason {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return ""
}
