package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AlgorithmHS256 is the only signing algorithm the verifier accepts.
const AlgorithmHS256 = "HS256"

// Verifier checks structure, HMAC-SHA256 signature and time claims of a
// compact JWT. It holds only immutable state and is safe for concurrent use.
type Verifier struct {
	secret Secret
	parser *jwt.Parser
}

type verifierOptions struct {
	leeway time.Duration
	now    func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*verifierOptions)

// WithLeeway allows the given clock skew when checking exp and nbf.
func WithLeeway(d time.Duration) VerifierOption {
	return func(o *verifierOptions) {
		o.leeway = d
	}
}

// WithClock overrides the time source used for exp and nbf.
func WithClock(now func() time.Time) VerifierOption {
	return func(o *verifierOptions) {
		o.now = now
	}
}

// NewVerifier builds a verifier bound to secret. The secret is copied.
func NewVerifier(secret Secret, opts ...VerifierOption) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	o := verifierOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{AlgorithmHS256}),
		jwt.WithJSONNumber(),
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(o.leeway))
	}
	if o.now != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(o.now))
	}

	key := make(Secret, len(secret))
	copy(key, secret)

	return &Verifier{
		secret: key,
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// Verify parses raw and returns its claims. On failure the error is a
// *VerificationError and no claims are returned.
func (v *Verifier) Verify(raw string) (ClaimSet, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newVerificationError(ReasonMalformed, errors.New("token is blank"))
	}

	claims := jwt.MapClaims{}
	parsed, err := v.parser.ParseWithClaims(raw, claims, v.keyFunc)
	if err != nil {
		return nil, classify(parsed, err)
	}
	if !parsed.Valid {
		return nil, newVerificationError(ReasonMalformed, errors.New("token not marked valid"))
	}

	set := make(ClaimSet, len(claims))
	for name, value := range claims {
		set[name] = ValueOf(value)
	}
	return set, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != AlgorithmHS256 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, t.Header["alg"])
	}
	return []byte(v.secret), nil
}

func classify(parsed *jwt.Token, err error) *VerificationError {
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return newVerificationError(ReasonUnsupportedAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newVerificationError(ReasonMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		// WithValidMethods reports a foreign alg as a signature failure.
		if parsed != nil && parsed.Method != nil && parsed.Method.Alg() != AlgorithmHS256 {
			return newVerificationError(ReasonUnsupportedAlgorithm, err)
		}
		return newVerificationError(ReasonSignatureMismatch, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// alg header names a method the library does not know
		return newVerificationError(ReasonUnsupportedAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newVerificationError(ReasonExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return newVerificationError(ReasonNotYetValid, err)
	default:
		return newVerificationError(ReasonMalformed, err)
	}
}
