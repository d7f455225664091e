package validation

import (
	"encoding/json"

	"github.com/astro-web3/jwt-validator/internal/domain/policy"
	"github.com/astro-web3/jwt-validator/internal/domain/token"
)

// ErrorMessageInvalidToken is the fixed message returned by ExtractClaims
// for any token that cannot be verified.
const ErrorMessageInvalidToken = "Token JWT inválido"

// Stage is a step of the per-call validation state machine.
type Stage string

const (
	StageStart              Stage = "start"
	StageVerifying          Stage = "verifying"
	StageVerified           Stage = "verified"
	StageVerificationFailed Stage = "verification_failed"
	StagePolicyCheck        Stage = "policy_check"
	StageAccepted           Stage = "accepted"
	StageRejected           Stage = "rejected"
)

// Operation names the public entry point that produced an Outcome.
type Operation string

const (
	OperationValidate Operation = "validate"
	OperationExtract  Operation = "extract_claims"
)

// Outcome is the full diagnostic result of one pipeline run. It never
// leaves the server: callers of ValidateToken only see Accepted().
type Outcome struct {
	Stage      Stage
	Path       []Stage
	FailedAt   Stage
	Reason     token.Reason
	Violations []policy.Violation
	Claims     token.ClaimSet
}

func (o Outcome) Accepted() bool {
	return o.Stage == StageAccepted
}

// ExtractionResult is either the flattened claims or the fixed error
// message. It marshals to {"<claim>":"<value>",...} or {"error":"..."}.
type ExtractionResult struct {
	Claims map[string]string
	Err    string
}

func (r ExtractionResult) OK() bool {
	return r.Err == ""
}

func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return json.Marshal(map[string]string{"error": r.Err})
	}
	if r.Claims == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Claims)
}
