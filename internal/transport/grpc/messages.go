package grpc

const ServiceName = "jwtvalidator.v1.ValidatorService"

const (
	ValidateProcedure      = "/" + ServiceName + "/Validate"
	ExtractClaimsProcedure = "/" + ServiceName + "/ExtractClaims"
)

type ValidateRequest struct {
	JWT string `json:"jwt"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

type ExtractClaimsRequest struct {
	JWT string `json:"jwt"`
}

// ExtractClaimsResponse carries either Claims or Error, never both.
type ExtractClaimsResponse struct {
	Claims map[string]string `json:"claims,omitempty"`
	Error  string            `json:"error,omitempty"`
}
