package validation

import (
	"context"
	"log/slog"
	"time"

	"github.com/astro-web3/jwt-validator/internal/domain/policy"
	"github.com/astro-web3/jwt-validator/internal/domain/token"
	"github.com/astro-web3/jwt-validator/pkg/logger"
)

type Service interface {
	// ValidateToken returns true iff raw verifies and satisfies the claim
	// policy. It never reports why a token was rejected.
	ValidateToken(ctx context.Context, raw string) bool

	// ExtractClaims returns the verified claims of raw, or the fixed
	// invalid-token error. The claim policy is not applied.
	ExtractClaims(ctx context.Context, raw string) ExtractionResult
}

// TokenVerifier turns a compact token into a verified claim set.
type TokenVerifier interface {
	Verify(raw string) (token.ClaimSet, error)
}

// ClaimPolicy evaluates business rules over verified claims.
type ClaimPolicy interface {
	Evaluate(claims token.ClaimSet) []policy.Violation
}

// Observer receives every outcome, e.g. to record metrics.
type Observer interface {
	Observe(ctx context.Context, op Operation, outcome Outcome, elapsed time.Duration)
}

type service struct {
	verifier TokenVerifier
	policy   ClaimPolicy
	observer Observer
}

type Option func(*service)

func WithObserver(o Observer) Option {
	return func(s *service) {
		s.observer = o
	}
}

func NewService(verifier TokenVerifier, claimPolicy ClaimPolicy, opts ...Option) Service {
	s := &service{
		verifier: verifier,
		policy:   claimPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ValidateToken(ctx context.Context, raw string) bool {
	start := time.Now()
	outcome := s.run(ctx, raw, true)
	s.observe(ctx, OperationValidate, outcome, time.Since(start))
	return outcome.Accepted()
}

func (s *service) ExtractClaims(ctx context.Context, raw string) ExtractionResult {
	start := time.Now()
	outcome := s.run(ctx, raw, false)
	s.observe(ctx, OperationExtract, outcome, time.Since(start))

	if !outcome.Accepted() {
		return ExtractionResult{Err: ErrorMessageInvalidToken}
	}
	return ExtractionResult{Claims: outcome.Claims.Strings()}
}

func (s *service) run(ctx context.Context, raw string, applyPolicy bool) Outcome {
	path := []Stage{StageStart, StageVerifying}

	claims, err := s.verifier.Verify(raw)
	if err != nil {
		reason := token.ReasonOf(err)
		if reason == "" {
			reason = token.ReasonMalformed
		}
		logger.WarnContext(ctx, "token verification failed",
			slog.String("reason", string(reason)),
			slog.String("error", err.Error()),
		)
		return Outcome{
			Stage:    StageRejected,
			Path:     append(path, StageVerificationFailed, StageRejected),
			FailedAt: StageVerificationFailed,
			Reason:   reason,
		}
	}
	path = append(path, StageVerified)

	logger.DebugContext(ctx, "token verified", slog.Any("claims", claims.Names()))

	if !applyPolicy {
		return Outcome{Stage: StageAccepted, Path: append(path, StageAccepted), Claims: claims}
	}

	path = append(path, StagePolicyCheck)
	violations := s.policy.Evaluate(claims)
	if len(violations) > 0 {
		for _, v := range violations {
			logger.WarnContext(ctx, "claim rule violated",
				slog.String("rule", string(v.Rule)),
				slog.String("kind", string(v.Kind)),
				slog.String("detail", v.Detail),
			)
		}
		return Outcome{
			Stage:      StageRejected,
			Path:       append(path, StageRejected),
			FailedAt:   StagePolicyCheck,
			Violations: violations,
			Claims:     claims,
		}
	}

	return Outcome{Stage: StageAccepted, Path: append(path, StageAccepted), Claims: claims}
}

func (s *service) observe(ctx context.Context, op Operation, outcome Outcome, elapsed time.Duration) {
	if s.observer != nil {
		s.observer.Observe(ctx, op, outcome, elapsed)
	}
}
