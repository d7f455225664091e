package validation

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/astro-web3/jwt-validator/internal/config"
	"github.com/astro-web3/jwt-validator/internal/domain/policy"
	"github.com/astro-web3/jwt-validator/internal/domain/token"
	"github.com/astro-web3/jwt-validator/internal/domain/validation"
	"github.com/astro-web3/jwt-validator/internal/infra/metrics"
)

// NewServiceFromConfig wires the verifier, the claim policy and, when
// metrics are enabled, a Prometheus observer registered on reg.
func NewServiceFromConfig(cfg *config.Config, reg prometheus.Registerer) (Service, error) {
	verifier, err := token.NewVerifier(cfg.Secret(), token.WithLeeway(cfg.JWT.ClockSkew))
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	var opts []validation.Option
	if cfg.Observability.MetricsEnabled && reg != nil {
		m, err := metrics.New(reg)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		opts = append(opts, validation.WithObserver(m))
	}

	domainService := validation.NewService(verifier, policy.New(), opts...)
	return NewService(domainService), nil
}
