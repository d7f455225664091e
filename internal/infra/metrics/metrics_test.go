package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-web3/jwt-validator/internal/domain/policy"
	"github.com/astro-web3/jwt-validator/internal/domain/token"
	"github.com/astro-web3/jwt-validator/internal/domain/validation"
	"github.com/astro-web3/jwt-validator/internal/infra/metrics"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.Observe(ctx, validation.OperationValidate, validation.Outcome{Stage: validation.StageAccepted}, time.Millisecond)
	m.Observe(ctx, validation.OperationValidate, validation.Outcome{
		Stage:    validation.StageRejected,
		FailedAt: validation.StageVerificationFailed,
		Reason:   token.ReasonExpired,
	}, time.Millisecond)
	m.Observe(ctx, validation.OperationValidate, validation.Outcome{
		Stage:    validation.StageRejected,
		FailedAt: validation.StagePolicyCheck,
		Violations: []policy.Violation{
			{Rule: policy.RuleSeed, Kind: policy.KindNotAllowed},
			{Rule: policy.RuleName, Kind: policy.KindOutOfRange},
		},
	}, time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "jwt_validator_validations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(reg, "jwt_validator_rule_violations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "jwt_validator_validation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.Observe(context.Background(), validation.OperationExtract, validation.Outcome{Stage: validation.StageAccepted}, 0)

	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `jwt_validator_validations_total{operation="extract_claims",outcome="accepted",reason="none"} 1`)
}
