package validation_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-web3/jwt-validator/internal/domain/policy"
	"github.com/astro-web3/jwt-validator/internal/domain/token"
	"github.com/astro-web3/jwt-validator/internal/domain/validation"
)

const testSecret = "3Vq#mP9$kL2@nR5*jF8&hX4^wC7!tY6zB1"

type observation struct {
	op      validation.Operation
	outcome validation.Outcome
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (r *recordingObserver) Observe(_ context.Context, op validation.Operation, o validation.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observation{op: op, outcome: o})
}

func (r *recordingObserver) last(t *testing.T) observation {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.seen)
	return r.seen[len(r.seen)-1]
}

type fakeVerifier struct {
	claims token.ClaimSet
	err    error
}

func (f fakeVerifier) Verify(string) (token.ClaimSet, error) {
	return f.claims, f.err
}

func newService(t *testing.T, obs validation.Observer) validation.Service {
	t.Helper()
	verifier, err := token.NewVerifier(token.Secret(testSecret))
	require.NoError(t, err)
	if obs == nil {
		return validation.NewService(verifier, policy.New())
	}
	return validation.NewService(verifier, policy.New(), validation.WithObserver(obs))
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestValidateToken_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		claims jwt.MapClaims
		want   bool
	}{
		{
			name:   "valid admin",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "Admin", "Seed": "7841", "Name": "Toninho Araujo"},
			want:   true,
		},
		{
			name:   "valid external",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "External", "Seed": "11", "Name": "External User"},
			want:   true,
		},
		{
			name:   "four claims",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "Member", "Org": "BR", "Seed": "14627", "Name": "Valdir Aranha"},
			want:   false,
		},
		{
			name:   "name with digit",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "External", "Seed": "72341", "Name": "M4ria Olivia"},
			want:   false,
		},
		{
			name:   "name too long",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "Admin", "Seed": "7", "Name": strings.Repeat("A", 257)},
			want:   false,
		},
		{
			name:   "invalid role",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "User", "Seed": "7", "Name": "Test"},
			want:   false,
		},
		{
			name:   "seed eight",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "Admin", "Seed": "8", "Name": "JohnDoe"},
			want:   false,
		},
		{
			name:   "seed four",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "Admin", "Seed": "4", "Name": "Test"},
			want:   false,
		},
		{
			name:   "missing seed",
			secret: testSecret,
			claims: jwt.MapClaims{"Role": "Admin", "Name": "Test"},
			want:   false,
		},
		{
			name:   "wrong secret",
			secret: "wrongsecretwrongsecretwrongsecret",
			claims: jwt.MapClaims{"Role": "Admin", "Seed": "7", "Name": "JohnDoe"},
			want:   false,
		},
	}

	svc := newService(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sign(t, tt.secret, tt.claims)
			assert.Equal(t, tt.want, svc.ValidateToken(context.Background(), raw))
		})
	}
}

func TestValidateToken_Deterministic(t *testing.T) {
	svc := newService(t, nil)
	raw := sign(t, testSecret, jwt.MapClaims{"Role": "Admin", "Seed": "7841", "Name": "Toninho Araujo"})

	first := svc.ValidateToken(context.Background(), raw)
	second := svc.ValidateToken(context.Background(), raw)
	assert.True(t, first)
	assert.Equal(t, first, second)
}

func TestValidateToken_BadInputNeverPanics(t *testing.T) {
	svc := newService(t, nil)

	for _, raw := range []string{"", "   ", "invalid.jwt.token", "a.b", "....", "eyJ"} {
		assert.NotPanics(t, func() {
			assert.False(t, svc.ValidateToken(context.Background(), raw))
		}, "token %q", raw)
	}
}

func TestValidateToken_OutcomePath(t *testing.T) {
	obs := &recordingObserver{}
	svc := newService(t, obs)
	ctx := context.Background()

	t.Run("accepted", func(t *testing.T) {
		raw := sign(t, testSecret, jwt.MapClaims{"Role": "Admin", "Seed": "7", "Name": "JohnDoe"})
		require.True(t, svc.ValidateToken(ctx, raw))

		got := obs.last(t)
		assert.Equal(t, validation.OperationValidate, got.op)
		assert.Equal(t, []validation.Stage{
			validation.StageStart,
			validation.StageVerifying,
			validation.StageVerified,
			validation.StagePolicyCheck,
			validation.StageAccepted,
		}, got.outcome.Path)
		assert.Empty(t, got.outcome.FailedAt)
	})

	t.Run("policy rejected", func(t *testing.T) {
		raw := sign(t, testSecret, jwt.MapClaims{"Role": "User", "Seed": "8", "Name": "JohnDoe"})
		require.False(t, svc.ValidateToken(ctx, raw))

		got := obs.last(t).outcome
		assert.Equal(t, validation.StageRejected, got.Stage)
		assert.Equal(t, validation.StagePolicyCheck, got.FailedAt)
		require.Len(t, got.Violations, 2)
		assert.Equal(t, policy.RuleRole, got.Violations[0].Rule)
		assert.Equal(t, policy.RuleSeed, got.Violations[1].Rule)
	})

	t.Run("verification rejected", func(t *testing.T) {
		raw := sign(t, "wrongsecretwrongsecretwrongsecret", jwt.MapClaims{"Role": "Admin", "Seed": "7", "Name": "JohnDoe"})
		require.False(t, svc.ValidateToken(ctx, raw))

		got := obs.last(t).outcome
		assert.Equal(t, []validation.Stage{
			validation.StageStart,
			validation.StageVerifying,
			validation.StageVerificationFailed,
			validation.StageRejected,
		}, got.Path)
		assert.Equal(t, token.ReasonSignatureMismatch, got.Reason)
		assert.Nil(t, got.Claims)
	})
}

func TestValidateToken_UnclassifiedVerifierError(t *testing.T) {
	obs := &recordingObserver{}
	svc := validation.NewService(fakeVerifier{err: errors.New("boom")}, policy.New(), validation.WithObserver(obs))

	assert.False(t, svc.ValidateToken(context.Background(), "whatever"))
	assert.Equal(t, token.ReasonMalformed, obs.last(t).outcome.Reason)
}

func TestExtractClaims_Valid(t *testing.T) {
	svc := newService(t, nil)
	raw := sign(t, testSecret, jwt.MapClaims{"Name": "JohnDoe", "Role": "Admin", "Seed": "7"})

	result := svc.ExtractClaims(context.Background(), raw)
	require.True(t, result.OK())
	assert.Equal(t, map[string]string{"Name": "JohnDoe", "Role": "Admin", "Seed": "7"}, result.Claims)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	s := string(body)
	assert.Contains(t, s, `"Name":"JohnDoe"`)
	assert.Contains(t, s, `"Role":"Admin"`)
	assert.Contains(t, s, `"Seed":"7"`)
	assert.True(t, strings.HasPrefix(s, "{"))
	assert.True(t, strings.HasSuffix(s, "}"))
}

func TestExtractClaims_SkipsPolicy(t *testing.T) {
	svc := newService(t, nil)
	raw := sign(t, testSecret, jwt.MapClaims{"Role": "Member", "Org": "BR", "Seed": 14627, "Name": "Valdir Aranha"})

	result := svc.ExtractClaims(context.Background(), raw)
	require.True(t, result.OK())
	assert.Equal(t, "14627", result.Claims["Seed"])
	assert.Equal(t, "BR", result.Claims["Org"])
}

func TestExtractClaims_Invalid(t *testing.T) {
	svc := newService(t, nil)
	wrong := sign(t, "wrongsecretwrongsecretwrongsecret", jwt.MapClaims{"Name": "JohnDoe", "Role": "Admin", "Seed": "7"})

	for _, raw := range []string{"invalid.jwt.token", wrong, "", "  "} {
		result := svc.ExtractClaims(context.Background(), raw)
		assert.False(t, result.OK())
		assert.Nil(t, result.Claims)

		body, err := json.Marshal(result)
		require.NoError(t, err)
		assert.Equal(t, `{"error":"Token JWT inválido"}`, string(body))
	}
}

func TestExtractionResult_EmptyClaims(t *testing.T) {
	body, err := json.Marshal(validation.ExtractionResult{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
}
