package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/astro-web3/jwt-validator/internal/domain/validation"
)

type stubDomainService struct {
	valid   bool
	result  validation.ExtractionResult
	lastJWT string
}

func (s *stubDomainService) ValidateToken(_ context.Context, raw string) bool {
	s.lastJWT = raw
	return s.valid
}

func (s *stubDomainService) ExtractClaims(_ context.Context, raw string) validation.ExtractionResult {
	s.lastJWT = raw
	return s.result
}

func TestService_Validate(t *testing.T) {
	for _, want := range []bool{true, false} {
		domain := &stubDomainService{valid: want}
		svc := NewService(domain)

		assert.Equal(t, want, svc.Validate(context.Background(), "a.b.c"))
		assert.Equal(t, "a.b.c", domain.lastJWT)
	}
}

func TestService_ExtractClaims(t *testing.T) {
	domain := &stubDomainService{result: validation.ExtractionResult{Claims: map[string]string{"Role": "Admin"}}}
	svc := NewService(domain)

	got := svc.ExtractClaims(context.Background(), "x.y.z")
	assert.True(t, got.OK())
	assert.Equal(t, "Admin", got.Claims["Role"])

	domain.result = validation.ExtractionResult{Err: validation.ErrorMessageInvalidToken}
	got = svc.ExtractClaims(context.Background(), "")
	assert.False(t, got.OK())
	assert.Equal(t, validation.ErrorMessageInvalidToken, got.Err)
}

func TestGetTokenPrefix(t *testing.T) {
	assert.Equal(t, "***", getTokenPrefix(""))
	assert.Equal(t, "***", getTokenPrefix("12345678"))
	assert.Equal(t, "eyJhbGci...", getTokenPrefix("eyJhbGciOiJIUzI1NiJ9.e30.sig"))
}
