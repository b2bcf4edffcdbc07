package verification

import (
	"testing"

	"github.com/paycrest/bridge-wallet/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	for _, status := range allStatuses {
		assert.Equal(t, status, NormalizeStatus(string(status)))
	}

	tests := []struct {
		raw      string
		expected types.VerificationStatus
	}{
		{raw: " APPROVED ", expected: types.VerificationStatusApproved},
		{raw: "Under_Review", expected: types.VerificationStatusUnderReview},
		{raw: "manual_review", expected: types.VerificationStatusNotStarted},
		{raw: "active", expected: types.VerificationStatusNotStarted},
		{raw: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStatus(tt.raw))
		})
	}
}

func TestNormalizeType(t *testing.T) {
	tests := map[string]types.VerificationType{
		"kyc":        types.VerificationTypeKYC,
		"individual": types.VerificationTypeKYC,
		"KYB":        types.VerificationTypeKYB,
		"business":   types.VerificationTypeKYB,
		"":           types.VerificationTypeNone,
		"none":       types.VerificationTypeNone,
		"trust":      types.VerificationTypeNone,
	}

	for raw, expected := range tests {
		assert.Equal(t, expected, NormalizeType(raw), raw)
	}
}

func TestNormalizeStep(t *testing.T) {
	step, ok := NormalizeStep("Business_Documents")
	assert.True(t, ok)
	assert.Equal(t, types.KybStepBusinessDocuments, step)

	_, ok = NormalizeStep("review")
	assert.False(t, ok)
}
