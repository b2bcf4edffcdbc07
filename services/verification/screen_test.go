package verification

import (
	"testing"

	"github.com/paycrest/bridge-wallet/types"
	"github.com/stretchr/testify/assert"
)

var allStatuses = []types.VerificationStatus{
	"",
	types.VerificationStatusNotStarted,
	types.VerificationStatusIncomplete,
	types.VerificationStatusUnderReview,
	types.VerificationStatusAwaitingQuestionnaire,
	types.VerificationStatusAwaitingUBO,
	types.VerificationStatusApproved,
	types.VerificationStatusRejected,
	types.VerificationStatusPaused,
	types.VerificationStatusOffboarded,
}

func TestSelectScreen(t *testing.T) {
	t.Run("address always wins", func(t *testing.T) {
		for _, vt := range []types.VerificationType{"", types.VerificationTypeNone, types.VerificationTypeKYC, types.VerificationTypeKYB} {
			for _, kyc := range allStatuses {
				for _, kyb := range allStatuses {
					for _, initialized := range []bool{false, true} {
						screen := SelectScreen(ScreenInput{
							WalletAddress:     "So1anaAddr3ss",
							VerificationType:  vt,
							KycStatus:         kyc,
							KybStatus:         kyb,
							BridgeInitialized: initialized,
						})
						assert.Equal(t, types.ScreenWalletHome, screen)
					}
				}
			}
		}
	})

	tests := []struct {
		name     string
		input    ScreenInput
		expected types.Screen
	}{
		{
			name:     "approved kyb without address creates wallet",
			input:    ScreenInput{VerificationType: types.VerificationTypeKYB, KybStatus: types.VerificationStatusApproved},
			expected: types.ScreenCreateWallet,
		},
		{
			name:     "approved kyc without address creates wallet even before init",
			input:    ScreenInput{VerificationType: types.VerificationTypeKYC, KycStatus: types.VerificationStatusApproved},
			expected: types.ScreenCreateWallet,
		},
		{
			name:     "approval of the inactive type does not count",
			input:    ScreenInput{VerificationType: types.VerificationTypeKYB, KycStatus: types.VerificationStatusApproved, KybStatus: types.VerificationStatusUnderReview, BridgeInitialized: true},
			expected: types.ScreenVerificationRequired,
		},
		{
			name:     "not initialized connects",
			input:    ScreenInput{VerificationType: types.VerificationTypeKYB, KybStatus: types.VerificationStatusIncomplete},
			expected: types.ScreenConnectWallet,
		},
		{
			name:     "pending verification",
			input:    ScreenInput{VerificationType: types.VerificationTypeKYC, KycStatus: types.VerificationStatusRejected, BridgeInitialized: true},
			expected: types.ScreenVerificationRequired,
		},
		{
			name:     "initialized without a type falls back to wallet home",
			input:    ScreenInput{VerificationType: types.VerificationTypeNone, BridgeInitialized: true},
			expected: types.ScreenWalletHome,
		},
		{
			name:     "absent status falls back to wallet home",
			input:    ScreenInput{VerificationType: types.VerificationTypeKYB, BridgeInitialized: true},
			expected: types.ScreenWalletHome,
		},
		{
			name:     "loading does not change the screen",
			input:    ScreenInput{Loading: true},
			expected: types.ScreenConnectWallet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectScreen(tt.input))
		})
	}
}

func TestSelectScreenAfterWalletCreation(t *testing.T) {
	state := ScreenInput{VerificationType: types.VerificationTypeKYB, KybStatus: types.VerificationStatusApproved}
	assert.Equal(t, types.ScreenCreateWallet, SelectScreen(state))

	state.WalletAddress = "ABC123"
	assert.Equal(t, types.ScreenWalletHome, SelectScreen(state))
}
