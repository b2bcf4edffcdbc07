package verification

import (
	"github.com/paycrest/bridge-wallet/types"
)

// ScreenInput is the state the top-level screen depends on
type ScreenInput struct {
	WalletAddress     string
	VerificationType  types.VerificationType
	KycStatus         types.VerificationStatus
	KybStatus         types.VerificationStatus
	BridgeInitialized bool
	Loading           bool
}

// ActiveStatus returns the status of the verification type in use
func (in ScreenInput) ActiveStatus() types.VerificationStatus {
	switch in.VerificationType {
	case types.VerificationTypeKYB:
		return in.KybStatus
	case types.VerificationTypeKYC:
		return in.KycStatus
	}
	return ""
}

// SelectScreen picks the top-level screen. An address short-circuits every
// other check: sandbox accounts can report has_wallet=false while holding a
// usable virtual account address. Loading does not change the screen.
func SelectScreen(in ScreenInput) types.Screen {
	active := in.ActiveStatus()

	switch {
	case in.WalletAddress != "":
		return types.ScreenWalletHome
	case active == types.VerificationStatusApproved:
		return types.ScreenCreateWallet
	case !in.BridgeInitialized:
		return types.ScreenConnectWallet
	case in.VerificationType != types.VerificationTypeNone && in.VerificationType != "" && active != "":
		return types.ScreenVerificationRequired
	default:
		return types.ScreenWalletHome
	}
}
