package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerificationType is the verification path the backend assigned to the account
type VerificationType string

const (
	VerificationTypeNone VerificationType = "none"
	VerificationTypeKYC  VerificationType = "kyc"
	VerificationTypeKYB  VerificationType = "kyb"
)

// VerificationStatus is the vendor status of a KYC or KYB verification.
// The zero value means the backend reported no status at all.
type VerificationStatus string

const (
	VerificationStatusNotStarted            VerificationStatus = "not_started"
	VerificationStatusIncomplete            VerificationStatus = "incomplete"
	VerificationStatusUnderReview           VerificationStatus = "under_review"
	VerificationStatusAwaitingQuestionnaire VerificationStatus = "awaiting_questionnaire"
	VerificationStatusAwaitingUBO           VerificationStatus = "awaiting_ubo"
	VerificationStatusApproved              VerificationStatus = "approved"
	VerificationStatusRejected              VerificationStatus = "rejected"
	VerificationStatusPaused                VerificationStatus = "paused"
	VerificationStatusOffboarded            VerificationStatus = "offboarded"
)

// KybStep is a page of the KYB wizard
type KybStep string

const (
	KybStepControlPerson     KybStep = "control_person"
	KybStepBusinessDocuments KybStep = "business_documents"
	KybStepKycVerification   KybStep = "kyc_verification"
)

// Screen is the top-level view the widget shows
type Screen string

const (
	ScreenConnectWallet        Screen = "connect_wallet"
	ScreenCreateWallet         Screen = "create_wallet"
	ScreenVerificationRequired Screen = "verification_required"
	ScreenWalletHome           Screen = "wallet_home"
)

// DocumentKind identifies an uploaded verification document
type DocumentKind string

const (
	DocumentBusinessFormation        DocumentKind = "business_formation"
	DocumentBusinessOwnership        DocumentKind = "business_ownership"
	DocumentProofOfAddress           DocumentKind = "proof_of_address"
	DocumentProofOfNatureOfBusiness  DocumentKind = "proof_of_nature_of_business"
	DocumentDeterminationLetter501c3 DocumentKind = "determination_letter_501c3"
	DocumentIDFront                  DocumentKind = "id_front"
	DocumentIDBack                   DocumentKind = "id_back"
)

// DocumentStatus is the review state of an uploaded document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// DocumentRecord is the backend's view of one uploaded document
type DocumentRecord struct {
	Kind            DocumentKind   `json:"kind"`
	Status          DocumentStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
}

// DocumentSet is keyed by kind. A missing key means the document was never uploaded.
type DocumentSet map[DocumentKind]DocumentRecord

// Clone returns a copy that can be modified without touching the receiver
func (d DocumentSet) Clone() DocumentSet {
	out := make(DocumentSet, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// RequestedFieldSet holds dotted field paths an administrator flagged for correction
type RequestedFieldSet []string

// NewRequestedFieldSet de-duplicates paths while keeping their order
func NewRequestedFieldSet(paths ...string) RequestedFieldSet {
	seen := make(map[string]bool, len(paths))
	out := make(RequestedFieldSet, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Contains reports whether path was requested, matching either the full path or its leaf
func (r RequestedFieldSet) Contains(path string) bool {
	for _, p := range r {
		if p == path || leaf(p) == path {
			return true
		}
	}
	return false
}

func leaf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return path
}

// WalletSnapshot is the wallet as last reported by the backend
type WalletSnapshot struct {
	Balance         decimal.Decimal `json:"balance"`
	Address         string          `json:"address,omitempty"`
	HasWallet       bool            `json:"has_wallet"`
	IsSandbox       bool            `json:"is_sandbox"`
	HasSubscription bool            `json:"has_subscription"`
}

// Notification is a transient message surfaced to the user
type Notification struct {
	Level     string    `json:"level"` // success, error or info
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionState is the lifecycle of a single form submission
type SubmissionState string

const (
	SubmissionDraft                  SubmissionState = "draft"
	SubmissionSubmitting             SubmissionState = "submitting"
	SubmissionSubmittedPendingReview SubmissionState = "submitted_pending_review"
	SubmissionValidationFailed       SubmissionState = "validation_failed"
	SubmissionFailed                 SubmissionState = "submission_failed"
)

// Response is the struct for an API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorData is the struct for error data i.e when Status is "error"
type ErrorData struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
