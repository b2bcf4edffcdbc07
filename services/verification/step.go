package verification

import (
	"github.com/paycrest/bridge-wallet/types"
)

// StepInput is everything the KYB step depends on
type StepInput struct {
	VerificationType types.VerificationType
	RequestedFields  types.RequestedFieldSet
	ServerStep       string
}

// DeriveStep picks the KYB page to show. An administrator's correction
// request wins over the server-reported step, which wins over the default.
func DeriveStep(in StepInput) types.KybStep {
	if len(in.RequestedFields) > 0 && in.VerificationType != types.VerificationTypeKYC {
		if step, ok := EffectiveStep(in.RequestedFields); ok {
			return step
		}
	}

	if step, ok := NormalizeStep(in.ServerStep); ok {
		return step
	}

	return types.KybStepControlPerson
}

// Transition describes what happened when a derived step was applied
type Transition struct {
	From    types.KybStep
	To      types.KybStep
	Changed bool
	// NeedsKycLink is set when the control person KYC link should be fetched
	// silently, provided no link is cached yet.
	NeedsKycLink bool
}

// StepTracker keeps the current KYB step and the per-step submitted flags
type StepTracker struct {
	Current                    types.KybStep `json:"current"`
	ControlPersonSubmitted     bool          `json:"control_person_submitted"`
	BusinessDocumentsSubmitted bool          `json:"business_documents_submitted"`
}

// Apply moves the tracker to next. Moving onto the documents or KYC page
// from another page marks the earlier pages as submitted.
func (t *StepTracker) Apply(next types.KybStep) Transition {
	tr := Transition{From: t.Current, To: next}
	if next == t.Current {
		return tr
	}

	tr.Changed = true
	t.Current = next

	switch next {
	case types.KybStepBusinessDocuments:
		t.ControlPersonSubmitted = true
		tr.NeedsKycLink = true
	case types.KybStepKycVerification:
		t.ControlPersonSubmitted = true
		t.BusinessDocumentsSubmitted = true
		tr.NeedsKycLink = true
	}

	return tr
}

// Submitted reports the aggregate submitted flag of a step
func (t StepTracker) Submitted(step types.KybStep) bool {
	switch step {
	case types.KybStepControlPerson:
		return t.ControlPersonSubmitted
	case types.KybStepBusinessDocuments:
		return t.BusinessDocumentsSubmitted
	}
	return false
}

// MarkSubmitted sets the aggregate flag after a successful submission
func (t *StepTracker) MarkSubmitted(step types.KybStep) {
	switch step {
	case types.KybStepControlPerson:
		t.ControlPersonSubmitted = true
	case types.KybStepBusinessDocuments:
		t.BusinessDocumentsSubmitted = true
	}
}
