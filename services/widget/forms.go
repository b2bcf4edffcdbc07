package widget

import (
	"context"
	"sort"

	"github.com/paycrest/bridge-wallet/services/verification"
	"github.com/paycrest/bridge-wallet/types"
	"github.com/shopspring/decimal"
)

// Submission keys
const (
	FormKyc               = "kyc"
	FormControlPerson     = string(types.KybStepControlPerson)
	FormBusinessDocuments = string(types.KybStepBusinessDocuments)
)

// UpdateKycDraft replaces the KYC draft
func (s *Session) UpdateKycDraft(draft types.KycDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kycDraft = draft
}

// UpdateControlPersonDraft replaces the control person draft
func (s *Session) UpdateControlPersonDraft(draft types.ControlPersonDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlPerson = draft
}

// UpdateBusinessDocumentsDraft replaces the business documents draft
func (s *Session) UpdateBusinessDocumentsDraft(draft types.BusinessDocumentsDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businessDocs = draft
}

// submission returns the state machine of form. Caller holds mu.
func (s *Session) submission(form string) *verification.Submission {
	sub, ok := s.submissions[form]
	if !ok {
		sub = verification.NewSubmission()
		s.submissions[form] = sub
	}
	return sub
}

// validationContext captures what validation of step depends on. Caller holds mu.
func (s *Session) validationContext(step types.KybStep) verification.ValidationContext {
	return verification.ValidationContext{
		RequestedFields: s.state.requestedFields,
		Documents:       s.state.documents,
		StepSubmitted:   s.state.tracker.Submitted(step),
	}
}

// SubmitKyc validates and submits the individual KYC form
func (s *Session) SubmitKyc(ctx context.Context) error {
	s.mu.Lock()
	draft := s.kycDraft
	sub := s.submission(FormKyc)
	errs := verification.ValidateKyc(draft, s.validationContext(""))
	if err := sub.Begin(errs); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.backend.SubmitKyc(ctx, draft); err != nil {
		s.mu.Lock()
		sub.Fail(err)
		s.mu.Unlock()
		return s.handleError("submit kyc", err)
	}

	s.mu.Lock()
	sub.Succeed()
	s.kycDraft = s.kycDraft.Without(s.state.requestedFields)
	s.state.requestedFields = nil
	s.mu.Unlock()

	s.notify("success", "Verification submitted for review")
	return nil
}

// SubmitControlPerson validates and submits the first KYB page
func (s *Session) SubmitControlPerson(ctx context.Context) error {
	s.mu.Lock()
	draft := s.controlPerson
	sub := s.submission(FormControlPerson)
	errs := verification.ValidateControlPerson(draft, s.validationContext(types.KybStepControlPerson))
	if err := sub.Begin(errs); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.backend.SubmitControlPerson(ctx, draft); err != nil {
		s.mu.Lock()
		sub.Fail(err)
		s.mu.Unlock()
		return s.handleError("submit control person", err)
	}

	uploaded := uploadedKinds(map[types.DocumentKind]string{
		types.DocumentIDFront: draft.IDFront,
		types.DocumentIDBack:  draft.IDBack,
	})

	s.mu.Lock()
	sub.Succeed()
	s.controlPerson = s.controlPerson.Without(s.state.requestedFields)
	s.afterSubmit(types.KybStepControlPerson, uploaded)
	email := draft.Email
	if email != "" {
		s.state.controlPersonEmail = email
	}
	s.mu.Unlock()

	s.notify("success", "Control person submitted for review")
	return nil
}

// SubmitBusinessDocuments validates and submits the second KYB page
func (s *Session) SubmitBusinessDocuments(ctx context.Context) error {
	s.mu.Lock()
	draft := s.businessDocs
	sub := s.submission(FormBusinessDocuments)
	errs := verification.ValidateBusinessDocuments(draft, s.validationContext(types.KybStepBusinessDocuments))
	if err := sub.Begin(errs); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.backend.SubmitBusinessDocuments(ctx, draft); err != nil {
		s.mu.Lock()
		sub.Fail(err)
		s.mu.Unlock()
		return s.handleError("submit business documents", err)
	}

	s.mu.Lock()
	sub.Succeed()
	s.businessDocs = s.businessDocs.Without(s.state.requestedFields)
	s.afterSubmit(types.KybStepBusinessDocuments, uploadedKinds(draft.Documents))
	s.mu.Unlock()

	s.notify("success", "Business documents submitted for review")
	return nil
}

// afterSubmit applies a successful KYB page submission. The step itself
// only advances on the next status poll. Caller holds mu.
func (s *Session) afterSubmit(step types.KybStep, uploaded []types.DocumentKind) {
	s.state.documents = verification.MarkResubmitted(s.state.documents, uploaded, s.state.tracker.Submitted(step))
	s.state.requestedFields = nil
	s.state.tracker.MarkSubmitted(step)
}

func uploadedKinds(files map[types.DocumentKind]string) []types.DocumentKind {
	kinds := make([]types.DocumentKind, 0, len(files))
	for kind, file := range files {
		if file != "" {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func validateAmount(amount decimal.Decimal) verification.FieldErrors {
	if !amount.IsPositive() {
		return verification.FieldErrors{"amount": "must be greater than zero"}
	}
	return nil
}
