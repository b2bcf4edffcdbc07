package verification

import (
	"errors"

	"github.com/paycrest/bridge-wallet/types"
)

// ErrSubmissionInFlight is returned when a form is submitted while a previous submission is pending
var ErrSubmissionInFlight = errors.New("submission already in progress")

// Submission tracks one form through draft → submitting → outcome.
// It never touches the draft itself, so values survive a failure.
type Submission struct {
	state       types.SubmissionState
	fieldErrors FieldErrors
	lastErr     error
}

// NewSubmission returns a submission in the draft state
func NewSubmission() *Submission {
	return &Submission{state: types.SubmissionDraft}
}

// State returns the current state
func (s *Submission) State() types.SubmissionState {
	if s.state == "" {
		return types.SubmissionDraft
	}
	return s.state
}

// FieldErrors returns the errors of the last failed validation
func (s *Submission) FieldErrors() FieldErrors {
	return s.fieldErrors
}

// Err returns the error of the last failed submission
func (s *Submission) Err() error {
	return s.lastErr
}

// Begin starts a submission. Validation errors move the machine to
// validation_failed and are returned; the caller must not send anything then.
// Submitting again after a success is allowed: the backend overwrites.
func (s *Submission) Begin(errs FieldErrors) error {
	if s.state == types.SubmissionSubmitting {
		return ErrSubmissionInFlight
	}

	s.lastErr = nil
	if len(errs) > 0 {
		s.state = types.SubmissionValidationFailed
		s.fieldErrors = errs
		return errs
	}

	s.state = types.SubmissionSubmitting
	s.fieldErrors = nil
	return nil
}

// Succeed records a backend acceptance
func (s *Submission) Succeed() {
	s.state = types.SubmissionSubmittedPendingReview
	s.lastErr = nil
}

// Fail records a transport or backend failure. The form returns to an
// editable state with its values intact.
func (s *Submission) Fail(err error) {
	s.state = types.SubmissionFailed
	s.lastErr = err
}

// Editable reports whether the form accepts edits and a new submit
func (s *Submission) Editable() bool {
	return s.State() != types.SubmissionSubmitting
}
