package verification

import (
	"github.com/paycrest/bridge-wallet/types"
)

var (
	controlPersonDocuments = []types.DocumentKind{
		types.DocumentIDFront,
		types.DocumentIDBack,
	}
	businessDocuments = []types.DocumentKind{
		types.DocumentBusinessFormation,
		types.DocumentBusinessOwnership,
		types.DocumentProofOfAddress,
		types.DocumentProofOfNatureOfBusiness,
		types.DocumentDeterminationLetter501c3,
	}
)

// DocumentBatch returns the documents uploaded together on a KYB page
func DocumentBatch(step types.KybStep) []types.DocumentKind {
	switch step {
	case types.KybStepControlPerson:
		return controlPersonDocuments
	case types.KybStepBusinessDocuments:
		return businessDocuments
	}
	return nil
}

// IsDocumentKind reports whether kind is a known document
func IsDocumentKind(kind types.DocumentKind) bool {
	return BatchOf(kind) != ""
}

// BatchOf returns the page a document is uploaded on
func BatchOf(kind types.DocumentKind) types.KybStep {
	for _, step := range []types.KybStep{types.KybStepControlPerson, types.KybStepBusinessDocuments} {
		for _, k := range DocumentBatch(step) {
			if k == kind {
				return step
			}
		}
	}
	return ""
}

// UploadVisible decides whether the upload control for kind is shown.
// A rejected document always is. A missing one only on the first submission
// of its page, and only while no sibling of the batch is rejected: a batch
// with a rejection asks for the rejected documents alone.
func UploadVisible(kind types.DocumentKind, docs types.DocumentSet, stepSubmitted bool) bool {
	record, exists := docs[kind]
	if exists {
		return record.Status == types.DocumentStatusRejected
	}
	if stepSubmitted {
		return false
	}
	for _, sibling := range DocumentBatch(BatchOf(kind)) {
		if r, ok := docs[sibling]; ok && r.Status == types.DocumentStatusRejected {
			return false
		}
	}
	return true
}

// UploadVisibility evaluates UploadVisible for every document of a page
func UploadVisibility(step types.KybStep, docs types.DocumentSet, tracker StepTracker) map[types.DocumentKind]bool {
	batch := DocumentBatch(step)
	out := make(map[types.DocumentKind]bool, len(batch))
	submitted := tracker.Submitted(step)
	for _, kind := range batch {
		out[kind] = UploadVisible(kind, docs, submitted)
	}
	return out
}

// MarkResubmitted returns a copy of docs in which the resubmitted rejected
// documents are pending, so the rejected form does not flash back before the
// next poll. Nothing changes on a first submission.
func MarkResubmitted(docs types.DocumentSet, kinds []types.DocumentKind, stepSubmitted bool) types.DocumentSet {
	out := docs.Clone()
	if !stepSubmitted {
		return out
	}
	for _, kind := range kinds {
		if record, ok := out[kind]; ok && record.Status == types.DocumentStatusRejected {
			record.Status = types.DocumentStatusPending
			record.RejectionReason = ""
			out[kind] = record
		}
	}
	return out
}
