package verification

import (
	"strings"

	"github.com/paycrest/bridge-wallet/types"
	"github.com/paycrest/bridge-wallet/utils/logger"
)

var knownStatuses = map[types.VerificationStatus]bool{
	types.VerificationStatusNotStarted:            true,
	types.VerificationStatusIncomplete:            true,
	types.VerificationStatusUnderReview:           true,
	types.VerificationStatusAwaitingQuestionnaire: true,
	types.VerificationStatusAwaitingUBO:           true,
	types.VerificationStatusApproved:              true,
	types.VerificationStatusRejected:              true,
	types.VerificationStatusPaused:                true,
	types.VerificationStatusOffboarded:            true,
}

// NormalizeStatus maps a raw vendor status onto the closed status set.
// An empty string stays empty (absent); an unknown value is logged and
// treated as not_started.
func NormalizeStatus(raw string) types.VerificationStatus {
	status := types.VerificationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == "" {
		return ""
	}
	if knownStatuses[status] {
		return status
	}

	logger.WithFields(logger.Fields{
		"Status": raw,
	}).Warnf("Unknown verification status, treating as not_started")

	return types.VerificationStatusNotStarted
}

// NormalizeType maps a raw verification type. Vendor customer types
// (individual, business) are accepted as synonyms.
func NormalizeType(raw string) types.VerificationType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "kyc", "individual":
		return types.VerificationTypeKYC
	case "kyb", "business":
		return types.VerificationTypeKYB
	case "", "none":
		return types.VerificationTypeNone
	default:
		logger.WithFields(logger.Fields{
			"VerificationType": raw,
		}).Warnf("Unknown verification type, ignoring")
		return types.VerificationTypeNone
	}
}

// NormalizeStep parses a server-reported KYB step
func NormalizeStep(raw string) (types.KybStep, bool) {
	step := types.KybStep(strings.ToLower(strings.TrimSpace(raw)))
	switch step {
	case types.KybStepControlPerson, types.KybStepBusinessDocuments, types.KybStepKycVerification:
		return step, true
	}
	return "", false
}

// NormalizeDocuments keeps only records with a known kind and status
func NormalizeDocuments(raw map[string]types.DocumentRecord) types.DocumentSet {
	docs := make(types.DocumentSet, len(raw))
	for key, record := range raw {
		kind := types.DocumentKind(strings.ToLower(strings.TrimSpace(key)))
		if !IsDocumentKind(kind) {
			continue
		}
		status := types.DocumentStatus(strings.ToLower(strings.TrimSpace(string(record.Status))))
		switch status {
		case types.DocumentStatusPending, types.DocumentStatusApproved, types.DocumentStatusRejected:
		default:
			logger.WithFields(logger.Fields{
				"Document": key,
				"Status":   record.Status,
			}).Warnf("Unknown document status, treating as pending")
			status = types.DocumentStatusPending
		}
		docs[kind] = types.DocumentRecord{
			Kind:            kind,
			Status:          status,
			RejectionReason: record.RejectionReason,
		}
	}
	return docs
}
