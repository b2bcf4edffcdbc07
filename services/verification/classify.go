package verification

import (
	"strings"

	"github.com/paycrest/bridge-wallet/types"
)

// ControlPersonFields are leaf names that belong to the control person page
var ControlPersonFields = []string{
	"first_name",
	"last_name",
	"birth_date",
	"ssn",
	"title",
	"ownership_percentage",
	"control_person_email",
	"id_front",
	"id_back",
	"has_control",
	"is_signer",
}

// BusinessDocumentFields are business document and enhanced KYB leaf names
var BusinessDocumentFields = []string{
	"business_formation",
	"business_ownership",
	"proof_of_address",
	"proof_of_nature_of_business",
	"determination_letter_501c3",
	"business_type",
	"business_industry",
	"business_description",
	"primary_website",
	"source_of_funds",
	"account_purpose",
	"annual_revenue",
	"expected_monthly_payments",
	"high_risk_activities",
	"conducts_money_services",
	"operates_in_prohibited_countries",
	"registration_number",
	"incorporation_date",
}

// BusinessInfoFields only select the documents page when nothing stronger was requested
var BusinessInfoFields = []string{
	"business_name",
	"ein",
	"email",
	"street_line_1",
}

const (
	controlPersonPrefix   = "control_person."
	physicalAddressPrefix = "physical_address."
)

// FieldClassification is where a requested field lives in the wizard.
// A zero value means the field does not drive navigation.
type FieldClassification struct {
	Type types.VerificationType
	Step types.KybStep
}

// Classified reports whether the field maps to a wizard step
func (c FieldClassification) Classified() bool {
	return c.Step != ""
}

var (
	controlPersonSet    = toSet(ControlPersonFields)
	businessDocumentSet = toSet(BusinessDocumentFields)
	businessInfoSet     = toSet(BusinessInfoFields)
)

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

func isControlPersonField(path string) bool {
	return strings.HasPrefix(path, controlPersonPrefix) || controlPersonSet[path]
}

func isBusinessDocumentField(path string) bool {
	return strings.HasPrefix(path, physicalAddressPrefix) || businessDocumentSet[path]
}

// Classify maps a single field path to a wizard step, as if it were the only requested field
func Classify(path string) FieldClassification {
	return classify(path, false)
}

// classify applies the rules in order. strongSignal is true when some field
// of the same request set matched the control person or document rules.
func classify(path string, strongSignal bool) FieldClassification {
	switch {
	case isControlPersonField(path):
		return FieldClassification{Type: types.VerificationTypeKYB, Step: types.KybStepControlPerson}
	case isBusinessDocumentField(path):
		return FieldClassification{Type: types.VerificationTypeKYB, Step: types.KybStepBusinessDocuments}
	case businessInfoSet[path] && !strongSignal:
		return FieldClassification{Type: types.VerificationTypeKYB, Step: types.KybStepBusinessDocuments}
	}
	return FieldClassification{}
}

// ClassifyAll classifies every field of the set, resolving the business info rule against the whole set
func ClassifyAll(fields types.RequestedFieldSet) map[string]FieldClassification {
	strong := false
	for _, path := range fields {
		if isControlPersonField(path) || isBusinessDocumentField(path) {
			strong = true
			break
		}
	}

	out := make(map[string]FieldClassification, len(fields))
	for _, path := range fields {
		out[path] = classify(path, strong)
	}
	return out
}

// EffectiveStep is the step a request set navigates to: control person wins
// over documents. ok is false when no field classifies.
func EffectiveStep(fields types.RequestedFieldSet) (step types.KybStep, ok bool) {
	for _, c := range ClassifyAll(fields) {
		switch c.Step {
		case types.KybStepControlPerson:
			return types.KybStepControlPerson, true
		case types.KybStepBusinessDocuments:
			step, ok = types.KybStepBusinessDocuments, true
		}
	}
	return step, ok
}
