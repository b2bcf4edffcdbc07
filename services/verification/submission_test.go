package verification

import (
	"errors"
	"testing"

	"github.com/paycrest/bridge-wallet/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validControlPerson() types.ControlPersonDraft {
	return types.ControlPersonDraft{
		FirstName:           "Ada",
		LastName:            "Lovelace",
		Email:               "ada@example.com",
		BirthDate:           "1985-12-10",
		SSN:                 "123-45-6789",
		Title:               "CEO",
		OwnershipPercentage: "50",
		Address: types.Address{
			StreetLine1: "1 Main St",
			City:        "Austin",
			State:       "TX",
			PostalCode:  "78701",
			Country:     "USA",
		},
		IDFront: "data:image/png;base64,AAAA",
		IDBack:  "data:image/png;base64,BBBB",
	}
}

func TestSubmission(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		sub := NewSubmission()
		assert.Equal(t, types.SubmissionDraft, sub.State())

		require.NoError(t, sub.Begin(nil))
		assert.Equal(t, types.SubmissionSubmitting, sub.State())
		assert.False(t, sub.Editable())

		sub.Succeed()
		assert.Equal(t, types.SubmissionSubmittedPendingReview, sub.State())
	})

	t.Run("validation failure never reaches submitting", func(t *testing.T) {
		sub := NewSubmission()

		err := sub.Begin(FieldErrors{"ssn": "is required"})

		assert.Error(t, err)
		assert.Equal(t, types.SubmissionValidationFailed, sub.State())
		assert.Equal(t, "is required", sub.FieldErrors()["ssn"])
	})

	t.Run("double submit is rejected", func(t *testing.T) {
		sub := NewSubmission()
		require.NoError(t, sub.Begin(nil))

		assert.ErrorIs(t, sub.Begin(nil), ErrSubmissionInFlight)
	})

	t.Run("failure returns to an editable state", func(t *testing.T) {
		sub := NewSubmission()
		require.NoError(t, sub.Begin(nil))

		sub.Fail(errors.New("network down"))

		assert.Equal(t, types.SubmissionFailed, sub.State())
		assert.True(t, sub.Editable())
		assert.EqualError(t, sub.Err(), "network down")
		assert.NoError(t, sub.Begin(nil), "user can resubmit")
	})

	t.Run("resubmission after success is allowed", func(t *testing.T) {
		sub := NewSubmission()
		require.NoError(t, sub.Begin(nil))
		sub.Succeed()

		assert.NoError(t, sub.Begin(nil))
	})
}

func TestValidateControlPerson(t *testing.T) {
	t.Run("valid draft", func(t *testing.T) {
		assert.Nil(t, ValidateControlPerson(validControlPerson(), ValidationContext{}))
	})

	t.Run("ownership percentage range", func(t *testing.T) {
		draft := validControlPerson()

		draft.OwnershipPercentage = "150"
		errs := ValidateControlPerson(draft, ValidationContext{})
		assert.Contains(t, errs, "ownership_percentage")

		draft.OwnershipPercentage = "50"
		errs = ValidateControlPerson(draft, ValidationContext{})
		assert.NotContains(t, errs, "ownership_percentage")

		draft.OwnershipPercentage = "fifty"
		errs = ValidateControlPerson(draft, ValidationContext{})
		assert.Contains(t, errs, "ownership_percentage")
	})

	t.Run("format checks", func(t *testing.T) {
		draft := validControlPerson()
		draft.Email = "not-an-email"
		draft.SSN = "12-345-678"
		draft.BirthDate = "2999-01-01"
		draft.Address.City = ""

		errs := ValidateControlPerson(draft, ValidationContext{})

		assert.Equal(t, "must be a valid email address", errs["email"])
		assert.Contains(t, errs, "ssn")
		assert.Contains(t, errs, "birth_date")
		assert.Equal(t, "is required", errs["address.city"])
	})

	t.Run("id uploads follow visibility", func(t *testing.T) {
		draft := validControlPerson()
		draft.IDFront = ""
		draft.IDBack = ""

		errs := ValidateControlPerson(draft, ValidationContext{})
		assert.Contains(t, errs, "id_front")
		assert.Contains(t, errs, "id_back")

		// after the first submission only rejected uploads are asked for
		errs = ValidateControlPerson(draft, ValidationContext{
			StepSubmitted: true,
			Documents: types.DocumentSet{
				types.DocumentIDFront: {Kind: types.DocumentIDFront, Status: types.DocumentStatusRejected},
			},
		})
		assert.Contains(t, errs, "id_front")
		assert.NotContains(t, errs, "id_back")
	})

	t.Run("correction request validates requested fields only", func(t *testing.T) {
		draft := types.ControlPersonDraft{SSN: "bad"}

		errs := ValidateControlPerson(draft, ValidationContext{
			RequestedFields: types.NewRequestedFieldSet("control_person.ssn"),
			StepSubmitted:   true,
		})

		assert.Len(t, errs, 1)
		assert.Contains(t, errs, "ssn")
	})
}

func TestValidateBusinessDocuments(t *testing.T) {
	valid := types.BusinessDocumentsDraft{
		BusinessName:  "Acme Inc",
		EIN:           "12-3456789",
		Email:         "ops@acme.test",
		BusinessType:  "corporation",
		SourceOfFunds: "sales",
		PhysicalAddress: types.Address{
			StreetLine1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "USA",
		},
		Documents: map[types.DocumentKind]string{
			types.DocumentBusinessFormation:       "file://formation.pdf",
			types.DocumentBusinessOwnership:       "file://ownership.pdf",
			types.DocumentProofOfAddress:          "file://address.pdf",
			types.DocumentProofOfNatureOfBusiness: "file://nature.pdf",
		},
	}

	t.Run("valid draft without 501c3 letter", func(t *testing.T) {
		assert.Nil(t, ValidateBusinessDocuments(valid, ValidationContext{}))
	})

	t.Run("nonprofits need the determination letter", func(t *testing.T) {
		draft := valid
		draft.BusinessType = "nonprofit"

		errs := ValidateBusinessDocuments(draft, ValidationContext{})

		assert.Contains(t, errs, string(types.DocumentDeterminationLetter501c3))
	})

	t.Run("bad ein and website", func(t *testing.T) {
		draft := valid
		draft.EIN = "123"
		draft.PrimaryWebsite = "not a url"

		errs := ValidateBusinessDocuments(draft, ValidationContext{})

		assert.Contains(t, errs, "ein")
		assert.Contains(t, errs, "primary_website")
		assert.Contains(t, errs.Error(), "ein: must be a valid EIN")
	})
}

func TestValidateKyc(t *testing.T) {
	draft := types.KycDraft{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		BirthDate: "1990-01-01",
		SSN:       "123456789",
		Address:   types.Address{StreetLine1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "USA"},
		IDFront:   "front",
		IDBack:    "back",
	}
	assert.Nil(t, ValidateKyc(draft, ValidationContext{}))

	draft.IDBack = ""
	assert.Contains(t, ValidateKyc(draft, ValidationContext{}), "id_back")
}
