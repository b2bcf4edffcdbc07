package verification

import (
	"testing"

	"github.com/paycrest/bridge-wallet/types"
	"github.com/stretchr/testify/assert"
)

func doc(kind types.DocumentKind, status types.DocumentStatus) types.DocumentRecord {
	return types.DocumentRecord{Kind: kind, Status: status}
}

func TestUploadVisible(t *testing.T) {
	t.Run("rejected and approved in one batch shows only the rejected", func(t *testing.T) {
		docs := types.DocumentSet{
			types.DocumentBusinessFormation: doc(types.DocumentBusinessFormation, types.DocumentStatusRejected),
			types.DocumentBusinessOwnership: doc(types.DocumentBusinessOwnership, types.DocumentStatusApproved),
		}

		for _, submitted := range []bool{false, true} {
			visible := UploadVisibility(types.KybStepBusinessDocuments, docs, StepTracker{BusinessDocumentsSubmitted: submitted})

			assert.True(t, visible[types.DocumentBusinessFormation])
			assert.False(t, visible[types.DocumentBusinessOwnership])
			assert.False(t, visible[types.DocumentProofOfAddress], "missing siblings are hidden in re-upload mode")
			assert.False(t, visible[types.DocumentProofOfNatureOfBusiness])
		}
	})

	tests := []struct {
		name      string
		kind      types.DocumentKind
		docs      types.DocumentSet
		submitted bool
		expected  bool
	}{
		{
			name:     "first submission shows missing documents",
			kind:     types.DocumentProofOfAddress,
			docs:     types.DocumentSet{},
			expected: true,
		},
		{
			name:      "missing document after submission is hidden",
			kind:      types.DocumentProofOfAddress,
			docs:      types.DocumentSet{},
			submitted: true,
			expected:  false,
		},
		{
			name:     "pending document is hidden",
			kind:     types.DocumentIDFront,
			docs:     types.DocumentSet{types.DocumentIDFront: doc(types.DocumentIDFront, types.DocumentStatusPending)},
			expected: false,
		},
		{
			name:     "rejection in another batch does not hide",
			kind:     types.DocumentIDBack,
			docs:     types.DocumentSet{types.DocumentBusinessFormation: doc(types.DocumentBusinessFormation, types.DocumentStatusRejected)},
			expected: true,
		},
		{
			name:     "rejected sibling hides missing id",
			kind:     types.DocumentIDBack,
			docs:     types.DocumentSet{types.DocumentIDFront: doc(types.DocumentIDFront, types.DocumentStatusRejected)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UploadVisible(tt.kind, tt.docs, tt.submitted))
		})
	}
}

func TestMarkResubmitted(t *testing.T) {
	docs := types.DocumentSet{
		types.DocumentBusinessFormation: {Kind: types.DocumentBusinessFormation, Status: types.DocumentStatusRejected, RejectionReason: "blurry"},
		types.DocumentBusinessOwnership: doc(types.DocumentBusinessOwnership, types.DocumentStatusApproved),
	}
	kinds := []types.DocumentKind{types.DocumentBusinessFormation, types.DocumentBusinessOwnership}

	t.Run("resubmission turns rejected into pending", func(t *testing.T) {
		out := MarkResubmitted(docs, kinds, true)

		assert.Equal(t, types.DocumentStatusPending, out[types.DocumentBusinessFormation].Status)
		assert.Empty(t, out[types.DocumentBusinessFormation].RejectionReason)
		assert.Equal(t, types.DocumentStatusApproved, out[types.DocumentBusinessOwnership].Status)
		assert.Equal(t, types.DocumentStatusRejected, docs[types.DocumentBusinessFormation].Status, "input is not mutated")
	})

	t.Run("first submission leaves statuses alone", func(t *testing.T) {
		out := MarkResubmitted(docs, kinds, false)

		assert.Equal(t, types.DocumentStatusRejected, out[types.DocumentBusinessFormation].Status)
	})
}

func TestNormalizeDocuments(t *testing.T) {
	docs := NormalizeDocuments(map[string]types.DocumentRecord{
		"Business_Formation": {Status: "REJECTED", RejectionReason: "expired"},
		"id_front":           {Status: "in_review"},
		"selfie":             {Status: "approved"},
	})

	assert.Len(t, docs, 2)
	assert.Equal(t, types.DocumentStatusRejected, docs[types.DocumentBusinessFormation].Status)
	assert.Equal(t, types.DocumentBusinessFormation, docs[types.DocumentBusinessFormation].Kind)
	assert.Equal(t, types.DocumentStatusPending, docs[types.DocumentIDFront].Status)
}
