package widget

import (
	"github.com/paycrest/bridge-wallet/services/verification"
	"github.com/paycrest/bridge-wallet/types"
)

// SubmissionView is the public state of one form submission
type SubmissionView struct {
	State       types.SubmissionState `json:"state"`
	FieldErrors map[string]string     `json:"field_errors,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// View is everything the widget renders, derived from the session state
type View struct {
	SessionID          string                      `json:"session_id"`
	Screen             types.Screen                `json:"screen"`
	Loading            bool                        `json:"loading"`
	VerificationType   types.VerificationType      `json:"verification_type"`
	KycStatus          types.VerificationStatus    `json:"kyc_status,omitempty"`
	KybStatus          types.VerificationStatus    `json:"kyb_status,omitempty"`
	BridgeInitialized  bool                        `json:"bridge_initialized"`
	TosAccepted        bool                        `json:"tos_accepted"`
	Step               types.KybStep               `json:"step,omitempty"`
	Tracker            verification.StepTracker    `json:"tracker"`
	UploadVisibility   map[types.DocumentKind]bool `json:"upload_visibility,omitempty"`
	Documents          types.DocumentSet           `json:"documents"`
	RequestedFields    types.RequestedFieldSet     `json:"requested_fields"`
	ControlPersonEmail string                      `json:"control_person_email,omitempty"`
	Links              Links                       `json:"links"`
	Wallet             types.WalletSnapshot        `json:"wallet"`
	Activities         []types.Activity            `json:"activities"`
	HasMoreActivities  bool                        `json:"has_more_activities"`
	IsLoadingMore      bool                        `json:"is_loading_more"`
	Submissions        map[string]SubmissionView   `json:"submissions"`
	Drafts             Drafts                      `json:"drafts"`
	ReloadPending      bool                        `json:"reload_pending"`
}

// Drafts are the unsent form values
type Drafts struct {
	Kyc               types.KycDraft               `json:"kyc"`
	ControlPerson     types.ControlPersonDraft     `json:"control_person"`
	BusinessDocuments types.BusinessDocumentsDraft `json:"business_documents"`
}

// View re-evaluates screen, step and upload visibility on the current state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state

	view := View{
		SessionID: s.ID,
		Screen: verification.SelectScreen(verification.ScreenInput{
			WalletAddress:     st.wallet.Address,
			VerificationType:  st.verificationType,
			KycStatus:         st.kycStatus,
			KybStatus:         st.kybStatus,
			BridgeInitialized: st.bridgeInitialized,
			Loading:           s.loading > 0,
		}),
		Loading:            s.loading > 0,
		VerificationType:   st.verificationType,
		KycStatus:          st.kycStatus,
		KybStatus:          st.kybStatus,
		BridgeInitialized:  st.bridgeInitialized,
		TosAccepted:        st.tosAccepted,
		Tracker:            st.tracker,
		Documents:          st.documents.Clone(),
		RequestedFields:    append(types.RequestedFieldSet(nil), st.requestedFields...),
		ControlPersonEmail: st.controlPersonEmail,
		Links:              st.links,
		Wallet:             st.wallet,
		Activities:         append([]types.Activity(nil), st.activities...),
		HasMoreActivities:  st.hasMoreActivities,
		IsLoadingMore:      st.isLoadingMore,
		Submissions:        make(map[string]SubmissionView, len(s.submissions)),
		Drafts: Drafts{
			Kyc:               s.kycDraft,
			ControlPerson:     s.controlPerson,
			BusinessDocuments: s.businessDocs,
		},
		ReloadPending: s.reloadTimer != nil,
	}

	if st.verificationType == types.VerificationTypeKYB {
		// the page only moves when a status poll moves the tracker
		view.Step = st.tracker.Current
		if view.Step == "" {
			view.Step = s.currentStep()
		}
		view.UploadVisibility = verification.UploadVisibility(view.Step, st.documents, st.tracker)
	}

	for form, sub := range s.submissions {
		sv := SubmissionView{State: sub.State(), FieldErrors: sub.FieldErrors()}
		if err := sub.Err(); err != nil {
			sv.Error = err.Error()
		}
		view.Submissions[form] = sv
	}

	return view
}
