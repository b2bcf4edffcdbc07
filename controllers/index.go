package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paycrest/bridge-wallet/services/messages"
	"github.com/paycrest/bridge-wallet/services/verification"
	walletErrors "github.com/paycrest/bridge-wallet/services/wallet/errors"
	"github.com/paycrest/bridge-wallet/services/widget"
	"github.com/paycrest/bridge-wallet/types"
	u "github.com/paycrest/bridge-wallet/utils"
	"github.com/paycrest/bridge-wallet/utils/logger"
)

// Controller exposes one widget session over HTTP
type Controller struct {
	session *widget.Session
}

// NewController creates a new instance of Controller for session
func NewController(session *widget.Session) *Controller {
	return &Controller{
		session: session,
	}
}

// stateResponse is the payload of every state-returning endpoint
type stateResponse struct {
	View          widget.View          `json:"view"`
	Notifications []types.Notification `json:"notifications"`
}

func (ctrl *Controller) state() stateResponse {
	notifications := ctrl.session.Notifications()
	if notifications == nil {
		notifications = []types.Notification{}
	}
	return stateResponse{
		View:          ctrl.session.View(),
		Notifications: notifications,
	}
}

// respondError maps a session error onto an HTTP status
func (ctrl *Controller) respondError(ctx *gin.Context, err error) {
	var (
		fieldErrs   verification.FieldErrors
		expired     walletErrors.ErrSessionExpired
		backendErr  walletErrors.ErrBackendResponse
		unreachable walletErrors.ErrBackendUnreachable
		originErr   messages.ErrOriginNotAllowed
		payloadErr  messages.ErrInvalidPayload
	)

	switch {
	case errors.As(err, &fieldErrs):
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.FieldErrorData(fieldErrs))
	case errors.Is(err, verification.ErrSubmissionInFlight), errors.Is(err, u.ErrDebounced):
		u.APIResponse(ctx, http.StatusConflict, "error", err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		u.APIResponse(ctx, http.StatusGatewayTimeout, "error", "Request timed out", nil)
	case errors.As(err, &expired):
		u.APIResponse(ctx, 419, "error", "Session expired", ctx.Request.URL.Path)
	case errors.As(err, &backendErr):
		if backendErr.StatusCode >= http.StatusInternalServerError {
			u.APIResponse(ctx, http.StatusBadGateway, "error", "Wallet backend error", nil)
			return
		}
		u.APIResponse(ctx, http.StatusBadRequest, "error", backendErr.Message, nil)
	case errors.As(err, &unreachable):
		u.APIResponse(ctx, http.StatusServiceUnavailable, "error", "Wallet backend unreachable", nil)
	case errors.As(err, &originErr):
		u.APIResponse(ctx, http.StatusForbidden, "error", "Origin not allowed", nil)
	case errors.As(err, &payloadErr):
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Invalid message", payloadErr.Reasons)
	default:
		logger.WithFields(logger.Fields{
			"Error": err.Error(),
			"Path":  ctx.Request.URL.Path,
		}).Errorf("Widget request failed")
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Something went wrong", nil)
	}
}

// GetState controller returns the rendered view and drains notifications
func (ctrl *Controller) GetState(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "OK", ctrl.state())
}

// Refresh controller reloads status, balance and activity
func (ctrl *Controller) Refresh(ctx *gin.Context) {
	if err := ctrl.session.RefreshAll(ctx); err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Refreshed", ctrl.state())
}

// Initialize controller starts vendor onboarding
func (ctrl *Controller) Initialize(ctx *gin.Context) {
	if err := ctrl.session.Initialize(ctx); err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Onboarding initialized", ctrl.state())
}

// HandleMessage controller receives a cross-origin message relayed by the host page
func (ctrl *Controller) HandleMessage(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read message", nil)
		return
	}

	origin := ctx.GetHeader("X-Message-Origin")
	if origin == "" {
		origin = ctx.GetHeader("Origin")
	}

	if err := ctrl.session.HandleMessage(ctx, origin, payload); err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Message handled", ctrl.state())
}

// UpdateKycDraft controller replaces the individual KYC draft
func (ctrl *Controller) UpdateKycDraft(ctx *gin.Context) {
	var draft types.KycDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}
	ctrl.session.UpdateKycDraft(draft)
	u.APIResponse(ctx, http.StatusOK, "success", "Draft saved", ctrl.state())
}

// UpdateControlPersonDraft controller replaces the control person draft
func (ctrl *Controller) UpdateControlPersonDraft(ctx *gin.Context) {
	var draft types.ControlPersonDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}
	ctrl.session.UpdateControlPersonDraft(draft)
	u.APIResponse(ctx, http.StatusOK, "success", "Draft saved", ctrl.state())
}

// UpdateBusinessDocumentsDraft controller replaces the business documents draft
func (ctrl *Controller) UpdateBusinessDocumentsDraft(ctx *gin.Context) {
	var draft types.BusinessDocumentsDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}
	ctrl.session.UpdateBusinessDocumentsDraft(draft)
	u.APIResponse(ctx, http.StatusOK, "success", "Draft saved", ctrl.state())
}

// SubmitKyc controller submits the individual KYC draft
func (ctrl *Controller) SubmitKyc(ctx *gin.Context) {
	if err := ctrl.session.SubmitKyc(ctx); err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Verification submitted", ctrl.state())
}

// SubmitControlPerson controller submits the control person page
func (ctrl *Controller) SubmitControlPerson(ctx *gin.Context) {
	if err := ctrl.session.SubmitControlPerson(ctx); err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Control person submitted", ctrl.state())
}

// SubmitBusinessDocuments controller submits the business documents page
func (ctrl *Controller) SubmitBusinessDocuments(ctx *gin.Context) {
	if err := ctrl.session.SubmitBusinessDocuments(ctx); err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Business documents submitted", ctrl.state())
}

// CreateWallet controller creates the custodial wallet
func (ctrl *Controller) CreateWallet(ctx *gin.Context) {
	address, err := ctrl.session.CreateWallet(ctx)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusCreated, "success", "Wallet created", gin.H{
		"address": address,
		"state":   ctrl.state(),
	})
}

// GetTosLink controller fetches the terms of service link
func (ctrl *Controller) GetTosLink(ctx *gin.Context) {
	refresh := strings.EqualFold(ctx.Query("refresh"), "true") || ctx.Query("refresh") == "1"

	link, err := ctrl.session.TosLink(ctx, refresh)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "OK", link)
}

// LoadMoreActivity controller appends the next activity page
func (ctrl *Controller) LoadMoreActivity(ctx *gin.Context) {
	loaded, err := ctrl.session.LoadMoreActivity(ctx)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "OK", gin.H{
		"loaded": loaded,
		"state":  ctrl.state(),
	})
}

// SearchRecipients controller looks up send recipients
func (ctrl *Controller) SearchRecipients(ctx *gin.Context) {
	recipients, err := ctrl.session.SearchRecipients(ctx, ctx.Query("search"))
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	if recipients == nil {
		recipients = []types.Recipient{}
	}
	u.APIResponse(ctx, http.StatusOK, "success", "OK", recipients)
}

// GetExternalAccounts controller lists linked bank accounts
func (ctrl *Controller) GetExternalAccounts(ctx *gin.Context) {
	accounts, err := ctrl.session.ExternalAccounts(ctx)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	if accounts == nil {
		accounts = []types.ExternalAccount{}
	}
	u.APIResponse(ctx, http.StatusOK, "success", "OK", accounts)
}

// AddExternalAccount controller links a bank account
func (ctrl *Controller) AddExternalAccount(ctx *gin.Context) {
	var payload types.ExternalAccountInput
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}

	account, err := ctrl.session.AddExternalAccount(ctx, payload)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusCreated, "success", "Bank account linked", account)
}

// TransferFromExternal controller pulls funds from a linked bank account
func (ctrl *Controller) TransferFromExternal(ctx *gin.Context) {
	var payload types.TransferFromExternalRequest
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}

	res, err := ctrl.session.TransferFromExternal(ctx, payload)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Transfer initiated", res)
}

// GetDepositInstructions controller fetches virtual account funding instructions
func (ctrl *Controller) GetDepositInstructions(ctx *gin.Context) {
	instructions, err := ctrl.session.DepositInstructions(ctx)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "OK", instructions)
}

// Send controller sends funds to a recipient
func (ctrl *Controller) Send(ctx *gin.Context) {
	var payload types.SendRequest
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}

	res, err := ctrl.session.Send(ctx, payload)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Transfer sent", res)
}

// Deposit controller moves funds into the wallet
func (ctrl *Controller) Deposit(ctx *gin.Context) {
	var payload types.DepositRequest
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", u.GetErrorData(err))
		return
	}

	res, err := ctrl.session.Deposit(ctx, payload)
	if err != nil {
		ctrl.respondError(ctx, err)
		return
	}
	u.APIResponse(ctx, http.StatusOK, "success", "Deposit initiated", res)
}
