package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// BackendResponse is the envelope every /wallet endpoint shares.
// Success is nil when the endpoint does not report it.
type BackendResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Envelope gives access to the shared fields of any embedding payload
func (r *BackendResponse) Envelope() *BackendResponse {
	return r
}

// Failed reports an explicit success:false
func (r *BackendResponse) Failed() bool {
	return r.Success != nil && !*r.Success
}

// Succeeded reports an explicit success:true
func (r *BackendResponse) Succeeded() bool {
	return r.Success != nil && *r.Success
}

// Reason returns the backend's explanation, if any
func (r *BackendResponse) Reason() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// BridgeStatus is the payload of GET /wallet/bridge/status.
// Status strings stay raw here and are normalised by the verification package.
type BridgeStatus struct {
	BackendResponse
	Initialized           bool                      `json:"initialized"`
	VerificationType      string                    `json:"verification_type"`
	KycStatus             string                    `json:"kyc_status"`
	KybStatus             string                    `json:"kyb_status"`
	KycLink               string                    `json:"kyc_link,omitempty"`
	KycWidgetURL          string                    `json:"kyc_widget_url,omitempty"`
	TosLink               string                    `json:"tos_link,omitempty"`
	TosAccepted           bool                      `json:"tos_accepted"`
	ControlPersonKycLink  string                    `json:"control_person_kyc_link,omitempty"`
	ControlPersonEmail    string                    `json:"control_person_email,omitempty"`
	KybStep               string                    `json:"kyb_step,omitempty"`
	DocumentStatuses      map[string]DocumentRecord `json:"document_statuses,omitempty"`
	RequestedFields       []string                  `json:"requested_fields,omitempty"`
	WalletAddress         string                    `json:"wallet_address,omitempty"`
	VirtualAccountAddress string                    `json:"virtual_account_address,omitempty"`
	HasWallet             bool                      `json:"has_wallet"`
	IsSandbox             bool                      `json:"is_sandbox"`
}

// BalanceResponse is the payload of GET /wallet/balance
type BalanceResponse struct {
	BackendResponse
	Balance         decimal.Decimal `json:"balance"`
	HasSubscription bool            `json:"has_subscription"`
}

// Activity is one entry of the wallet activity feed
type Activity struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	Counterparty string          `json:"counterparty,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ActivityPage is the payload of GET /wallet/activity
type ActivityPage struct {
	BackendResponse
	Activities []Activity `json:"activities"`
	HasMore    bool       `json:"has_more"`
	Page       int        `json:"page"`
}

// CreateWalletResponse is the payload of POST /wallet/bridge/create-wallet
type CreateWalletResponse struct {
	BackendResponse
	Address   string `json:"address"`
	IsSandbox bool   `json:"is_sandbox"`
}

// InitializeResponse is the payload of POST /wallet/bridge/initialize
type InitializeResponse struct {
	BackendResponse
	KycLink string `json:"kyc_link,omitempty"`
	TosLink string `json:"tos_link,omitempty"`
}

// TosLinkResponse is the payload of GET /wallet/bridge/tos-link
type TosLinkResponse struct {
	BackendResponse
	URL             string `json:"url,omitempty"`
	AlreadyAccepted bool   `json:"already_accepted"`
}

// KycLinkResponse is the payload of POST /wallet/bridge/control-person-kyc-link
type KycLinkResponse struct {
	BackendResponse
	KycLink   string `json:"kyc_link,omitempty"`
	WidgetURL string `json:"widget_url,omitempty"`
}

// Link returns the most specific link the backend handed back
func (r KycLinkResponse) Link() string {
	if r.WidgetURL != "" {
		return r.WidgetURL
	}
	return r.KycLink
}

// ExternalAccount is a linked bank account
type ExternalAccount struct {
	ID            string `json:"id"`
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	Last4         string `json:"last_4"`
	AccountType   string `json:"account_type,omitempty"`
	Active        bool   `json:"active"`
	AccountOwner  string `json:"account_owner_name,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
}

// ExternalAccountsResponse is the payload of GET /wallet/bridge/external-accounts
type ExternalAccountsResponse struct {
	BackendResponse
	Accounts []ExternalAccount `json:"accounts"`
}

// ExternalAccountInput links a new bank account
type ExternalAccountInput struct {
	AccountOwnerName string  `json:"account_owner_name" binding:"required"`
	BankName         string  `json:"bank_name" binding:"required"`
	RoutingNumber    string  `json:"routing_number" binding:"required,len=9,numeric"`
	AccountNumber    string  `json:"account_number" binding:"required,numeric"`
	AccountType      string  `json:"account_type" binding:"required,oneof=checking savings"`
	Address          Address `json:"address"`
}

// ExternalAccountResponse is the payload of POST /wallet/bridge/external-account
type ExternalAccountResponse struct {
	BackendResponse
	Account ExternalAccount `json:"account"`
}

// TransferFromExternalRequest pulls funds from a linked bank account
type TransferFromExternalRequest struct {
	ExternalAccountID string          `json:"external_account_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount"`
}

// TransferResponse is returned by transfer, send and deposit calls
type TransferResponse struct {
	BackendResponse
	TransferID string `json:"transfer_id,omitempty"`
	Status     string `json:"status,omitempty"`
}

// DepositInstructions describes how to fund the virtual account
type DepositInstructions struct {
	BankName        string   `json:"bank_name"`
	BankAddress     string   `json:"bank_address,omitempty"`
	BeneficiaryName string   `json:"beneficiary_name"`
	AccountNumber   string   `json:"account_number"`
	RoutingNumber   string   `json:"routing_number"`
	PaymentRails    []string `json:"payment_rails,omitempty"`
	DepositMessage  string   `json:"deposit_message,omitempty"`
	Currency        string   `json:"currency,omitempty"`
}

// DepositInstructionsResponse is the payload of GET /wallet/bridge/deposit-instructions
type DepositInstructionsResponse struct {
	BackendResponse
	Instructions DepositInstructions `json:"instructions"`
}

// SendRequest sends funds to another user or address
type SendRequest struct {
	Recipient string          `json:"recipient" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
}

// DepositRequest moves funds into the wallet
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source,omitempty"`
}

// Recipient is a search hit for the send form
type Recipient struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// RecipientsResponse is the payload of GET /wallet/search-recipients
type RecipientsResponse struct {
	BackendResponse
	Recipients []Recipient `json:"recipients"`
}
