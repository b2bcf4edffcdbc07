package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/paycrest/bridge-wallet/config"
	walletErrors "github.com/paycrest/bridge-wallet/services/wallet/errors"
	"github.com/paycrest/bridge-wallet/types"
	"github.com/paycrest/bridge-wallet/utils/logger"
)

const (
	statusSessionExpired = 419

	balancePath = "/wallet/balance"
)

type envelope interface {
	Envelope() *types.BackendResponse
}

// Client calls the wallet backend on behalf of one widget session
type Client struct {
	baseURL             string
	csrfToken           string
	sessionCookie       string
	timeout             time.Duration
	balanceFallbackPath string
}

// NewClient creates a backend client from the wallet configuration
func NewClient(conf *config.WalletConfiguration) *Client {
	timeout := conf.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:             conf.BackendURL,
		csrfToken:           conf.CSRFToken,
		sessionCookie:       conf.SessionCookie,
		timeout:             timeout,
		balanceFallbackPath: conf.BalanceFallbackPath,
	}
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{
		"Accept":           "application/json",
		"Content-Type":     "application/json",
		"X-Requested-With": "XMLHttpRequest",
		"X-CSRF-TOKEN":     c.csrfToken,
	}
	if c.sessionCookie != "" {
		headers["Cookie"] = c.sessionCookie
	}
	return headers
}

// call performs one request and decodes the body into out. When
// requireSuccess is set the body must carry success:true.
func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body interface{}, out envelope, requireSuccess bool) error {
	client := fastshot.NewClient(c.baseURL).
		Config().SetTimeout(c.timeout).
		Header().AddAll(c.headers()).
		Build()

	req := client.GET(path)
	if method == http.MethodPost {
		req = client.POST(path)
	}
	req = req.Context().Set(ctx)
	if len(query) > 0 {
		req = req.Query().AddParams(query)
	}
	if body != nil {
		req = req.Body().AsJSON(body)
	}

	res, err := req.Send()
	if err != nil {
		return walletErrors.ErrBackendUnreachable{Err: err}
	}

	defer res.RawBody().Close()

	data, err := io.ReadAll(res.RawBody())
	if err != nil {
		return walletErrors.ErrBackendUnreachable{Err: fmt.Errorf("read body: %w", err)}
	}
	raw := string(data)

	code := res.RawResponse.StatusCode
	if code == statusSessionExpired {
		return walletErrors.ErrSessionExpired{Message: reasonOf(raw)}
	}

	if res.IsError() {
		reason := reasonOf(raw)
		if looksLikeCSRF(reason) {
			return walletErrors.ErrSessionExpired{Message: reason}
		}
		return walletErrors.ErrBackendResponse{StatusCode: code, Message: reason}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return walletErrors.ErrBackendUnreachable{Err: fmt.Errorf("decode %s: %w", path, err)}
	}

	env := out.Envelope()
	if env.Failed() || (requireSuccess && !env.Succeeded()) {
		reason := env.Reason()
		if looksLikeCSRF(reason) {
			return walletErrors.ErrSessionExpired{Message: reason}
		}
		if reason == "" {
			reason = "request was not successful"
		}
		return walletErrors.ErrBackendResponse{Message: reason}
	}

	return nil
}

// reasonOf pulls a human message out of an error body
func reasonOf(raw string) string {
	var env types.BackendResponse
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Reason() != "" {
		return env.Reason()
	}
	raw = strings.TrimSpace(raw)
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return raw
}

func looksLikeCSRF(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "csrf") ||
		strings.Contains(msg, "token mismatch") ||
		strings.Contains(msg, "page expired") ||
		strings.Contains(msg, "session expired")
}

// GetStatus fetches the vendor onboarding status
func (c *Client) GetStatus(ctx context.Context) (*types.BridgeStatus, error) {
	var out types.BridgeStatus
	if err := c.call(ctx, http.MethodGet, "/wallet/bridge/status", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBalance fetches the organisation ledger balance, falling back to the
// secondary path when the primary one fails
func (c *Client) GetBalance(ctx context.Context) (*types.BalanceResponse, error) {
	var out types.BalanceResponse
	err := c.call(ctx, http.MethodGet, balancePath, nil, nil, &out, false)
	if err == nil {
		return &out, nil
	}
	if _, expired := err.(walletErrors.ErrSessionExpired); expired || c.balanceFallbackPath == "" {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"Error":    err.Error(),
		"Fallback": c.balanceFallbackPath,
	}).Warnf("Primary balance fetch failed, trying fallback")

	var fallback types.BalanceResponse
	if fbErr := c.call(ctx, http.MethodGet, c.balanceFallbackPath, nil, nil, &fallback, false); fbErr != nil {
		return nil, err
	}
	return &fallback, nil
}

// GetActivity fetches one page of wallet activity
func (c *Client) GetActivity(ctx context.Context, page, perPage int) (*types.ActivityPage, error) {
	var out types.ActivityPage
	query := map[string]string{
		"page":     strconv.Itoa(page),
		"per_page": strconv.Itoa(perPage),
	}
	if err := c.call(ctx, http.MethodGet, "/wallet/activity", query, nil, &out, false); err != nil {
		return nil, err
	}
	if out.Page == 0 {
		out.Page = page
	}
	return &out, nil
}

// Initialize starts vendor onboarding for the account
func (c *Client) Initialize(ctx context.Context) (*types.InitializeResponse, error) {
	var out types.InitializeResponse
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/initialize", nil, map[string]interface{}{}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWallet creates the custodial wallet on chain
func (c *Client) CreateWallet(ctx context.Context, chain string) (*types.CreateWalletResponse, error) {
	var out types.CreateWalletResponse
	body := map[string]string{"chain": chain}
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/create-wallet", nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTosLink fetches the terms of service link
func (c *Client) GetTosLink(ctx context.Context, refresh bool) (*types.TosLinkResponse, error) {
	var out types.TosLinkResponse
	var query map[string]string
	if refresh {
		query = map[string]string{"refresh": "1"}
	}
	if err := c.call(ctx, http.MethodGet, "/wallet/bridge/tos-link", query, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// TosCallback records a signed terms of service agreement
func (c *Client) TosCallback(ctx context.Context, signedAgreementID string) error {
	var out types.BackendResponse
	body := map[string]string{"signed_agreement_id": signedAgreementID}
	return c.call(ctx, http.MethodPost, "/wallet/tos-callback", nil, body, &out, true)
}

type controlPersonSubmission struct {
	Step          types.KybStep            `json:"step"`
	ControlPerson types.ControlPersonDraft `json:"control_person"`
}

type businessDocumentsSubmission struct {
	Step types.KybStep `json:"step"`
	types.BusinessDocumentsDraft
}

const createCustomerPath = "/wallet/bridge/create-customer-kyc"

// SubmitKyc submits the individual KYC form
func (c *Client) SubmitKyc(ctx context.Context, draft types.KycDraft) error {
	var out types.BackendResponse
	return c.call(ctx, http.MethodPost, createCustomerPath, nil, draft, &out, true)
}

// SubmitControlPerson submits the first KYB page
func (c *Client) SubmitControlPerson(ctx context.Context, draft types.ControlPersonDraft) error {
	var out types.BackendResponse
	body := controlPersonSubmission{Step: types.KybStepControlPerson, ControlPerson: draft}
	return c.call(ctx, http.MethodPost, createCustomerPath, nil, body, &out, true)
}

// SubmitBusinessDocuments submits the second KYB page
func (c *Client) SubmitBusinessDocuments(ctx context.Context, draft types.BusinessDocumentsDraft) error {
	var out types.BackendResponse
	body := businessDocumentsSubmission{Step: types.KybStepBusinessDocuments, BusinessDocumentsDraft: draft}
	return c.call(ctx, http.MethodPost, createCustomerPath, nil, body, &out, true)
}

// GetControlPersonKycLink requests the hosted KYC link for the control person
func (c *Client) GetControlPersonKycLink(ctx context.Context, email string) (*types.KycLinkResponse, error) {
	var out types.KycLinkResponse
	body := map[string]string{"control_person_email": email}
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/control-person-kyc-link", nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExternalAccounts lists linked bank accounts
func (c *Client) GetExternalAccounts(ctx context.Context) ([]types.ExternalAccount, error) {
	var out types.ExternalAccountsResponse
	if err := c.call(ctx, http.MethodGet, "/wallet/bridge/external-accounts", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// AddExternalAccount links a bank account
func (c *Client) AddExternalAccount(ctx context.Context, input types.ExternalAccountInput) (*types.ExternalAccount, error) {
	var out types.ExternalAccountResponse
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/external-account", nil, input, &out, true); err != nil {
		return nil, err
	}
	return &out.Account, nil
}

// TransferFromExternal pulls funds from a linked bank account
func (c *Client) TransferFromExternal(ctx context.Context, input types.TransferFromExternalRequest) (*types.TransferResponse, error) {
	var out types.TransferResponse
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/transfer-from-external", nil, input, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDepositInstructions fetches virtual account funding instructions
func (c *Client) GetDepositInstructions(ctx context.Context) (*types.DepositInstructions, error) {
	var out types.DepositInstructionsResponse
	if err := c.call(ctx, http.MethodGet, "/wallet/bridge/deposit-instructions", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out.Instructions, nil
}

// Send sends funds to a recipient
func (c *Client) Send(ctx context.Context, input types.SendRequest) (*types.TransferResponse, error) {
	var out types.TransferResponse
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/send", nil, input, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deposit moves funds into the wallet
func (c *Client) Deposit(ctx context.Context, input types.DepositRequest) (*types.TransferResponse, error) {
	var out types.TransferResponse
	if err := c.call(ctx, http.MethodPost, "/wallet/bridge/deposit", nil, input, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchRecipients looks up send recipients
func (c *Client) SearchRecipients(ctx context.Context, search string, limit int) ([]types.Recipient, error) {
	var out types.RecipientsResponse
	query := map[string]string{
		"search": search,
		"limit":  strconv.Itoa(limit),
	}
	if err := c.call(ctx, http.MethodGet, "/wallet/search-recipients", query, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Recipients, nil
}
