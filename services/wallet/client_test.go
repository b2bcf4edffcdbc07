package wallet

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/paycrest/bridge-wallet/config"
	walletErrors "github.com/paycrest/bridge-wallet/services/wallet/errors"
	"github.com/paycrest/bridge-wallet/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBackend = "https://app.example.test"

func testClient() *Client {
	return NewClient(&config.WalletConfiguration{
		BackendURL:          testBackend,
		CSRFToken:           "csrf-123",
		SessionCookie:       "laravel_session=abc",
		BalanceFallbackPath: "/wallet/bridge/balance",
	})
}

func TestClient(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	ctx := context.Background()
	client := testClient()

	t.Run("GetStatus sends session headers", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/bridge/status",
			func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "csrf-123", r.Header.Get("X-CSRF-TOKEN"))
				assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
				assert.Equal(t, "laravel_session=abc", r.Header.Get("Cookie"))
				return httpmock.NewJsonResponse(200, map[string]interface{}{
					"initialized":       true,
					"verification_type": "kyb",
					"kyb_status":        "incomplete",
					"kyb_step":          "business_documents",
					"requested_fields":  []string{"ein"},
					"document_statuses": map[string]interface{}{
						"business_formation": map[string]interface{}{"status": "rejected", "rejection_reason": "blurry"},
					},
				})
			},
		)

		status, err := client.GetStatus(ctx)

		require.NoError(t, err)
		assert.True(t, status.Initialized)
		assert.Equal(t, "kyb", status.VerificationType)
		assert.Equal(t, []string{"ein"}, status.RequestedFields)
		assert.Equal(t, "blurry", status.DocumentStatuses["business_formation"].RejectionReason)
	})

	t.Run("419 is a session expiry", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/bridge/status",
			httpmock.NewStringResponder(419, `{"message":"Page Expired"}`))

		_, err := client.GetStatus(ctx)

		var expired walletErrors.ErrSessionExpired
		assert.True(t, errors.As(err, &expired))
	})

	t.Run("csrf message on a 200 body is a session expiry", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", testBackend+"/wallet/bridge/initialize",
			httpmock.NewStringResponder(200, `{"success":false,"message":"CSRF token mismatch."}`))

		_, err := client.Initialize(ctx)

		var expired walletErrors.ErrSessionExpired
		assert.True(t, errors.As(err, &expired))
	})

	t.Run("success false carries the backend message", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", testBackend+"/wallet/bridge/create-customer-kyc",
			httpmock.NewStringResponder(200, `{"success":false,"message":"EIN already registered"}`))

		err := client.SubmitBusinessDocuments(ctx, types.BusinessDocumentsDraft{BusinessName: "Acme"})

		var backendErr walletErrors.ErrBackendResponse
		require.True(t, errors.As(err, &backendErr))
		assert.Equal(t, "EIN already registered", backendErr.Message)
	})

	t.Run("mutations need an explicit success", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", testBackend+"/wallet/tos-callback",
			httpmock.NewStringResponder(200, `{}`))

		err := client.TosCallback(ctx, "agreement-1")

		var backendErr walletErrors.ErrBackendResponse
		assert.True(t, errors.As(err, &backendErr))
	})

	t.Run("HTTP error keeps the status code", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/bridge/external-accounts",
			httpmock.NewStringResponder(500, `{"error":"upstream unavailable"}`))

		_, err := client.GetExternalAccounts(ctx)

		var backendErr walletErrors.ErrBackendResponse
		require.True(t, errors.As(err, &backendErr))
		assert.Equal(t, 500, backendErr.StatusCode)
		assert.Equal(t, "upstream unavailable", backendErr.Message)
	})

	t.Run("plain text error body becomes the message", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/bridge/deposit-instructions",
			httpmock.NewStringResponder(503, "  Service Unavailable\n"))

		_, err := client.GetDepositInstructions(ctx)

		var backendErr walletErrors.ErrBackendResponse
		require.True(t, errors.As(err, &backendErr))
		assert.Equal(t, 503, backendErr.StatusCode)
		assert.Equal(t, "Service Unavailable", backendErr.Message)
	})

	t.Run("CreateWallet returns the address", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", testBackend+"/wallet/bridge/create-wallet",
			httpmock.NewStringResponder(200, `{"success":true,"address":"ABC123"}`))

		res, err := client.CreateWallet(ctx, "solana")

		require.NoError(t, err)
		assert.Equal(t, "ABC123", res.Address)
	})

	t.Run("balance falls back to the secondary path", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/balance",
			httpmock.NewStringResponder(500, `{"message":"ledger down"}`))
		httpmock.RegisterResponder("GET", testBackend+"/wallet/bridge/balance",
			httpmock.NewStringResponder(200, `{"balance":"12.50"}`))

		res, err := client.GetBalance(ctx)

		require.NoError(t, err)
		assert.True(t, res.Balance.Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("balance does not fall back on session expiry", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/balance",
			httpmock.NewStringResponder(419, ``))

		_, err := client.GetBalance(ctx)

		var expired walletErrors.ErrSessionExpired
		assert.True(t, errors.As(err, &expired))
		assert.Equal(t, 0, httpmock.GetCallCountInfo()["GET "+testBackend+"/wallet/bridge/balance"])
	})

	t.Run("GetActivity sends paging parameters", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/activity",
			func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.Equal(t, "20", r.URL.Query().Get("per_page"))
				return httpmock.NewStringResponse(200, `{"activities":[{"id":"a1","type":"deposit","amount":"5"}],"has_more":true}`), nil
			},
		)

		page, err := client.GetActivity(ctx, 2, 20)

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.True(t, page.HasMore)
		assert.Len(t, page.Activities, 1)
	})

	t.Run("unreachable backend", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", testBackend+"/wallet/search-recipients",
			httpmock.NewErrorResponder(errors.New("connection refused")))

		_, err := client.SearchRecipients(ctx, "ada", 10)

		var unreachable walletErrors.ErrBackendUnreachable
		assert.True(t, errors.As(err, &unreachable))
	})
}

func TestLooksLikeCSRF(t *testing.T) {
	assert.True(t, looksLikeCSRF("CSRF token mismatch."))
	assert.True(t, looksLikeCSRF("Page Expired"))
	assert.True(t, looksLikeCSRF("Your session expired"))
	assert.False(t, looksLikeCSRF("Invalid EIN"))
}
