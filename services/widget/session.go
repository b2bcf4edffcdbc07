package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paycrest/bridge-wallet/config"
	"github.com/paycrest/bridge-wallet/services/messages"
	"github.com/paycrest/bridge-wallet/services/verification"
	walletErrors "github.com/paycrest/bridge-wallet/services/wallet/errors"
	"github.com/paycrest/bridge-wallet/types"
	"github.com/paycrest/bridge-wallet/utils"
	"github.com/paycrest/bridge-wallet/utils/logger"
	"golang.org/x/sync/errgroup"
)

const (
	maxNotifications = 20

	genericErrorMessage  = "Something went wrong. Please try again."
	sessionExpiredNotice = "Your session has expired. Reloading..."
)

// Backend is the wallet API the session drives
type Backend interface {
	GetStatus(ctx context.Context) (*types.BridgeStatus, error)
	GetBalance(ctx context.Context) (*types.BalanceResponse, error)
	GetActivity(ctx context.Context, page, perPage int) (*types.ActivityPage, error)
	Initialize(ctx context.Context) (*types.InitializeResponse, error)
	CreateWallet(ctx context.Context, chain string) (*types.CreateWalletResponse, error)
	GetTosLink(ctx context.Context, refresh bool) (*types.TosLinkResponse, error)
	TosCallback(ctx context.Context, signedAgreementID string) error
	SubmitKyc(ctx context.Context, draft types.KycDraft) error
	SubmitControlPerson(ctx context.Context, draft types.ControlPersonDraft) error
	SubmitBusinessDocuments(ctx context.Context, draft types.BusinessDocumentsDraft) error
	GetControlPersonKycLink(ctx context.Context, email string) (*types.KycLinkResponse, error)
	GetExternalAccounts(ctx context.Context) ([]types.ExternalAccount, error)
	AddExternalAccount(ctx context.Context, input types.ExternalAccountInput) (*types.ExternalAccount, error)
	TransferFromExternal(ctx context.Context, input types.TransferFromExternalRequest) (*types.TransferResponse, error)
	GetDepositInstructions(ctx context.Context) (*types.DepositInstructions, error)
	Send(ctx context.Context, input types.SendRequest) (*types.TransferResponse, error)
	Deposit(ctx context.Context, input types.DepositRequest) (*types.TransferResponse, error)
	SearchRecipients(ctx context.Context, search string, limit int) ([]types.Recipient, error)
}

// Links are the hosted flows the backend handed out
type Links struct {
	KycLink              string `json:"kyc_link,omitempty"`
	KycWidgetURL         string `json:"kyc_widget_url,omitempty"`
	TosLink              string `json:"tos_link,omitempty"`
	ControlPersonKycLink string `json:"control_person_kyc_link,omitempty"`
}

// state is everything the session learned from the backend
type state struct {
	verificationType   types.VerificationType
	kycStatus          types.VerificationStatus
	kybStatus          types.VerificationStatus
	bridgeInitialized  bool
	tosAccepted        bool
	serverStep         string
	tracker            verification.StepTracker
	documents          types.DocumentSet
	requestedFields    types.RequestedFieldSet
	controlPersonEmail string
	links              Links
	wallet             types.WalletSnapshot
	statusLoaded       bool

	activities          []types.Activity
	activityPage        int
	hasMoreActivities   bool
	isLoadingActivities bool
	isLoadingMore       bool
}

func newState() state {
	return state{
		verificationType:  types.VerificationTypeNone,
		documents:         types.DocumentSet{},
		hasMoreActivities: true,
	}
}

// Session is the runtime state of one widget instance
type Session struct {
	ID string

	backend Backend
	cache   LinkCache
	parser  *messages.Parser
	conf    *config.WalletConfiguration

	mu            sync.Mutex
	state         state
	loading       int
	kycDraft      types.KycDraft
	controlPerson types.ControlPersonDraft
	businessDocs  types.BusinessDocumentsDraft
	submissions   map[string]*verification.Submission
	notifications []types.Notification
	reloadTimer   *time.Timer

	statusSeq   utils.Sequencer
	balanceSeq  utils.Sequencer
	activitySeq utils.Sequencer
	search      *utils.Debouncer
}

// NewSession creates a session talking to backend
func NewSession(backend Backend, cache LinkCache, conf *config.WalletConfiguration) *Session {
	if cache == nil {
		cache = NewLinkCache(nil, conf.KycLinkTTL)
	}
	return &Session{
		ID:          uuid.New().String(),
		backend:     backend,
		cache:       cache,
		parser:      messages.NewParser(conf.AppOrigin, conf.AllowedOrigins),
		conf:        conf,
		state:       newState(),
		submissions: make(map[string]*verification.Submission),
		search:      utils.NewDebouncer(conf.SearchDebounce),
	}
}

// Refresh polls the verification status and applies it if no newer poll was issued since
func (s *Session) Refresh(ctx context.Context) error {
	ticket := s.statusSeq.Next()

	status, err := s.backend.GetStatus(ctx)
	if err != nil {
		return s.handleError("fetch status", err)
	}

	s.mu.Lock()
	if !s.statusSeq.IsLatest(ticket) {
		s.mu.Unlock()
		logger.WithFields(logger.Fields{"Session": s.ID, "Ticket": ticket}).Debugf("Dropping stale status response")
		return nil
	}
	transition := s.applyStatus(status)
	email := s.state.controlPersonEmail
	s.mu.Unlock()

	if transition.Changed {
		logger.WithFields(logger.Fields{
			"Session": s.ID,
			"From":    transition.From,
			"To":      transition.To,
		}).Infof("KYB step changed")
	}
	if transition.NeedsKycLink {
		s.ensureKycLink(ctx, email)
	}

	return nil
}

// applyStatus folds a status payload into the state. Caller holds mu.
func (s *Session) applyStatus(status *types.BridgeStatus) verification.Transition {
	st := &s.state

	// the first kyc or kyb answer holds until the session reloads
	if st.verificationType != types.VerificationTypeKYC && st.verificationType != types.VerificationTypeKYB {
		st.verificationType = verification.NormalizeType(status.VerificationType)
	}
	st.kycStatus = verification.NormalizeStatus(status.KycStatus)
	st.kybStatus = verification.NormalizeStatus(status.KybStatus)
	st.bridgeInitialized = status.Initialized
	st.tosAccepted = status.TosAccepted
	st.serverStep = status.KybStep
	st.documents = verification.NormalizeDocuments(status.DocumentStatuses)
	st.requestedFields = types.NewRequestedFieldSet(status.RequestedFields...)
	st.statusLoaded = true

	if status.ControlPersonEmail != "" {
		st.controlPersonEmail = status.ControlPersonEmail
	}
	st.links.KycLink = status.KycLink
	st.links.KycWidgetURL = status.KycWidgetURL
	if status.TosLink != "" {
		st.links.TosLink = status.TosLink
	}
	if status.ControlPersonKycLink != "" {
		st.links.ControlPersonKycLink = status.ControlPersonKycLink
	}

	// a created wallet is never forgotten because a poll lags behind
	address := status.WalletAddress
	if address == "" {
		address = status.VirtualAccountAddress
	}
	if address != "" {
		st.wallet.Address = address
	}
	st.wallet.HasWallet = status.HasWallet || st.wallet.Address != ""
	st.wallet.IsSandbox = status.IsSandbox

	if st.verificationType != types.VerificationTypeKYB {
		return verification.Transition{From: st.tracker.Current, To: st.tracker.Current}
	}

	return st.tracker.Apply(s.currentStep())
}

// currentStep derives the KYB page from the state. Caller holds mu.
func (s *Session) currentStep() types.KybStep {
	return verification.DeriveStep(verification.StepInput{
		VerificationType: s.state.verificationType,
		RequestedFields:  s.state.requestedFields,
		ServerStep:       s.state.serverStep,
	})
}

// ensureKycLink fetches the control person KYC link silently unless one is known
func (s *Session) ensureKycLink(ctx context.Context, email string) {
	key := linkCacheKey(s.ID, email)

	if link, ok, err := s.cache.Get(ctx, key); err != nil {
		logger.WithFields(logger.Fields{"Error": err.Error(), "Session": s.ID}).Warnf("Failed to read KYC link cache")
	} else if ok {
		s.setControlPersonLink(link)
		return
	}

	s.mu.Lock()
	known := s.state.links.ControlPersonKycLink
	s.mu.Unlock()
	if known != "" {
		_ = s.cache.Set(ctx, key, known)
		return
	}

	if email == "" {
		return
	}

	res, err := s.backend.GetControlPersonKycLink(ctx, email)
	if err != nil {
		logger.WithFields(logger.Fields{"Error": err.Error(), "Session": s.ID}).Warnf("Failed to fetch control person KYC link")
		return
	}

	link := res.Link()
	if link == "" {
		return
	}
	if err := s.cache.Set(ctx, key, link); err != nil {
		logger.WithFields(logger.Fields{"Error": err.Error(), "Session": s.ID}).Warnf("Failed to cache KYC link")
	}
	s.setControlPersonLink(link)
}

func (s *Session) setControlPersonLink(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.links.ControlPersonKycLink = link
}

// RefreshBalance fetches the ledger balance
func (s *Session) RefreshBalance(ctx context.Context) error {
	ticket := s.balanceSeq.Next()

	balance, err := s.backend.GetBalance(ctx)
	if err != nil {
		return s.handleError("fetch balance", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.balanceSeq.IsLatest(ticket) {
		return nil
	}
	s.state.wallet.Balance = balance.Balance
	s.state.wallet.HasSubscription = balance.HasSubscription

	return nil
}

// RefreshActivity reloads the first page of activity
func (s *Session) RefreshActivity(ctx context.Context) error {
	ticket := s.activitySeq.Next()

	s.mu.Lock()
	s.state.isLoadingActivities = true
	s.mu.Unlock()

	page, err := s.backend.GetActivity(ctx, 1, s.conf.ActivityPageSize)

	s.mu.Lock()
	if !s.activitySeq.IsLatest(ticket) {
		s.mu.Unlock()
		return nil
	}
	s.state.isLoadingActivities = false
	if err != nil {
		s.mu.Unlock()
		return s.handleError("fetch activity", err)
	}
	s.state.activities = page.Activities
	s.state.activityPage = 1
	s.state.hasMoreActivities = page.HasMore
	s.mu.Unlock()

	return nil
}

// LoadMoreActivity appends the next page of activity. It returns false
// without calling the backend when a fetch is running or nothing is left.
func (s *Session) LoadMoreActivity(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.state.isLoadingMore || s.state.isLoadingActivities || !s.state.hasMoreActivities {
		s.mu.Unlock()
		return false, nil
	}
	s.state.isLoadingMore = true
	next := s.state.activityPage + 1
	ticket := s.activitySeq.Next()
	s.mu.Unlock()

	page, err := s.backend.GetActivity(ctx, next, s.conf.ActivityPageSize)

	s.mu.Lock()
	s.state.isLoadingMore = false
	if !s.activitySeq.IsLatest(ticket) {
		// the list was reloaded meanwhile; this page belongs to the old one
		s.mu.Unlock()
		return false, nil
	}
	if err != nil {
		s.mu.Unlock()
		return false, s.handleError("load more activity", err)
	}
	s.state.activities = append(s.state.activities, page.Activities...)
	s.state.activityPage = next
	s.state.hasMoreActivities = page.HasMore
	s.mu.Unlock()

	return true, nil
}

// RefreshAll fetches status, balance and the first activity page concurrently
func (s *Session) RefreshAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Refresh(gctx) })
	g.Go(func() error { return s.RefreshBalance(gctx) })
	g.Go(func() error { return s.RefreshActivity(gctx) })

	return g.Wait()
}

func (s *Session) setLoading(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.loading++
	} else if s.loading > 0 {
		s.loading--
	}
}

// Initialize starts vendor onboarding and reloads the status
func (s *Session) Initialize(ctx context.Context) error {
	res, err := s.backend.Initialize(ctx)
	if err != nil {
		return s.handleError("initialize", err)
	}

	s.mu.Lock()
	s.state.bridgeInitialized = true
	if res.KycLink != "" {
		s.state.links.KycLink = res.KycLink
	}
	if res.TosLink != "" {
		s.state.links.TosLink = res.TosLink
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// CreateWallet creates the wallet on the configured chain and records its address
func (s *Session) CreateWallet(ctx context.Context) (string, error) {
	res, err := s.backend.CreateWallet(ctx, s.conf.DefaultChain)
	if err != nil {
		return "", s.handleError("create wallet", err)
	}

	s.mu.Lock()
	s.state.wallet.Address = res.Address
	s.state.wallet.HasWallet = res.Address != ""
	s.state.wallet.IsSandbox = res.IsSandbox
	s.mu.Unlock()

	s.notify("success", "Wallet created")
	return res.Address, nil
}

// TosLink fetches the terms of service link
func (s *Session) TosLink(ctx context.Context, refresh bool) (*types.TosLinkResponse, error) {
	res, err := s.backend.GetTosLink(ctx, refresh)
	if err != nil {
		return nil, s.handleError("fetch terms of service link", err)
	}

	s.mu.Lock()
	if res.URL != "" {
		s.state.links.TosLink = res.URL
	}
	if res.AlreadyAccepted {
		s.state.tosAccepted = true
	}
	s.mu.Unlock()

	return res, nil
}

// AcceptTos records a signed agreement and reloads the status
func (s *Session) AcceptTos(ctx context.Context, signedAgreementID string, hideSuccess bool) error {
	if err := s.backend.TosCallback(ctx, signedAgreementID); err != nil {
		return s.handleError("accept terms of service", err)
	}

	s.mu.Lock()
	s.state.tosAccepted = true
	s.mu.Unlock()

	if !hideSuccess {
		s.notify("success", "Terms of service accepted")
	}

	return s.Refresh(ctx)
}

// HandleMessage dispatches a cross-origin message. Messages from
// untrusted origins or with unknown shapes are dropped with an error.
func (s *Session) HandleMessage(ctx context.Context, origin string, payload []byte) error {
	msg, err := s.parser.Parse(origin, payload)
	if err != nil {
		logger.WithFields(logger.Fields{
			"Session": s.ID,
			"Origin":  origin,
			"Error":   err.Error(),
		}).Warnf("Ignoring cross-origin message")
		return err
	}

	switch m := msg.(type) {
	case messages.AgreementSigned:
		return s.AcceptTos(ctx, m.SignedAgreementID, m.HideSuccess)
	case messages.InquiryEvent:
		if m.Complete() {
			s.notify("info", "Verification submitted, checking status")
		}
		return s.Refresh(ctx)
	}

	return fmt.Errorf("unhandled message %T", msg)
}

// SearchRecipients looks up recipients after the debounce window.
// Calls superseded by a newer one return utils.ErrDebounced.
func (s *Session) SearchRecipients(ctx context.Context, query string) ([]types.Recipient, error) {
	var recipients []types.Recipient

	err := s.search.Call(ctx, func(ctx context.Context) error {
		res, err := s.backend.SearchRecipients(ctx, query, s.conf.SearchLimit)
		if err != nil {
			return err
		}
		recipients = res
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrDebounced) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, s.handleError("search recipients", err)
	}

	return recipients, nil
}

// ExternalAccounts lists linked bank accounts
func (s *Session) ExternalAccounts(ctx context.Context) ([]types.ExternalAccount, error) {
	accounts, err := s.backend.GetExternalAccounts(ctx)
	if err != nil {
		return nil, s.handleError("fetch external accounts", err)
	}
	return accounts, nil
}

// AddExternalAccount links a bank account
func (s *Session) AddExternalAccount(ctx context.Context, input types.ExternalAccountInput) (*types.ExternalAccount, error) {
	account, err := s.backend.AddExternalAccount(ctx, input)
	if err != nil {
		return nil, s.handleError("add external account", err)
	}
	s.notify("success", "Bank account linked")
	return account, nil
}

// TransferFromExternal pulls funds from a linked bank account
func (s *Session) TransferFromExternal(ctx context.Context, input types.TransferFromExternalRequest) (*types.TransferResponse, error) {
	if errs := validateAmount(input.Amount); errs != nil {
		return nil, errs
	}
	res, err := s.backend.TransferFromExternal(ctx, input)
	if err != nil {
		return nil, s.handleError("transfer from external account", err)
	}
	s.notify("success", "Transfer initiated")
	return res, nil
}

// DepositInstructions fetches virtual account funding instructions
func (s *Session) DepositInstructions(ctx context.Context) (*types.DepositInstructions, error) {
	instructions, err := s.backend.GetDepositInstructions(ctx)
	if err != nil {
		return nil, s.handleError("fetch deposit instructions", err)
	}
	return instructions, nil
}

// Send sends funds and refreshes the balance
func (s *Session) Send(ctx context.Context, input types.SendRequest) (*types.TransferResponse, error) {
	if errs := validateAmount(input.Amount); errs != nil {
		return nil, errs
	}
	res, err := s.backend.Send(ctx, input)
	if err != nil {
		return nil, s.handleError("send", err)
	}
	s.notify("success", "Transfer sent")
	_ = s.RefreshBalance(ctx)
	return res, nil
}

// Deposit moves funds into the wallet and refreshes the balance
func (s *Session) Deposit(ctx context.Context, input types.DepositRequest) (*types.TransferResponse, error) {
	if errs := validateAmount(input.Amount); errs != nil {
		return nil, errs
	}
	res, err := s.backend.Deposit(ctx, input)
	if err != nil {
		return nil, s.handleError("deposit", err)
	}
	s.notify("success", "Deposit initiated")
	_ = s.RefreshBalance(ctx)
	return res, nil
}

// handleError surfaces err according to its kind and returns it unchanged
func (s *Session) handleError(op string, err error) error {
	var (
		fieldErrs   verification.FieldErrors
		expired     walletErrors.ErrSessionExpired
		backendErr  walletErrors.ErrBackendResponse
		unreachable walletErrors.ErrBackendUnreachable
	)

	fields := logger.Fields{"Session": s.ID, "Operation": op, "Error": err.Error()}

	switch {
	case errors.As(err, &fieldErrs), errors.Is(err, verification.ErrSubmissionInFlight):
	case errors.Is(err, context.Canceled):
	case errors.As(err, &expired):
		logger.WithFields(fields).Warnf("Session expired")
		s.notify("error", sessionExpiredNotice)
		s.scheduleReload()
	case errors.As(err, &backendErr):
		logger.WithFields(fields).Warnf("Backend rejected request")
		s.notify("error", backendErr.Message)
	case errors.As(err, &unreachable):
		logger.WithFields(fields).Errorf("Backend unreachable")
		s.notify("error", genericErrorMessage)
	default:
		logger.WithFields(fields).Errorf("Request failed")
		s.notify("error", genericErrorMessage)
	}

	return err
}

func (s *Session) notify(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, types.Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}
}

// Notifications drains the pending notifications
func (s *Session) Notifications() []types.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.notifications
	s.notifications = nil
	return out
}

// scheduleReload resets and reloads the session after the configured delay.
// Repeated expiries while a reload is pending are folded into it.
func (s *Session) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reloadTimer != nil {
		return
	}
	s.reloadTimer = time.AfterFunc(s.conf.ReloadDelay, s.reload)
}

func (s *Session) reload() {
	s.mu.Lock()
	s.state = newState()
	s.kycDraft = types.KycDraft{}
	s.controlPerson = types.ControlPersonDraft{}
	s.businessDocs = types.BusinessDocumentsDraft{}
	s.submissions = make(map[string]*verification.Submission)
	s.reloadTimer = nil
	s.statusSeq.Next()
	s.balanceSeq.Next()
	s.activitySeq.Next()
	s.mu.Unlock()

	logger.WithFields(logger.Fields{"Session": s.ID}).Infof("Reloading session")

	timeout := s.conf.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_ = s.RefreshAll(ctx)
}

// ReloadPending reports whether a reload is scheduled
func (s *Session) ReloadPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadTimer != nil
}

// Close stops a pending reload
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reloadTimer != nil {
		s.reloadTimer.Stop()
		s.reloadTimer = nil
	}
}
