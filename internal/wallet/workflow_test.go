package wallet_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"naijalotto_client/internal/api"
	"naijalotto_client/internal/domain"
	"naijalotto_client/internal/wallet"
	"naijalotto_client/pkg/httpClient"
	"naijalotto_client/pkg/logger"
	"naijalotto_client/pkg/utils/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// 模擬 WalletAPI
type MockWalletAPI struct {
	mock.Mock
}

func (m *MockWalletAPI) Details(ctx context.Context) (*domain.WalletDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletDetails), args.Error(1)
}

func (m *MockWalletAPI) TopUp(ctx context.Context, amount float64) (*domain.TopUpAuthorization, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopUpAuthorization), args.Error(1)
}

func (m *MockWalletAPI) Withdraw(ctx context.Context, req api.WithdrawRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockWalletAPI) VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

var _ api.WalletAPI = (*MockWalletAPI)(nil)

type recordingNavigator struct {
	mutex       sync.Mutex
	externalURL string
	external    int
}

func (n *recordingNavigator) ToLogin()  {}
func (n *recordingNavigator) ToWallet() {}

func (n *recordingNavigator) ToExternal(url string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.externalURL = url
	n.external++
}

type recordingNotifier struct {
	mutex     sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(title, message string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(title, message string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) errorMessages() []string {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]string(nil), n.errors...)
}

func validWithdrawRequest() api.WithdrawRequest {
	return api.WithdrawRequest{
		Amount:        500,
		AccountNumber: "0123456789",
		AccountName:   "Ada Obi",
		BankCode:      "058",
	}
}

// WorkflowTestSuite 錢包工作流測試套件
type WorkflowTestSuite struct {
	suite.Suite
	walletAPI *MockWalletAPI
	navigator *recordingNavigator
	notifier  *recordingNotifier
	scheduler *scheduler.Scheduler
	workflow  wallet.Workflow
}

func (s *WorkflowTestSuite) SetupTest() {
	s.walletAPI = new(MockWalletAPI)
	s.navigator = &recordingNavigator{}
	s.notifier = &recordingNotifier{}
	s.scheduler = scheduler.New()
	s.scheduler.Start()
	s.workflow = wallet.NewWorkflow(
		s.walletAPI, s.navigator, s.notifier, s.scheduler,
		logger.NewNopLogger(), 50*time.Millisecond)
}

func (s *WorkflowTestSuite) TearDownTest() {
	s.scheduler.Stop()
}

// TestRefetchIsTheSoleBalanceWriter 拉取成功後詳情可讀，初次載入旗標釋放
func (s *WorkflowTestSuite) TestRefetchIsTheSoleBalanceWriter() {
	s.True(s.workflow.IsLoading())
	s.Nil(s.workflow.Details())

	s.walletAPI.On("Details", mock.Anything).
		Return(&domain.WalletDetails{Balance: 750}, nil)

	s.Require().NoError(s.workflow.Refetch(context.Background()))

	s.False(s.workflow.IsLoading())
	s.Require().NotNil(s.workflow.Details())
	s.Equal(float64(750), s.workflow.Details().Balance)
}

// TestRefetchFailureReleasesLoading 拉取失敗也要釋放初次載入旗標
func (s *WorkflowTestSuite) TestRefetchFailureReleasesLoading() {
	s.walletAPI.On("Details", mock.Anything).
		Return(nil, &httpClient.APIError{StatusCode: 500})

	s.Error(s.workflow.Refetch(context.Background()))
	s.False(s.workflow.IsLoading())
	s.Nil(s.workflow.Details())
}

// TestTopUpBelowMinimumRejectedLocally 金額低於限額：本地拒絕，不發請求
func (s *WorkflowTestSuite) TestTopUpBelowMinimumRejectedLocally() {
	_, err := s.workflow.TopUp(context.Background(), 99)

	s.ErrorIs(err, wallet.ErrInvalidAmount)
	s.walletAPI.AssertNotCalled(s.T(), "TopUp", mock.Anything, mock.Anything)
	s.Zero(s.navigator.external)
}

// TestTopUpRedirectsWithoutLocalCredit 充值成功：跳轉支付頁、不在本地入帳、
// 延遲後由 Refetch 拉回權威餘額
func (s *WorkflowTestSuite) TestTopUpRedirectsWithoutLocalCredit() {
	var detailsCalls atomic.Int32
	s.walletAPI.On("Details", mock.Anything).
		Run(func(mock.Arguments) { detailsCalls.Add(1) }).
		Return(&domain.WalletDetails{Balance: 100}, nil)
	s.Require().NoError(s.workflow.Refetch(context.Background()))

	s.walletAPI.On("TopUp", mock.Anything, float64(500)).
		Return(&domain.TopUpAuthorization{
			AuthorizationURL: "https://checkout.paystack.com/abc123",
			Reference:        "ref_001",
		}, nil)

	auth, err := s.workflow.TopUp(context.Background(), 500)

	s.Require().NoError(err)
	s.Equal("ref_001", auth.Reference)
	s.Equal("https://checkout.paystack.com/abc123", s.navigator.externalURL)
	// 跳轉後本地餘額保持原值——絕不樂觀入帳
	s.Equal(float64(100), s.workflow.Details().Balance)
	s.False(s.workflow.IsProcessing())

	// 延遲刷新觸發後餘額由後端快照更新
	s.Eventually(func() bool {
		return detailsCalls.Load() == 2
	}, 3*time.Second, 20*time.Millisecond)
}

// TestTopUpFailureShowsDetail 授權失敗：detail 原文展示，不跳轉
func (s *WorkflowTestSuite) TestTopUpFailureShowsDetail() {
	s.walletAPI.On("TopUp", mock.Anything, float64(200)).
		Return(nil, &httpClient.APIError{StatusCode: 502, Detail: "Payment provider unavailable"})

	_, err := s.workflow.TopUp(context.Background(), 200)

	s.Error(err)
	s.Zero(s.navigator.external)
	s.Contains(s.notifier.errorMessages(), "Payment provider unavailable")
	s.False(s.workflow.IsProcessing())
}

// TestWithdrawIncompleteBankDetailsRejectedLocally 銀行欄位缺失：本地拒絕
func (s *WorkflowTestSuite) TestWithdrawIncompleteBankDetailsRejectedLocally() {
	req := validWithdrawRequest()
	req.AccountNumber = ""

	err := s.workflow.Withdraw(context.Background(), req)

	s.ErrorIs(err, wallet.ErrIncompleteBankDetails)
	s.walletAPI.AssertNotCalled(s.T(), "Withdraw", mock.Anything, mock.Anything)
}

// TestWithdrawBelowMinimumRejectedLocally 金額低於限額：本地拒絕
func (s *WorkflowTestSuite) TestWithdrawBelowMinimumRejectedLocally() {
	req := validWithdrawRequest()
	req.Amount = 50

	err := s.workflow.Withdraw(context.Background(), req)

	s.ErrorIs(err, wallet.ErrInvalidAmount)
	s.walletAPI.AssertNotCalled(s.T(), "Withdraw", mock.Anything, mock.Anything)
}

// TestWithdrawSuccessRefetchesDetails 提款成功後刷新錢包詳情
func (s *WorkflowTestSuite) TestWithdrawSuccessRefetchesDetails() {
	req := validWithdrawRequest()
	s.walletAPI.On("Withdraw", mock.Anything, req).
		Return(&domain.Transaction{ID: "tx1", Type: domain.TransactionDebit}, nil)
	s.walletAPI.On("Details", mock.Anything).
		Return(&domain.WalletDetails{Balance: 250}, nil)

	s.Require().NoError(s.workflow.Withdraw(context.Background(), req))

	s.walletAPI.AssertCalled(s.T(), "Details", mock.Anything)
	s.Equal(float64(250), s.workflow.Details().Balance)
	s.False(s.workflow.IsProcessing())
}

// TestWithdrawFailurePreservesFormIntent 提款失敗：detail 原文展示，旗標釋放
func (s *WorkflowTestSuite) TestWithdrawFailurePreservesFormIntent() {
	req := validWithdrawRequest()
	s.walletAPI.On("Withdraw", mock.Anything, req).
		Return(nil, &httpClient.APIError{StatusCode: 400, Detail: "Insufficient funds for withdrawal"})

	err := s.workflow.Withdraw(context.Background(), req)

	s.Error(err)
	s.Contains(s.notifier.errorMessages(), "Insufficient funds for withdrawal")
	s.walletAPI.AssertNotCalled(s.T(), "Details", mock.Anything)
	s.False(s.workflow.IsProcessing())
}

// TestSharedProcessingGuard 充值與提款共享同一在途旗標
func (s *WorkflowTestSuite) TestSharedProcessingGuard() {
	entered := make(chan struct{})
	proceed := make(chan struct{})

	s.walletAPI.On("TopUp", mock.Anything, float64(500)).
		Run(func(mock.Arguments) {
			close(entered)
			<-proceed
		}).
		Return(&domain.TopUpAuthorization{AuthorizationURL: "https://pay", Reference: "ref_x"}, nil)
	s.walletAPI.On("Details", mock.Anything).
		Return(&domain.WalletDetails{Balance: 100}, nil).Maybe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.workflow.TopUp(context.Background(), 500)
	}()

	<-entered
	s.True(s.workflow.IsProcessing())

	// 在途期間的提款一律拒絕
	err := s.workflow.Withdraw(context.Background(), validWithdrawRequest())
	s.ErrorIs(err, wallet.ErrProcessing)
	s.walletAPI.AssertNotCalled(s.T(), "Withdraw", mock.Anything, mock.Anything)

	close(proceed)
	<-done
	s.False(s.workflow.IsProcessing())
}

// TestLocalValidationPrecedesProcessingGuard 金額校驗先於在途旗標：
// 已有操作在途時，不合法金額仍報 ErrInvalidAmount
func (s *WorkflowTestSuite) TestLocalValidationPrecedesProcessingGuard() {
	entered := make(chan struct{})
	proceed := make(chan struct{})

	s.walletAPI.On("TopUp", mock.Anything, float64(500)).
		Run(func(mock.Arguments) {
			close(entered)
			<-proceed
		}).
		Return(&domain.TopUpAuthorization{AuthorizationURL: "https://pay", Reference: "ref_y"}, nil)
	s.walletAPI.On("Details", mock.Anything).
		Return(&domain.WalletDetails{Balance: 100}, nil).Maybe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.workflow.TopUp(context.Background(), 500)
	}()

	<-entered
	_, err := s.workflow.TopUp(context.Background(), 50)
	s.ErrorIs(err, wallet.ErrInvalidAmount)

	close(proceed)
	<-done
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

// TestVerifyPaymentPassThrough 支付校驗透傳後端響應
func TestVerifyPaymentPassThrough(t *testing.T) {
	walletAPI := new(MockWalletAPI)
	w := wallet.NewWorkflow(walletAPI, &recordingNavigator{}, &recordingNotifier{},
		scheduler.New(), logger.NewNopLogger(), time.Second)

	payload := json.RawMessage(`{"status":"success"}`)
	walletAPI.On("VerifyPayment", mock.Anything, "ref_001").Return(payload, nil)

	got, err := w.VerifyPayment(context.Background(), "ref_001")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"status":"success"}`, string(got))
}
