package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strconv"
	"time"

	set "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"
	"github.com/guregu/null"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/opencrowd/crowdfund-backend/internal/contract"
	"github.com/opencrowd/crowdfund-backend/internal/data"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
	"github.com/opencrowd/crowdfund-backend/internal/utils"
	"github.com/opencrowd/crowdfund-backend/internal/wallet"
)

var (
	// ErrWalletNotConnected is returned when a mutation is attempted without
	// an active wallet session. It is raised before any network call.
	ErrWalletNotConnected = errors.New("wallet not connected")
	// ErrInvalidInput wraps every input validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	defaultSimulateDelay = 2 * time.Second
	simulatedTxHash      = "0xdemo"

	modeLive = "live"
	modeDemo = "demo"
)

var (
	maxGoalEth   = decimal.NewFromInt(1000)
	maxAmountEth = decimal.NewFromInt(100)
)

// CreateCampaignInput carries the user-supplied campaign form fields. Goal is
// a decimal ether string; DurationDays is a whole number of days.
type CreateCampaignInput struct {
	Title        string `json:"title" validate:"required,min=5,max=100"`
	Description  string `json:"description" validate:"required,min=20,max=1000"`
	Goal         string `json:"goal" validate:"required"`
	DurationDays string `json:"durationDays" validate:"required"`
}

// ContributeInput carries a contribution: the target campaign and a decimal
// ether amount attached as the transaction's value.
type ContributeInput struct {
	CampaignID uint64 `json:"campaignId" validate:"required,gt=0"`
	Amount     string `json:"amount" validate:"required"`
}

// MutationResult reports a submitted mutation. CampaignID is set for creates
// when the id could be recovered from the receipt's event logs; id recovery
// failing never fails the mutation itself.
type MutationResult struct {
	TxHash     string   `json:"txHash"`
	CampaignID null.Int `json:"campaignId"`
	Simulated  bool     `json:"simulated"`
}

// MutationService orchestrates the two user-initiated writes. Each operation
// has the same shape: validate preconditions, submit, await finality,
// reconcile the repository cache.
type MutationService interface {
	CreateCampaign(ctx context.Context, input CreateCampaignInput) (MutationResult, error)
	Contribute(ctx context.Context, input ContributeInput) (MutationResult, error)
	// PendingHashes lists transactions submitted but not yet mined.
	PendingHashes() []string
}

var _ MutationService = (*mutationService)(nil)

type mutationService struct {
	gateway         contract.Gateway
	session         *wallet.Session
	campaignService CampaignService
	models          *data.Models
	metricsService  metrics.MetricsService
	validator       *validator.Validate
	pending         set.Set[string]
	simulateDelay   time.Duration
}

type MutationServiceOptions struct {
	Gateway         contract.Gateway
	Session         *wallet.Session
	CampaignService CampaignService
	Models          *data.Models
	MetricsService  metrics.MetricsService
	// SimulateDelay overrides the demo-mode submission delay; zero selects
	// the 2 second default.
	SimulateDelay time.Duration
}

func (o MutationServiceOptions) validate() error {
	if o.Gateway == nil {
		return errors.New("gateway cannot be nil")
	}
	if o.Session == nil {
		return errors.New("session cannot be nil")
	}
	if o.CampaignService == nil {
		return errors.New("campaignService cannot be nil")
	}
	if o.Models == nil {
		return errors.New("models cannot be nil")
	}
	if o.MetricsService == nil {
		return errors.New("metricsService cannot be nil")
	}
	return nil
}

func NewMutationService(opts MutationServiceOptions) (*mutationService, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("validating mutation service options: %w", err)
	}

	simulateDelay := opts.SimulateDelay
	if simulateDelay == 0 {
		simulateDelay = defaultSimulateDelay
	}

	return &mutationService{
		gateway:         opts.Gateway,
		session:         opts.Session,
		campaignService: opts.CampaignService,
		models:          opts.Models,
		metricsService:  opts.MetricsService,
		validator:       validator.New(),
		pending:         set.NewSet[string](),
		simulateDelay:   simulateDelay,
	}, nil
}

func (s *mutationService) CreateCampaign(ctx context.Context, input CreateCampaignInput) (MutationResult, error) {
	if err := s.validator.Struct(input); err != nil {
		s.metricsService.IncMutationErrors(data.KindCreateCampaign, "validation_error")
		return MutationResult{}, fmt.Errorf("%w: validating create campaign input: %s", ErrInvalidInput, err)
	}

	goalWei, err := parseBoundedEther(input.Goal, maxGoalEth)
	if err != nil {
		s.metricsService.IncMutationErrors(data.KindCreateCampaign, "validation_error")
		return MutationResult{}, fmt.Errorf("%w: goal must be a positive amount of at most %s ETH", ErrInvalidInput, maxGoalEth)
	}

	durationDays, err := strconv.Atoi(input.DurationDays)
	if err != nil || durationDays < 1 || durationDays > 365 {
		s.metricsService.IncMutationErrors(data.KindCreateCampaign, "validation_error")
		return MutationResult{}, fmt.Errorf("%w: duration must be between 1 and 365 days, got %q", ErrInvalidInput, input.DurationDays)
	}

	if !s.session.IsConnected() {
		s.metricsService.IncMutationErrors(data.KindCreateCampaign, "wallet_not_connected")
		return MutationResult{}, ErrWalletNotConnected
	}

	if !s.gateway.Configured() {
		result, err := s.simulate(ctx, data.KindCreateCampaign, null.IntFrom(int64(rand.Intn(1000))), "0")
		if err != nil {
			return MutationResult{}, err
		}
		return result, nil
	}

	opts, err := s.session.TransactOpts(ctx)
	if err != nil {
		s.metricsService.IncMutationErrors(data.KindCreateCampaign, "signer_error")
		return MutationResult{}, fmt.Errorf("preparing signer: %w", err)
	}

	durationSeconds := new(big.Int).SetInt64(int64(durationDays) * secondsPerDay)
	tx, err := s.gateway.CreateCampaign(opts, input.Title, input.Description, goalWei, durationSeconds)
	if err != nil {
		s.metricsService.IncMutationErrors(data.KindCreateCampaign, "submit_error")
		return MutationResult{}, fmt.Errorf("submitting createCampaign: %w", err)
	}

	receipt, err := s.awaitReceipt(ctx, data.KindCreateCampaign, tx)
	if err != nil {
		return MutationResult{}, err
	}

	// Id recovery is best-effort enrichment; a decode failure only degrades
	// the confirmation, never the mutation outcome.
	campaignID := null.Int{}
	if id, ok := s.gateway.CampaignCreatedID(receipt); ok {
		campaignID = null.IntFrom(int64(id))
	} else {
		logrus.WithContext(ctx).Warnf("Could not recover campaign id from transaction %s logs", tx.Hash())
	}

	result := MutationResult{TxHash: tx.Hash().Hex(), CampaignID: campaignID}
	s.finalize(ctx, data.KindCreateCampaign, modeLive, data.Transaction{
		Hash:        result.TxHash,
		Kind:        data.KindCreateCampaign,
		CampaignID:  campaignID,
		AmountWei:   "0",
		FromAddress: opts.From.Hex(),
	})
	return result, nil
}

func (s *mutationService) Contribute(ctx context.Context, input ContributeInput) (MutationResult, error) {
	if err := s.validator.Struct(input); err != nil {
		s.metricsService.IncMutationErrors(data.KindContribute, "validation_error")
		return MutationResult{}, fmt.Errorf("%w: validating contribute input: %s", ErrInvalidInput, err)
	}

	amountWei, err := parseBoundedEther(input.Amount, maxAmountEth)
	if err != nil {
		s.metricsService.IncMutationErrors(data.KindContribute, "validation_error")
		return MutationResult{}, fmt.Errorf("%w: amount must be a positive amount of at most %s ETH", ErrInvalidInput, maxAmountEth)
	}

	if !s.session.IsConnected() {
		s.metricsService.IncMutationErrors(data.KindContribute, "wallet_not_connected")
		return MutationResult{}, ErrWalletNotConnected
	}

	if !s.gateway.Configured() {
		result, err := s.simulate(ctx, data.KindContribute, null.IntFrom(int64(input.CampaignID)), amountWei.String())
		if err != nil {
			return MutationResult{}, err
		}
		return result, nil
	}

	opts, err := s.session.TransactOpts(ctx)
	if err != nil {
		s.metricsService.IncMutationErrors(data.KindContribute, "signer_error")
		return MutationResult{}, fmt.Errorf("preparing signer: %w", err)
	}
	opts.Value = amountWei

	tx, err := s.gateway.Contribute(opts, new(big.Int).SetUint64(input.CampaignID))
	if err != nil {
		s.metricsService.IncMutationErrors(data.KindContribute, "submit_error")
		return MutationResult{}, fmt.Errorf("submitting contribute: %w", err)
	}

	if _, err := s.awaitReceipt(ctx, data.KindContribute, tx); err != nil {
		return MutationResult{}, err
	}

	result := MutationResult{TxHash: tx.Hash().Hex(), CampaignID: null.IntFrom(int64(input.CampaignID))}
	s.finalize(ctx, data.KindContribute, modeLive, data.Transaction{
		Hash:        result.TxHash,
		Kind:        data.KindContribute,
		CampaignID:  result.CampaignID,
		AmountWei:   amountWei.String(),
		FromAddress: opts.From.Hex(),
	})
	return result, nil
}

func (s *mutationService) PendingHashes() []string {
	return s.pending.ToSlice()
}

// awaitReceipt waits for the transaction to be mined and checks that it did
// not revert. The hash is tracked as pending for the duration of the wait.
func (s *mutationService) awaitReceipt(ctx context.Context, kind string, tx *types.Transaction) (*types.Receipt, error) {
	hash := tx.Hash().Hex()
	s.pending.Add(hash)
	defer s.pending.Remove(hash)

	receipt, err := s.gateway.WaitMined(ctx, tx)
	if err != nil {
		s.metricsService.IncMutationErrors(kind, "confirmation_error")
		return nil, fmt.Errorf("awaiting confirmation of %s: %w", hash, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		s.metricsService.IncMutationErrors(kind, "reverted")
		return nil, fmt.Errorf("transaction %s reverted", hash)
	}
	return receipt, nil
}

// simulate stands in for a real submission when no contract is deployed. It
// exists purely to keep the flow demoable and shares the sentinel-address
// gate with the gateway.
func (s *mutationService) simulate(ctx context.Context, kind string, campaignID null.Int, amountWei string) (MutationResult, error) {
	select {
	case <-time.After(s.simulateDelay):
	case <-ctx.Done():
		return MutationResult{}, fmt.Errorf("simulated %s interrupted: %w", kind, ctx.Err())
	}

	account, _ := s.session.Account()
	s.finalize(ctx, kind, modeDemo, data.Transaction{
		Hash:        simulatedTxHash,
		Kind:        kind,
		CampaignID:  campaignID,
		AmountWei:   amountWei,
		FromAddress: account.Hex(),
		Simulated:   true,
	})
	return MutationResult{TxHash: simulatedTxHash, CampaignID: campaignID, Simulated: true}, nil
}

// finalize records the mutation in the audit log and invalidates the campaign
// cache. The audit write is advisory and never fails the mutation.
func (s *mutationService) finalize(ctx context.Context, kind, mode string, record data.Transaction) {
	if err := s.models.Transactions.Insert(ctx, record); err != nil {
		logrus.WithContext(ctx).WithError(err).Warn("Recording mutation in the audit log failed")
	}
	s.campaignService.Invalidate()
	s.metricsService.IncMutationSubmitted(kind, mode)
}

// parseBoundedEther parses a decimal ether string and enforces the exclusive
// lower bound of zero and the inclusive upper bound.
func parseBoundedEther(amount string, maxEth decimal.Decimal) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	if d.Sign() <= 0 || d.GreaterThan(maxEth) {
		return nil, fmt.Errorf("amount %s out of range", d)
	}
	return utils.ParseEther(amount)
}
