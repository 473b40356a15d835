package services

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencrowd/crowdfund-backend/internal/contract"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
)

func newTestCampaignService(t *testing.T, gateway contract.Gateway) *campaignService {
	t.Helper()

	pool := pond.NewPool(4)
	t.Cleanup(pool.StopAndWait)

	svc, err := NewCampaignService(gateway, pool, metrics.NewMetricsService())
	require.NoError(t, err)
	return svc
}

func rawCampaignFixture(id uint64) contract.RawCampaign {
	return contract.RawCampaign{
		Creator:      common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0c001"),
		Title:        "Campaign",
		Description:  "Description",
		Goal:         big.NewInt(10_000),
		Deadline:     big.NewInt(time.Now().Add(24 * time.Hour).Unix()),
		AmountRaised: big.NewInt(int64(id) * 100),
		Withdrawn:    false,
	}
}

func TestNewCampaignService(t *testing.T) {
	pool := pond.NewPool(1)
	defer pool.StopAndWait()

	t.Run("returns error when gateway is nil", func(t *testing.T) {
		_, err := NewCampaignService(nil, pool, metrics.NewMetricsService())
		assert.EqualError(t, err, "gateway cannot be nil")
	})

	t.Run("returns error when pool is nil", func(t *testing.T) {
		_, err := NewCampaignService(contract.NewMockGateway(), nil, metrics.NewMetricsService())
		assert.EqualError(t, err, "pool cannot be nil")
	})

	t.Run("returns error when metricsService is nil", func(t *testing.T) {
		_, err := NewCampaignService(contract.NewMockGateway(), pool, nil)
		assert.EqualError(t, err, "metricsService cannot be nil")
	})
}

func TestCampaignServiceListCampaignsUnconfigured(t *testing.T) {
	ctx := context.Background()

	mockGateway := contract.NewMockGateway()
	mockGateway.On("Configured").Return(false).Once()
	defer mockGateway.AssertExpectations(t)

	svc := newTestCampaignService(t, mockGateway)
	now := time.Now()
	svc.nowFunc = func() time.Time { return now }

	campaigns, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, SampleCampaigns(now), campaigns)

	// Second read is served from the cache without touching the gateway.
	again, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, campaigns, again)
	mockGateway.AssertNumberOfCalls(t, "Configured", 1)
}

func TestCampaignServiceListCampaignsCountFailure(t *testing.T) {
	ctx := context.Background()

	mockGateway := contract.NewMockGateway()
	mockGateway.On("Configured").Return(true).Once()
	mockGateway.On("CampaignCount", ctx).Return(uint64(0), errors.New("rpc timeout")).Times(countReadAttempts)
	defer mockGateway.AssertExpectations(t)

	svc := newTestCampaignService(t, mockGateway)
	now := time.Now()
	svc.nowFunc = func() time.Time { return now }

	campaigns, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, SampleCampaigns(now), campaigns)
}

func TestCampaignServiceListCampaignsSkipsFailedReads(t *testing.T) {
	ctx := context.Background()

	mockGateway := contract.NewMockGateway()
	mockGateway.On("Configured").Return(true).Once()
	mockGateway.On("CampaignCount", ctx).Return(uint64(4), nil).Once()
	mockGateway.On("GetCampaign", ctx, uint64(1)).Return(rawCampaignFixture(1), nil).Once()
	mockGateway.On("GetCampaign", ctx, uint64(2)).Return(rawCampaignFixture(2), nil).Once()
	mockGateway.On("GetCampaign", ctx, uint64(3)).Return(contract.RawCampaign{}, errors.New("execution reverted")).Once()
	mockGateway.On("GetCampaign", ctx, uint64(4)).Return(rawCampaignFixture(4), nil).Once()
	defer mockGateway.AssertExpectations(t)

	svc := newTestCampaignService(t, mockGateway)

	campaigns, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	assert.Equal(t, uint64(1), campaigns[0].ID)
	assert.Equal(t, uint64(2), campaigns[1].ID)
	assert.Equal(t, uint64(4), campaigns[2].ID)
	assert.Equal(t, big.NewInt(400), campaigns[2].AmountRaised)
}

func TestCampaignServiceInvalidate(t *testing.T) {
	ctx := context.Background()

	mockGateway := contract.NewMockGateway()
	mockGateway.On("Configured").Return(true).Twice()
	mockGateway.On("CampaignCount", ctx).Return(uint64(1), nil).Once()
	mockGateway.On("CampaignCount", ctx).Return(uint64(2), nil).Once()
	mockGateway.On("GetCampaign", ctx, mock.Anything).Return(rawCampaignFixture(1), nil)
	defer mockGateway.AssertExpectations(t)

	svc := newTestCampaignService(t, mockGateway)

	campaigns, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)

	svc.Invalidate()

	campaigns, err = svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 2)
}
