package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/opencrowd/crowdfund-backend/internal/entities"
)

type MockCampaignService struct {
	mock.Mock
}

var _ CampaignService = (*MockCampaignService)(nil)

func NewMockCampaignService() *MockCampaignService {
	return &MockCampaignService{}
}

func (m *MockCampaignService) ListCampaigns(ctx context.Context) ([]entities.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Campaign), args.Error(1)
}

func (m *MockCampaignService) Invalidate() {
	m.Called()
}

type MockMutationService struct {
	mock.Mock
}

var _ MutationService = (*MockMutationService)(nil)

func NewMockMutationService() *MockMutationService {
	return &MockMutationService{}
}

func (m *MockMutationService) CreateCampaign(ctx context.Context, input CreateCampaignInput) (MutationResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(MutationResult), args.Error(1)
}

func (m *MockMutationService) Contribute(ctx context.Context, input ContributeInput) (MutationResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(MutationResult), args.Error(1)
}

func (m *MockMutationService) PendingHashes() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
