package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of Gateway.
type MockGateway struct {
	mock.Mock
}

var _ Gateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGateway) ContractAddress() common.Address {
	args := m.Called()
	return args.Get(0).(common.Address)
}

func (m *MockGateway) CampaignCount(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockGateway) GetCampaign(ctx context.Context, campaignID uint64) (RawCampaign, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(RawCampaign), args.Error(1)
}

func (m *MockGateway) CreateCampaign(opts *bind.TransactOpts, title, description string, goalWei, durationSeconds *big.Int) (*types.Transaction, error) {
	args := m.Called(opts, title, description, goalWei, durationSeconds)
	if tx := args.Get(0); tx != nil {
		return tx.(*types.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Contribute(opts *bind.TransactOpts, campaignID *big.Int) (*types.Transaction, error) {
	args := m.Called(opts, campaignID)
	if tx := args.Get(0); tx != nil {
		return tx.(*types.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	args := m.Called(ctx, tx)
	if receipt := args.Get(0); receipt != nil {
		return receipt.(*types.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) CampaignCreatedID(receipt *types.Receipt) (uint64, bool) {
	args := m.Called(receipt)
	return args.Get(0).(uint64), args.Bool(1)
}
