package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider.
type MockProvider struct {
	mock.Mock

	accountsChanged chan []common.Address
	chainChanged    chan *big.Int
}

var _ Provider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{
		accountsChanged: make(chan []common.Address, 4),
		chainChanged:    make(chan *big.Int, 4),
	}
}

func (m *MockProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if accounts := args.Get(0); accounts != nil {
		return accounts.([]common.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	if accounts := args.Get(0); accounts != nil {
		return accounts.([]common.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if chainID := args.Get(0); chainID != nil {
		return chainID.(*big.Int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) TransactOpts(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	args := m.Called(ctx, account)
	if opts := args.Get(0); opts != nil {
		return opts.(*bind.TransactOpts), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) AccountsChanged() <-chan []common.Address {
	return m.accountsChanged
}

func (m *MockProvider) ChainChanged() <-chan *big.Int {
	return m.chainChanged
}

// EmitAccountsChanged pushes an accounts-changed notification, as a provider
// would after a provider-side account switch or revocation.
func (m *MockProvider) EmitAccountsChanged(accounts []common.Address) {
	m.accountsChanged <- accounts
}

// EmitChainChanged pushes a chain-changed notification.
func (m *MockProvider) EmitChainChanged(chainID *big.Int) {
	m.chainChanged <- chainID
}
