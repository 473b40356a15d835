// Package wallet owns the signing session: which account is active, on which
// chain, and whether the underlying key provider is reachable. It defines a
// minimal Provider interface so the session can be tested against fakes and
// so the concrete key source stays swappable.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrProviderMissing indicates no key provider is configured at all. It is
	// a first-class condition, not a crash.
	ErrProviderMissing = errors.New("wallet provider is not available")
	// ErrNoAccounts indicates the provider holds no accounts to connect with.
	ErrNoAccounts = errors.New("wallet provider returned no accounts")
	// ErrNotConnected indicates a signing operation was requested without an
	// active session.
	ErrNotConnected = errors.New("wallet not connected")
)

// Provider is the minimal surface of an external key/signing provider.
type Provider interface {
	// RequestAccounts authorizes and returns the provider's accounts. This is
	// the interactive path used by an explicit connect.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Accounts lists already-authorized accounts without prompting. Used for
	// the silent startup probe.
	Accounts(ctx context.Context) ([]common.Address, error)
	// ChainID returns the id of the network the provider operates on.
	ChainID(ctx context.Context) (*big.Int, error)
	// TransactOpts returns signing options bound to the given account.
	TransactOpts(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
	// AccountsChanged emits the new account list whenever it changes. An empty
	// list means the provider revoked access.
	AccountsChanged() <-chan []common.Address
	// ChainChanged emits the new chain id whenever the provider switches
	// networks.
	ChainChanged() <-chan *big.Int
}
