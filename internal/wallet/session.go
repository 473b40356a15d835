package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// State is the session's connection lifecycle stage.
type State string

const (
	StateDisconnected State = "Disconnected"
	StateConnecting   State = "Connecting"
	StateConnected    State = "Connected"
	StateError        State = "Error"
)

// Session is the process-wide wallet session: one active account, one chain
// id, one connection state. It is read by many consumers and mutated only
// here, guarded by a mutex.
type Session struct {
	mu       sync.RWMutex
	provider Provider
	account  *common.Address
	chainID  *big.Int
	state    State
	errMsg   string
}

// NewSession builds a session over the given provider. A nil provider models
// the provider-missing condition: the session stays usable but every connect
// fails with ErrProviderMissing.
func NewSession(provider Provider) *Session {
	return &Session{
		provider: provider,
		state:    StateDisconnected,
	}
}

// Connect requests account access from the provider and adopts the first
// returned address and the active chain id.
func (s *Session) Connect(ctx context.Context) error {
	if s.provider == nil {
		s.setError(ErrProviderMissing.Error())
		return ErrProviderMissing
	}

	s.setState(StateConnecting)

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		err = fmt.Errorf("requesting accounts: %w", err)
		s.setError(err.Error())
		return err
	}
	if len(accounts) == 0 {
		s.setError(ErrNoAccounts.Error())
		return ErrNoAccounts
	}

	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		err = fmt.Errorf("querying chain id: %w", err)
		s.setError(err.Error())
		return err
	}

	s.mu.Lock()
	account := accounts[0]
	s.account = &account
	s.chainID = chainID
	s.state = StateConnected
	s.errMsg = ""
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"account": account.Hex(), "chain_id": chainID}).Info("Wallet connected")
	return nil
}

// Disconnect clears all session fields unconditionally. Providers generally
// cannot be forced to revoke authorization, so this is local state only.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.account = nil
	s.chainID = nil
	s.state = StateDisconnected
	s.errMsg = ""
	s.mu.Unlock()
	logrus.Info("Wallet disconnected")
}

// Probe silently adopts an already-authorized account without prompting.
// Failures are swallowed and leave the session disconnected.
func (s *Session) Probe(ctx context.Context) {
	if s.provider == nil {
		return
	}

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Wallet connection probe failed")
		return
	}
	if len(accounts) == 0 {
		return
	}

	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Wallet connection probe failed querying chain id")
		return
	}

	s.mu.Lock()
	account := accounts[0]
	s.account = &account
	s.chainID = chainID
	s.state = StateConnected
	s.errMsg = ""
	s.mu.Unlock()
	logrus.WithField("account", account.Hex()).Info("Adopted pre-authorized wallet account")
}

// Run consumes the provider's change notifications until the context ends.
// An empty accounts notification performs the disconnect transition; a
// non-empty one adopts the first address, modeling a provider-side account
// switch without a full reconnect.
func (s *Session) Run(ctx context.Context) {
	if s.provider == nil {
		return
	}

	accountsChanged := s.provider.AccountsChanged()
	chainChanged := s.provider.ChainChanged()

	for {
		select {
		case <-ctx.Done():
			return
		case accounts, ok := <-accountsChanged:
			if !ok {
				return
			}
			if len(accounts) == 0 {
				s.Disconnect()
				continue
			}
			s.mu.Lock()
			account := accounts[0]
			s.account = &account
			if s.state != StateConnected {
				s.state = StateConnected
				s.errMsg = ""
			}
			s.mu.Unlock()
			logrus.WithField("account", accounts[0].Hex()).Info("Wallet account changed")
		case chainID, ok := <-chainChanged:
			if !ok {
				return
			}
			s.mu.Lock()
			s.chainID = chainID
			s.mu.Unlock()
			logrus.WithField("chain_id", chainID).Info("Wallet chain changed")
		}
	}
}

// IsConnected reports whether an account is active.
func (s *Session) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil
}

// Account returns the active account, if any.
func (s *Session) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return common.Address{}, false
	}
	return *s.account, true
}

// ChainID returns the active network id, or nil when disconnected.
func (s *Session) ChainID() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chainID == nil {
		return nil
	}
	return new(big.Int).Set(s.chainID)
}

// State returns the connection state and, for StateError, the message.
func (s *Session) State() (State, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.errMsg
}

// TransactOpts returns signing options for the active account.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	account, ok := s.Account()
	if !ok {
		return nil, ErrNotConnected
	}
	if s.provider == nil {
		return nil, ErrProviderMissing
	}

	opts, err := s.provider.TransactOpts(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("building transact opts for %s: %w", account.Hex(), err)
	}
	return opts, nil
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.state = StateError
	s.errMsg = msg
	s.mu.Unlock()
}
