package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

const defaultChainPollInterval = 30 * time.Second

// KeystoreProvider implements Provider over an on-disk go-ethereum keystore
// and an RPC client. Account-change notifications come from keystore wallet
// events; chain changes are detected by polling the RPC chain id, since the
// HTTP transport has no push signal for it.
type KeystoreProvider struct {
	ks                *keystore.KeyStore
	client            *ethclient.Client
	passphrase        string
	chainPollInterval time.Duration

	accountsChanged chan []common.Address
	chainChanged    chan *big.Int
}

var _ Provider = (*KeystoreProvider)(nil)

func NewKeystoreProvider(keystoreDir, passphrase string, client *ethclient.Client) (*KeystoreProvider, error) {
	if keystoreDir == "" {
		return nil, fmt.Errorf("keystoreDir cannot be empty")
	}
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}

	return &KeystoreProvider{
		ks:                keystore.NewKeyStore(keystoreDir, keystore.StandardScryptN, keystore.StandardScryptP),
		client:            client,
		passphrase:        passphrase,
		chainPollInterval: defaultChainPollInterval,
		accountsChanged:   make(chan []common.Address, 1),
		chainChanged:      make(chan *big.Int, 1),
	}, nil
}

func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	stored := p.ks.Accounts()
	if len(stored) == 0 {
		return nil, nil
	}

	// Unlocking the first account is the authorization step; listing alone
	// never touches key material.
	if err := p.ks.Unlock(stored[0], p.passphrase); err != nil {
		return nil, fmt.Errorf("unlocking account %s: %w", stored[0].Address.Hex(), err)
	}
	return p.addresses(stored), nil
}

func (p *KeystoreProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return p.addresses(p.ks.Accounts()), nil
}

func (p *KeystoreProvider) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := p.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying chain id: %w", err)
	}
	return chainID, nil
}

func (p *KeystoreProvider) TransactOpts(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	chainID, err := p.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyStoreTransactorWithChainID(p.ks, accounts.Account{Address: account}, chainID)
	if err != nil {
		return nil, fmt.Errorf("building keystore transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (p *KeystoreProvider) AccountsChanged() <-chan []common.Address {
	return p.accountsChanged
}

func (p *KeystoreProvider) ChainChanged() <-chan *big.Int {
	return p.chainChanged
}

// Run forwards keystore wallet events and chain id changes to the session
// until the context ends.
func (p *KeystoreProvider) Run(ctx context.Context) {
	events := make(chan accounts.WalletEvent, 16)
	sub := p.ks.Subscribe(events)
	defer sub.Unsubscribe()

	ticker := time.NewTicker(p.chainPollInterval)
	defer ticker.Stop()

	var lastChainID *big.Int

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				logrus.WithError(err).Warn("Keystore event subscription failed")
			}
			return
		case <-events:
			p.emitAccounts(ctx)
		case <-ticker.C:
			chainID, err := p.client.ChainID(ctx)
			if err != nil {
				logrus.WithError(err).Debug("Polling chain id failed")
				continue
			}
			if lastChainID != nil && lastChainID.Cmp(chainID) == 0 {
				continue
			}
			if lastChainID != nil {
				select {
				case p.chainChanged <- chainID:
				default:
				}
			}
			lastChainID = chainID
		}
	}
}

func (p *KeystoreProvider) emitAccounts(ctx context.Context) {
	addresses := p.addresses(p.ks.Accounts())
	select {
	case p.accountsChanged <- addresses:
	case <-ctx.Done():
	}
}

func (p *KeystoreProvider) addresses(stored []accounts.Account) []common.Address {
	addresses := make([]common.Address, 0, len(stored))
	for _, account := range stored {
		addresses = append(addresses, account.Address)
	}
	return addresses
}
