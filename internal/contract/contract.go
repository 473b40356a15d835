// Package contract wraps the deployed crowdfunding contract behind a typed
// gateway. A zero contract address is a valid configuration meaning no
// contract is deployed; consumers must check Configured() and fall back to
// sample data instead of issuing network calls.
package contract

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// CrowdfundABI is the application binary interface of the crowdfunding
// contract. withdrawFunds and refund are part of the deployed interface but
// are not exercised by this backend.
const CrowdfundABI = `[
	{"type":"function","name":"campaignCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"campaigns","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"creator","type":"address"},{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"goal","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"amountRaised","type":"uint256"},{"name":"withdrawn","type":"bool"}]},
	{"type":"function","name":"getCampaign","stateMutability":"view","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[{"name":"creator","type":"address"},{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"goal","type":"uint256"},{"name":"deadline","type":"uint256"},{"name":"amountRaised","type":"uint256"},{"name":"withdrawn","type":"bool"}]},
	{"type":"function","name":"createCampaign","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"description","type":"string"},{"name":"goal","type":"uint256"},{"name":"duration","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"contribute","stateMutability":"payable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"withdrawFunds","stateMutability":"nonpayable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"refund","stateMutability":"nonpayable","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"CampaignCreated","anonymous":false,"inputs":[{"name":"campaignId","type":"uint256","indexed":false},{"name":"creator","type":"address","indexed":false},{"name":"title","type":"string","indexed":false},{"name":"goal","type":"uint256","indexed":false},{"name":"deadline","type":"uint256","indexed":false}]},
	{"type":"event","name":"Contributed","anonymous":false,"inputs":[{"name":"campaignId","type":"uint256","indexed":false},{"name":"contributor","type":"address","indexed":false},{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"FundsWithdrawn","anonymous":false,"inputs":[{"name":"campaignId","type":"uint256","indexed":false},{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"Refunded","anonymous":false,"inputs":[{"name":"campaignId","type":"uint256","indexed":false},{"name":"contributor","type":"address","indexed":false},{"name":"amount","type":"uint256","indexed":false}]}
]`

const campaignCreatedEvent = "CampaignCreated"

// ErrNotConfigured is returned by network-touching methods when the contract
// address is the zero sentinel. Callers are expected to check Configured()
// first and substitute sample data.
var ErrNotConfigured = errors.New("no contract address configured")

// RawCampaign is the unnormalized getCampaign tuple in contract field order.
type RawCampaign struct {
	Creator      common.Address
	Title        string
	Description  string
	Goal         *big.Int
	Deadline     *big.Int
	AmountRaised *big.Int
	Withdrawn    bool
}

// Backend is the chain client surface the gateway needs: contract reads and
// writes plus receipt lookups for mined-transaction waits. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Gateway exposes the crowdfunding contract's read and write operations.
type Gateway interface {
	Configured() bool
	ContractAddress() common.Address
	CampaignCount(ctx context.Context) (uint64, error)
	GetCampaign(ctx context.Context, campaignID uint64) (RawCampaign, error)
	CreateCampaign(opts *bind.TransactOpts, title, description string, goalWei, durationSeconds *big.Int) (*types.Transaction, error)
	Contribute(opts *bind.TransactOpts, campaignID *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	CampaignCreatedID(receipt *types.Receipt) (uint64, bool)
}

var _ Gateway = (*gateway)(nil)

type gateway struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	backend Backend
}

// NewGateway builds a gateway bound to the given contract address. A zero
// address yields an unconfigured gateway whose network methods fail with
// ErrNotConfigured; backend may be nil in that mode.
func NewGateway(address common.Address, backend Backend) (*gateway, error) {
	parsed, err := abi.JSON(strings.NewReader(CrowdfundABI))
	if err != nil {
		return nil, errors.Wrap(err, "parsing crowdfund contract ABI")
	}

	g := &gateway{
		address: address,
		abi:     parsed,
		backend: backend,
	}
	if g.Configured() {
		if backend == nil {
			return nil, errors.New("backend cannot be nil when a contract address is configured")
		}
		g.bound = bind.NewBoundContract(address, parsed, backend, backend, backend)
	}
	return g, nil
}

func (g *gateway) Configured() bool {
	return g.address != (common.Address{})
}

func (g *gateway) ContractAddress() common.Address {
	return g.address
}

func (g *gateway) CampaignCount(ctx context.Context) (uint64, error) {
	if !g.Configured() {
		return 0, ErrNotConfigured
	}

	var out []interface{}
	err := g.bound.Call(&bind.CallOpts{Context: ctx}, &out, "campaignCount")
	if err != nil {
		return 0, errors.Wrap(err, "calling campaignCount")
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, errors.Errorf("campaignCount returned unexpected type %T", out[0])
	}
	return count.Uint64(), nil
}

func (g *gateway) GetCampaign(ctx context.Context, campaignID uint64) (RawCampaign, error) {
	if !g.Configured() {
		return RawCampaign{}, ErrNotConfigured
	}

	var out []interface{}
	err := g.bound.Call(&bind.CallOpts{Context: ctx}, &out, "getCampaign", new(big.Int).SetUint64(campaignID))
	if err != nil {
		return RawCampaign{}, errors.Wrapf(err, "calling getCampaign(%d)", campaignID)
	}
	if len(out) != 7 {
		return RawCampaign{}, errors.Errorf("getCampaign(%d) returned %d values, want 7", campaignID, len(out))
	}

	raw := RawCampaign{}
	var ok bool
	if raw.Creator, ok = out[0].(common.Address); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): creator has unexpected type %T", campaignID, out[0])
	}
	if raw.Title, ok = out[1].(string); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): title has unexpected type %T", campaignID, out[1])
	}
	if raw.Description, ok = out[2].(string); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): description has unexpected type %T", campaignID, out[2])
	}
	if raw.Goal, ok = out[3].(*big.Int); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): goal has unexpected type %T", campaignID, out[3])
	}
	if raw.Deadline, ok = out[4].(*big.Int); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): deadline has unexpected type %T", campaignID, out[4])
	}
	if raw.AmountRaised, ok = out[5].(*big.Int); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): amountRaised has unexpected type %T", campaignID, out[5])
	}
	if raw.Withdrawn, ok = out[6].(bool); !ok {
		return RawCampaign{}, errors.Errorf("getCampaign(%d): withdrawn has unexpected type %T", campaignID, out[6])
	}
	return raw, nil
}

func (g *gateway) CreateCampaign(opts *bind.TransactOpts, title, description string, goalWei, durationSeconds *big.Int) (*types.Transaction, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	tx, err := g.bound.Transact(opts, "createCampaign", title, description, goalWei, durationSeconds)
	if err != nil {
		return nil, errors.Wrap(err, "submitting createCampaign transaction")
	}
	return tx, nil
}

func (g *gateway) Contribute(opts *bind.TransactOpts, campaignID *big.Int) (*types.Transaction, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	tx, err := g.bound.Transact(opts, "contribute", campaignID)
	if err != nil {
		return nil, errors.Wrapf(err, "submitting contribute transaction for campaign %s", campaignID)
	}
	return tx, nil
}

func (g *gateway) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	receipt, err := bind.WaitMined(ctx, g.backend, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for transaction %s to be mined", tx.Hash())
	}
	return receipt, nil
}

// CampaignCreatedID scans a receipt's logs for the CampaignCreated event and
// decodes the assigned campaign id. The scan is best-effort: any decoding
// problem yields (0, false) rather than an error, since id recovery never
// decides the fate of the enclosing mutation.
func (g *gateway) CampaignCreatedID(receipt *types.Receipt) (uint64, bool) {
	if receipt == nil {
		return 0, false
	}

	eventID := g.abi.Events[campaignCreatedEvent].ID
	for _, entry := range receipt.Logs {
		if entry == nil || len(entry.Topics) == 0 || entry.Topics[0] != eventID {
			continue
		}
		values, err := g.abi.Unpack(campaignCreatedEvent, entry.Data)
		if err != nil || len(values) == 0 {
			continue
		}
		campaignID, ok := values[0].(*big.Int)
		if !ok {
			continue
		}
		return campaignID.Uint64(), true
	}
	return 0, false
}
