package entities

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CampaignStatus classifies a campaign's lifecycle stage. Exactly one status
// applies at any point in time, chosen by precedence:
// withdrawn > goal reached > expired > active.
type CampaignStatus string

const (
	StatusCompleted CampaignStatus = "Completed"
	StatusFunded    CampaignStatus = "Funded"
	StatusExpired   CampaignStatus = "Expired"
	StatusActive    CampaignStatus = "Active"
)

const secondsPerDay = 86_400

// Campaign is the canonical, normalized form of an on-chain campaign record.
// Amounts are in wei. The record is read-only once fetched; all derived state
// is computed against a caller-supplied clock.
type Campaign struct {
	ID           uint64         `json:"id"`
	Creator      common.Address `json:"creator"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Goal         *big.Int       `json:"goal"`
	Deadline     int64          `json:"deadline"`
	AmountRaised *big.Int       `json:"amountRaised"`
	Withdrawn    bool           `json:"withdrawn"`
}

func (c Campaign) IsExpired(now time.Time) bool {
	return now.Unix() > c.Deadline
}

func (c Campaign) IsGoalReached() bool {
	if c.AmountRaised == nil || c.Goal == nil {
		return false
	}
	return c.AmountRaised.Cmp(c.Goal) >= 0
}

// Status returns the campaign's lifecycle classification at the given time.
func (c Campaign) Status(now time.Time) CampaignStatus {
	switch {
	case c.Withdrawn:
		return StatusCompleted
	case c.IsGoalReached():
		return StatusFunded
	case c.IsExpired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// ProgressPercentage returns 100 * amountRaised / goal as an exact decimal,
// unclamped. A zero or missing goal yields 0 rather than a division error.
func (c Campaign) ProgressPercentage() decimal.Decimal {
	if c.Goal == nil || c.Goal.Sign() <= 0 || c.AmountRaised == nil {
		return decimal.Zero
	}
	raised := decimal.NewFromBigInt(c.AmountRaised, 0)
	goal := decimal.NewFromBigInt(c.Goal, 0)
	return raised.Mul(decimal.NewFromInt(100)).DivRound(goal, 8)
}

// ProgressBarValue is the display form of ProgressPercentage, clamped to 100.
func (c Campaign) ProgressBarValue() float64 {
	progress, _ := c.ProgressPercentage().Float64()
	if progress > 100 {
		return 100
	}
	return progress
}

// DaysRemaining returns the number of whole or partial days until the
// deadline, never negative. It is 0 exactly when the deadline has passed.
func (c Campaign) DaysRemaining(now time.Time) int {
	secs := c.Deadline - now.Unix()
	if secs <= 0 {
		return 0
	}
	return int((secs + secondsPerDay - 1) / secondsPerDay)
}

// IsContributable is the sole gate for accepting a contribution: the campaign
// must not be expired and its funds must not have been withdrawn.
func (c Campaign) IsContributable(now time.Time) bool {
	return !c.IsExpired(now) && !c.Withdrawn
}

// ShortAddress renders an address in the abbreviated 0x1234…abcd display form.
func ShortAddress(address common.Address) string {
	hex := address.Hex()
	return fmt.Sprintf("%s...%s", hex[:6], hex[len(hex)-4:])
}
