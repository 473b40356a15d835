package entities

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wei(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "invalid wei amount %q", s)
	return v
}

func TestCampaignStatusPrecedence(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	testCases := []struct {
		name       string
		withdrawn  bool
		raised     string
		goal       string
		deadline   int64
		wantStatus CampaignStatus
	}{
		{
			name:       "withdrawn wins over everything",
			withdrawn:  true,
			raised:     "5000000000000000000",
			goal:       "1000000000000000000",
			deadline:   now.Unix() - 2*secondsPerDay,
			wantStatus: StatusCompleted,
		},
		{
			name:       "goal reached wins over expired",
			raised:     "2000000000000000000",
			goal:       "1000000000000000000",
			deadline:   now.Unix() - secondsPerDay,
			wantStatus: StatusFunded,
		},
		{
			name:       "goal reached exactly at goal",
			raised:     "1000000000000000000",
			goal:       "1000000000000000000",
			deadline:   now.Unix() + secondsPerDay,
			wantStatus: StatusFunded,
		},
		{
			name:       "expired without goal",
			raised:     "500000000000000000",
			goal:       "1000000000000000000",
			deadline:   now.Unix() - 1,
			wantStatus: StatusExpired,
		},
		{
			name:       "active by default",
			raised:     "500000000000000000",
			goal:       "1000000000000000000",
			deadline:   now.Unix() + secondsPerDay,
			wantStatus: StatusActive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Campaign{
				Withdrawn:    tc.withdrawn,
				AmountRaised: wei(t, tc.raised),
				Goal:         wei(t, tc.goal),
				Deadline:     tc.deadline,
			}
			assert.Equal(t, tc.wantStatus, c.Status(now))
		})
	}
}

func TestCampaignProgressPercentage(t *testing.T) {
	t.Run("75 percent exactly", func(t *testing.T) {
		c := Campaign{
			AmountRaised: wei(t, "7500000000000000000"),
			Goal:         wei(t, "10000000000000000000"),
		}
		assert.Equal(t, "75", c.ProgressPercentage().String())
		assert.False(t, c.IsGoalReached())
	})

	t.Run("zero goal yields zero without division error", func(t *testing.T) {
		c := Campaign{
			AmountRaised: wei(t, "1000000000000000000"),
			Goal:         big.NewInt(0),
		}
		assert.True(t, c.ProgressPercentage().IsZero())
	})

	t.Run("overfunded is unclamped", func(t *testing.T) {
		c := Campaign{
			AmountRaised: wei(t, "5100000000000000000"),
			Goal:         wei(t, "5000000000000000000"),
		}
		assert.Equal(t, "102", c.ProgressPercentage().String())
		assert.Equal(t, float64(100), c.ProgressBarValue())
	})
}

func TestCampaignDaysRemaining(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	testCases := []struct {
		name     string
		deadline int64
		want     int
	}{
		{"deadline in the past", now.Unix() - secondsPerDay, 0},
		{"deadline equals now", now.Unix(), 0},
		{"one second left rounds up", now.Unix() + 1, 1},
		{"exactly one day", now.Unix() + secondsPerDay, 1},
		{"one day and a second rounds up", now.Unix() + secondsPerDay + 1, 2},
		{"fifteen days", now.Unix() + 15*secondsPerDay, 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Campaign{Deadline: tc.deadline}
			got := c.DaysRemaining(now)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestCampaignIsContributable(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("expired and withdrawn is completed and not contributable", func(t *testing.T) {
		c := Campaign{
			AmountRaised: wei(t, "5100000000000000000"),
			Goal:         wei(t, "5000000000000000000"),
			Deadline:     now.Unix() - 2*secondsPerDay,
			Withdrawn:    true,
		}
		assert.Equal(t, StatusCompleted, c.Status(now))
		assert.False(t, c.IsContributable(now))
	})

	t.Run("active campaign is contributable", func(t *testing.T) {
		c := Campaign{
			AmountRaised: wei(t, "1000000000000000000"),
			Goal:         wei(t, "5000000000000000000"),
			Deadline:     now.Unix() + secondsPerDay,
		}
		assert.True(t, c.IsContributable(now))
	})

	t.Run("funded but not expired is still contributable", func(t *testing.T) {
		c := Campaign{
			AmountRaised: wei(t, "6000000000000000000"),
			Goal:         wei(t, "5000000000000000000"),
			Deadline:     now.Unix() + secondsPerDay,
		}
		assert.True(t, c.IsContributable(now))
	})
}

func TestShortAddress(t *testing.T) {
	address := common.HexToAddress("0x742d35Cc6634C0532925a3b8D46698CDE7B9c001")
	hex := address.Hex()
	short := ShortAddress(address)
	assert.Equal(t, hex[:6]+"..."+hex[len(hex)-4:], short)
	assert.Len(t, short, 13)
}
