package services

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/opencrowd/crowdfund-backend/internal/entities"
)

const secondsPerDay = 86_400

func mustWei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid wei literal: " + s)
	}
	return v
}

// SampleCampaigns is the fixed demo listing substituted whenever no contract
// address is configured or the whole listing read fails. Deadlines are
// anchored to the supplied clock so the set always contains upcoming, expired
// and completed campaigns.
func SampleCampaigns(now time.Time) []entities.Campaign {
	return []entities.Campaign{
		{
			ID:           1,
			Creator:      common.HexToAddress("0x742d35Cc6634C0532925a3b8D46698CDE7B9c001"),
			Title:        "Revolutionary Solar Panel Technology",
			Description:  "Developing next-generation solar panels with 40% higher efficiency using cutting-edge nanotechnology. Our team has 15 years of experience in renewable energy solutions.",
			Goal:         mustWei("10000000000000000000"),
			AmountRaised: mustWei("7500000000000000000"),
			Deadline:     now.Unix() + 15*secondsPerDay,
			Withdrawn:    false,
		},
		{
			ID:           2,
			Creator:      common.HexToAddress("0x8ba1f109551bD432803012645Ac136c5C548A000"),
			Title:        "Open Source AI Model for Healthcare",
			Description:  "Building an AI model specifically designed to assist doctors in early disease detection. All research will be open-sourced for the global medical community.",
			Goal:         mustWei("25000000000000000000"),
			AmountRaised: mustWei("18200000000000000000"),
			Deadline:     now.Unix() + 8*secondsPerDay,
			Withdrawn:    false,
		},
		{
			ID:           3,
			Creator:      common.HexToAddress("0x9Ac64Cc6C0532925a3b8D46698CDE7B9c43c45B0"),
			Title:        "Sustainable Water Purification System",
			Description:  "Creating affordable water purification systems for developing communities using solar power and advanced filtration technology.",
			Goal:         mustWei("5000000000000000000"),
			AmountRaised: mustWei("5100000000000000000"),
			Deadline:     now.Unix() - 2*secondsPerDay,
			Withdrawn:    true,
		},
		{
			ID:           4,
			Creator:      common.HexToAddress("0x1A2B3C4D5E6F7890123456789ABCDEF012345678"),
			Title:        "Blockchain Education Platform",
			Description:  "Developing a comprehensive educational platform to teach blockchain development to underserved communities worldwide.",
			Goal:         mustWei("8000000000000000000"),
			AmountRaised: mustWei("3200000000000000000"),
			Deadline:     now.Unix() + 22*secondsPerDay,
			Withdrawn:    false,
		},
	}
}
