package data

import (
	"context"
	"testing"

	"github.com/guregu/null"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencrowd/crowdfund-backend/internal/db"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
)

func openTestPool(t *testing.T) db.ConnectionPool {
	t.Helper()

	pool, err := db.OpenConnectionPool(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	_, err = db.Migrate(context.Background(), pool, migrate.Up, 0)
	require.NoError(t, err)
	return pool
}

func TestTransactionModelInsertAndGetRecent(t *testing.T) {
	ctx := context.Background()
	pool := openTestPool(t)

	mockMetricsService := metrics.NewMockMetricsService()
	mockMetricsService.On("ObserveDBQueryDuration", "INSERT", "transactions", mock.Anything).Return().Times(3)
	mockMetricsService.On("IncDBQuery", "INSERT", "transactions").Return().Times(3)
	mockMetricsService.On("ObserveDBQueryDuration", "SELECT", "transactions", mock.Anything).Return().Times(2)
	mockMetricsService.On("IncDBQuery", "SELECT", "transactions").Return().Times(2)
	defer mockMetricsService.AssertExpectations(t)

	models, err := NewModels(pool, mockMetricsService)
	require.NoError(t, err)

	require.NoError(t, models.Transactions.Insert(ctx, Transaction{
		Hash:        "0xaaa",
		Kind:        KindCreateCampaign,
		CampaignID:  null.IntFrom(7),
		AmountWei:   "0",
		FromAddress: "0x742d35Cc6634C0532925a3b8D46698CDE7B9c001",
	}))
	require.NoError(t, models.Transactions.Insert(ctx, Transaction{
		Hash:      "0xbbb",
		Kind:      KindContribute,
		AmountWei: "500000000000000000",
	}))
	require.NoError(t, models.Transactions.Insert(ctx, Transaction{
		Hash:      "0xdemo",
		Kind:      KindContribute,
		AmountWei: "100000000000000000",
		Simulated: true,
	}))

	transactions, err := models.Transactions.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	// Newest first.
	assert.Equal(t, "0xdemo", transactions[0].Hash)
	assert.True(t, transactions[0].Simulated)
	assert.Equal(t, "0xaaa", transactions[2].Hash)
	assert.Equal(t, int64(7), transactions[2].CampaignID.Int64)
	assert.False(t, transactions[1].CampaignID.Valid)

	limited, err := models.Transactions.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "0xdemo", limited[0].Hash)
}

func TestNewModelsValidation(t *testing.T) {
	_, err := NewModels(nil, metrics.NewMockMetricsService())
	require.Error(t, err)

	pool := openTestPool(t)
	_, err = NewModels(pool, nil)
	require.Error(t, err)
}
