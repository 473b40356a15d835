package httphandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/data"
	"github.com/opencrowd/crowdfund-backend/internal/db"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
	"github.com/opencrowd/crowdfund-backend/internal/services"
)

func TestTransactionsHandlerGetTransactions(t *testing.T) {
	ctx := context.Background()

	pool, err := db.OpenConnectionPool(":memory:")
	require.NoError(t, err)
	defer pool.Close()
	_, err = db.Migrate(ctx, pool, migrate.Up, 0)
	require.NoError(t, err)

	models, err := data.NewModels(pool, metrics.NewMetricsService())
	require.NoError(t, err)

	require.NoError(t, models.Transactions.Insert(ctx, data.Transaction{
		Hash:        "0xaaa",
		Kind:        data.KindContribute,
		AmountWei:   "1000000000000000000",
		FromAddress: "0x742d35Cc6634C0532925a3b844Bc9e7595f0c001",
	}))

	mockMutationService := services.NewMockMutationService()
	mockMutationService.On("PendingHashes").Return([]string{"0xbbb"}).Once()
	defer mockMutationService.AssertExpectations(t)

	handler := TransactionsHandler{
		Models:          models,
		MutationService: mockMutationService,
		AppTracker:      &apptracker.MockAppTracker{},
	}

	rr := httptest.NewRecorder()
	handler.GetTransactions(rr, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp TransactionsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "0xaaa", resp.Transactions[0].Hash)
	assert.Equal(t, []string{"0xbbb"}, resp.Pending)
}

func TestTransactionsHandlerGetTransactionsEmpty(t *testing.T) {
	ctx := context.Background()

	pool, err := db.OpenConnectionPool(":memory:")
	require.NoError(t, err)
	defer pool.Close()
	_, err = db.Migrate(ctx, pool, migrate.Up, 0)
	require.NoError(t, err)

	models, err := data.NewModels(pool, metrics.NewMetricsService())
	require.NoError(t, err)

	mockMutationService := services.NewMockMutationService()
	mockMutationService.On("PendingHashes").Return(nil).Once()

	handler := TransactionsHandler{
		Models:          models,
		MutationService: mockMutationService,
		AppTracker:      &apptracker.MockAppTracker{},
	}

	rr := httptest.NewRecorder()
	handler.GetTransactions(rr, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"transactions": [], "pending": []}`, rr.Body.String())
}
