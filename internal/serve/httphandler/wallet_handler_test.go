package httphandler

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencrowd/crowdfund-backend/internal/metrics"
	"github.com/opencrowd/crowdfund-backend/internal/wallet"
)

func newWalletRouter(session *wallet.Session) *chi.Mux {
	metricsService := metrics.NewMockMetricsService()
	metricsService.On("SetWalletConnected", mock.Anything).Return()

	handler := WalletHandler{Session: session, MetricsService: metricsService}
	r := chi.NewRouter()
	r.Get("/wallet", handler.GetState)
	r.Post("/wallet", handler.Connect)
	r.Delete("/wallet", handler.Disconnect)
	return r
}

func TestWalletHandlerGetState(t *testing.T) {
	router := newWalletRouter(wallet.NewSession(wallet.NewMockProvider()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wallet", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"state": "Disconnected", "account": null, "chainId": null, "error": null}`, rr.Body.String())
}

func TestWalletHandlerConnect(t *testing.T) {
	account := common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0c001")

	t.Run("successful connect returns session state", func(t *testing.T) {
		provider := wallet.NewMockProvider()
		provider.On("RequestAccounts", mock.Anything).Return([]common.Address{account}, nil).Once()
		provider.On("ChainID", mock.Anything).Return(big.NewInt(31337), nil).Once()
		defer provider.AssertExpectations(t)

		router := newWalletRouter(wallet.NewSession(provider))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/wallet", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp WalletStateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Connected", resp.State)
		assert.Equal(t, account.Hex(), resp.Account.String)
		assert.Equal(t, int64(31337), resp.ChainID.Int64)
	})

	t.Run("missing provider returns 503", func(t *testing.T) {
		router := newWalletRouter(wallet.NewSession(nil))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/wallet", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"error": "No wallet provider is available."}`, rr.Body.String())
	})

	t.Run("no accounts returns 400", func(t *testing.T) {
		provider := wallet.NewMockProvider()
		provider.On("RequestAccounts", mock.Anything).Return([]common.Address{}, nil).Once()

		router := newWalletRouter(wallet.NewSession(provider))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/wallet", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error": "The wallet provider returned no accounts."}`, rr.Body.String())
	})

	t.Run("provider failure returns 502", func(t *testing.T) {
		provider := wallet.NewMockProvider()
		provider.On("RequestAccounts", mock.Anything).Return(nil, errors.New("user rejected the request")).Once()

		router := newWalletRouter(wallet.NewSession(provider))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/wallet", nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "user rejected the request")
	})
}

func TestWalletHandlerDisconnect(t *testing.T) {
	account := common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0c001")

	provider := wallet.NewMockProvider()
	provider.On("RequestAccounts", mock.Anything).Return([]common.Address{account}, nil).Once()
	provider.On("ChainID", mock.Anything).Return(big.NewInt(31337), nil).Once()

	session := wallet.NewSession(provider)
	router := newWalletRouter(session)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/wallet", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/wallet", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, session.IsConnected())
}
