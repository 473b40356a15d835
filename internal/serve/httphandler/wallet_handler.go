package httphandler

import (
	"errors"
	"net/http"

	"github.com/guregu/null"

	"github.com/opencrowd/crowdfund-backend/internal/metrics"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httperror"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httpjson"
	"github.com/opencrowd/crowdfund-backend/internal/wallet"
)

type WalletHandler struct {
	Session        *wallet.Session
	MetricsService metrics.MetricsService
}

type WalletStateResponse struct {
	State   string      `json:"state"`
	Account null.String `json:"account"`
	ChainID null.Int    `json:"chainId"`
	Error   null.String `json:"error"`
}

func (h WalletHandler) GetState(w http.ResponseWriter, r *http.Request) {
	httpjson.Render(w, h.stateResponse())
}

func (h WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Session.Connect(ctx); err != nil {
		h.MetricsService.SetWalletConnected(false)
		switch {
		case errors.Is(err, wallet.ErrProviderMissing):
			httperror.ServiceUnavailable("No wallet provider is available.", nil).Render(w)
		case errors.Is(err, wallet.ErrNoAccounts):
			httperror.BadRequest("The wallet provider returned no accounts.", nil).Render(w)
		default:
			httperror.BadGateway(err.Error(), nil).Render(w)
		}
		return
	}

	h.MetricsService.SetWalletConnected(true)
	httpjson.Render(w, h.stateResponse())
}

func (h WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.Session.Disconnect()
	h.MetricsService.SetWalletConnected(false)
	w.WriteHeader(http.StatusNoContent)
}

func (h WalletHandler) stateResponse() WalletStateResponse {
	state, errMsg := h.Session.State()
	resp := WalletStateResponse{State: string(state)}
	if errMsg != "" {
		resp.Error = null.StringFrom(errMsg)
	}
	if account, ok := h.Session.Account(); ok {
		resp.Account = null.StringFrom(account.Hex())
	}
	if chainID := h.Session.ChainID(); chainID != nil {
		resp.ChainID = null.IntFrom(chainID.Int64())
	}
	return resp
}
