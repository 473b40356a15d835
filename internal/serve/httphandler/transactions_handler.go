package httphandler

import (
	"net/http"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/data"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httperror"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httpjson"
	"github.com/opencrowd/crowdfund-backend/internal/services"
)

const recentTransactionsLimit = 50

type TransactionsHandler struct {
	Models          *data.Models
	MutationService services.MutationService
	AppTracker      apptracker.AppTracker
}

type TransactionsResponse struct {
	Transactions []data.Transaction `json:"transactions"`
	Pending      []string           `json:"pending"`
}

func (h TransactionsHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := h.Models.Transactions.GetRecent(ctx, recentTransactionsLimit)
	if err != nil {
		httperror.InternalServerError(ctx, "", err, nil, h.AppTracker).Render(w)
		return
	}
	if transactions == nil {
		transactions = []data.Transaction{}
	}

	pending := h.MutationService.PendingHashes()
	if pending == nil {
		pending = []string{}
	}

	httpjson.Render(w, TransactionsResponse{Transactions: transactions, Pending: pending})
}
