package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/contract"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httperror"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httpjson"
)

const healthProbeTimeout = 5 * time.Second

type HealthHandler struct {
	Gateway    contract.Gateway
	AppTracker apptracker.AppTracker
}

func (h HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.Gateway.Configured() {
		httpjson.Render(w, map[string]interface{}{
			"status": "ok",
			"mode":   "demo",
		})
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	count, err := h.Gateway.CampaignCount(probeCtx)
	if err != nil {
		httperror.InternalServerError(ctx, "", err, nil, h.AppTracker).Render(w)
		return
	}

	httpjson.Render(w, map[string]interface{}{
		"status":         "ok",
		"mode":           "live",
		"contract":       h.Gateway.ContractAddress().Hex(),
		"campaign_count": count,
	})
}
