package httphandler

import (
	"net/http"

	"github.com/opencrowd/crowdfund-backend/internal/serve/httpjson"
)

type StatsHandler struct{}

// StatsResponse carries the marketing figures shown on the landing page.
// These are curated placeholders, not live aggregates.
type StatsResponse struct {
	TotalCampaigns  string `json:"totalCampaigns"`
	TotalRaised     string `json:"totalRaised"`
	SuccessfulExits string `json:"successfulExits"`
	Contributors    string `json:"contributors"`
}

func (h StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	httpjson.Render(w, StatsResponse{
		TotalCampaigns:  "1,247",
		TotalRaised:     "2,456 ETH",
		SuccessfulExits: "342",
		Contributors:    "15,234",
	})
}
