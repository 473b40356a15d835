package httphandler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/guregu/null"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/entities"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httperror"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httpjson"
	"github.com/opencrowd/crowdfund-backend/internal/services"
	"github.com/opencrowd/crowdfund-backend/internal/utils"
)

// Campaign list filters. "all" is the zero filter.
const (
	FilterAll     = "all"
	FilterActive  = "active"
	FilterFunded  = "funded"
	FilterExpired = "expired"
)

type CampaignHandler struct {
	CampaignService services.CampaignService
	MutationService services.MutationService
	AppTracker      apptracker.AppTracker
}

// CampaignResponse is the presentation form of a campaign: raw wei amounts
// plus every derived field the listing needs, computed server-side against a
// single clock so the whole listing is consistent.
type CampaignResponse struct {
	ID                 uint64                  `json:"id"`
	Creator            string                  `json:"creator"`
	ShortCreator       string                  `json:"shortCreator"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	GoalWei            string                  `json:"goalWei"`
	GoalEth            string                  `json:"goalEth"`
	Deadline           int64                   `json:"deadline"`
	AmountRaisedWei    string                  `json:"amountRaisedWei"`
	AmountRaisedEth    string                  `json:"amountRaisedEth"`
	Withdrawn          bool                    `json:"withdrawn"`
	Status             entities.CampaignStatus `json:"status"`
	ProgressPercentage string                  `json:"progressPercentage"`
	ProgressBar        float64                 `json:"progressBar"`
	DaysRemaining      int                     `json:"daysRemaining"`
	Contributable      bool                    `json:"contributable"`
}

type CampaignsResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	Count     int                `json:"count"`
}

type CreateCampaignResponse struct {
	TxHash     string   `json:"txHash"`
	CampaignID null.Int `json:"campaignId"`
	Simulated  bool     `json:"simulated"`
}

func (h CampaignHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = FilterAll
	}
	switch filter {
	case FilterAll, FilterActive, FilterFunded, FilterExpired:
	default:
		httperror.BadRequest("Unknown filter, must be one of all, active, funded, expired.", nil).Render(w)
		return
	}
	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

	campaigns, err := h.CampaignService.ListCampaigns(ctx)
	if err != nil {
		httperror.InternalServerError(ctx, "", err, nil, h.AppTracker).Render(w)
		return
	}

	now := time.Now()
	filtered := make([]CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		if !matchesFilter(campaign, filter, now) || !matchesSearch(campaign, search) {
			continue
		}
		filtered = append(filtered, newCampaignResponse(campaign, now))
	}

	httpjson.Render(w, CampaignsResponse{Campaigns: filtered, Count: len(filtered)})
}

func (h CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input services.CreateCampaignInput
	if err := httpjson.Decode(r, &input); err != nil {
		httperror.BadRequest("Invalid request body.", nil).Render(w)
		return
	}

	result, err := h.MutationService.CreateCampaign(ctx, input)
	if err != nil {
		renderMutationError(w, err)
		return
	}

	httpjson.RenderStatus(w, http.StatusCreated, CreateCampaignResponse(result))
}

func (h CampaignHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	campaignID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || campaignID == 0 {
		httperror.BadRequest("Campaign id must be a positive integer.", nil).Render(w)
		return
	}

	var body struct {
		Amount string `json:"amount"`
	}
	if err := httpjson.Decode(r, &body); err != nil {
		httperror.BadRequest("Invalid request body.", nil).Render(w)
		return
	}

	result, err := h.MutationService.Contribute(ctx, services.ContributeInput{CampaignID: campaignID, Amount: body.Amount})
	if err != nil {
		renderMutationError(w, err)
		return
	}

	httpjson.Render(w, CreateCampaignResponse(result))
}

// renderMutationError maps mutation failures onto HTTP statuses. Anything the
// caller can fix is a 400; a failure at the chain node is a 502.
func renderMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrWalletNotConnected):
		httperror.BadRequest(services.ErrWalletNotConnected.Error(), nil).Render(w)
	case errors.Is(err, services.ErrInvalidInput):
		httperror.BadRequest(err.Error(), nil).Render(w)
	default:
		httperror.BadGateway(err.Error(), nil).Render(w)
	}
}

func matchesFilter(campaign entities.Campaign, filter string, now time.Time) bool {
	switch filter {
	case FilterActive:
		return !campaign.IsExpired(now) && !campaign.Withdrawn
	case FilterFunded:
		return campaign.IsGoalReached() || campaign.Withdrawn
	case FilterExpired:
		return campaign.IsExpired(now) && !campaign.Withdrawn
	default:
		return true
	}
}

func matchesSearch(campaign entities.Campaign, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(campaign.Title), search) ||
		strings.Contains(strings.ToLower(campaign.Description), search)
}

func newCampaignResponse(campaign entities.Campaign, now time.Time) CampaignResponse {
	return CampaignResponse{
		ID:                 campaign.ID,
		Creator:            campaign.Creator.Hex(),
		ShortCreator:       entities.ShortAddress(campaign.Creator),
		Title:              campaign.Title,
		Description:        campaign.Description,
		GoalWei:            campaign.Goal.String(),
		GoalEth:            utils.FormatEther(campaign.Goal),
		Deadline:           campaign.Deadline,
		AmountRaisedWei:    campaign.AmountRaised.String(),
		AmountRaisedEth:    utils.FormatEther(campaign.AmountRaised),
		Withdrawn:          campaign.Withdrawn,
		Status:             campaign.Status(now),
		ProgressPercentage: campaign.ProgressPercentage().String(),
		ProgressBar:        campaign.ProgressBarValue(),
		DaysRemaining:      campaign.DaysRemaining(now),
		Contributable:      campaign.IsContributable(now),
	}
}
