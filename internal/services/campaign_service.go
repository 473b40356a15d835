package services

import (
	"context"
	"errors"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/avast/retry-go/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/opencrowd/crowdfund-backend/internal/contract"
	"github.com/opencrowd/crowdfund-backend/internal/entities"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
)

const (
	campaignsCacheKey = "campaigns"
	campaignsCacheTTL = 30 * time.Second

	countReadAttempts = 3
	countReadDelay    = 200 * time.Millisecond
)

// CampaignService is the campaign repository: it fetches the full campaign
// set through the contract gateway, normalizes it, caches it, and substitutes
// the fixed sample set whenever the chain cannot serve the listing. Reads
// never hard-fail.
type CampaignService interface {
	ListCampaigns(ctx context.Context) ([]entities.Campaign, error)
	// Invalidate drops the cached listing so the next read refetches. Called
	// after every successful mutation.
	Invalidate()
}

var _ CampaignService = (*campaignService)(nil)

type campaignService struct {
	gateway        contract.Gateway
	cache          *cache.Cache
	pool           pond.Pool
	metricsService metrics.MetricsService
	nowFunc        func() time.Time
}

func NewCampaignService(gateway contract.Gateway, pool pond.Pool, metricsService metrics.MetricsService) (*campaignService, error) {
	if gateway == nil {
		return nil, errors.New("gateway cannot be nil")
	}
	if pool == nil {
		return nil, errors.New("pool cannot be nil")
	}
	if metricsService == nil {
		return nil, errors.New("metricsService cannot be nil")
	}

	return &campaignService{
		gateway:        gateway,
		cache:          cache.New(campaignsCacheTTL, time.Minute),
		pool:           pool,
		metricsService: metricsService,
		nowFunc:        time.Now,
	}, nil
}

// ListCampaigns returns the campaign set in ascending id order. The result is
// cached for 30 seconds; a mutation invalidates the cache so its effect is
// visible on the next read.
func (s *campaignService) ListCampaigns(ctx context.Context) ([]entities.Campaign, error) {
	if cached, ok := s.cache.Get(campaignsCacheKey); ok {
		return cached.([]entities.Campaign), nil
	}

	campaigns := s.fetch(ctx)
	s.cache.Set(campaignsCacheKey, campaigns, cache.DefaultExpiration)
	s.metricsService.SetCampaignsCached(len(campaigns))
	return campaigns, nil
}

func (s *campaignService) Invalidate() {
	s.cache.Delete(campaignsCacheKey)
}

func (s *campaignService) fetch(ctx context.Context) []entities.Campaign {
	if !s.gateway.Configured() {
		return SampleCampaigns(s.nowFunc())
	}

	count, err := s.campaignCount(ctx)
	if err != nil {
		logrus.WithContext(ctx).WithError(err).Error("Reading campaign count failed, falling back to sample campaigns")
		s.metricsService.IncCampaignListFallback("count_read_failed")
		return SampleCampaigns(s.nowFunc())
	}

	// Contract-assigned ids are 1-based and contiguous. Each id is fetched
	// independently; a failing id is dropped from the listing instead of
	// failing the whole read.
	results := make([]*entities.Campaign, count)
	group := s.pool.NewGroupContext(ctx)
	for id := uint64(1); id <= count; id++ {
		group.Submit(func() {
			campaign, err := s.getCampaign(ctx, id)
			if err != nil {
				logrus.WithContext(ctx).WithError(err).Warnf("Failed to fetch campaign %d, skipping", id)
				s.metricsService.IncCampaignReadSkipped()
				return
			}
			results[id-1] = &campaign
		})
	}
	if err := group.Wait(); err != nil {
		logrus.WithContext(ctx).WithError(err).Warn("Campaign fetch group interrupted")
	}

	campaigns := make([]entities.Campaign, 0, count)
	for _, campaign := range results {
		if campaign != nil {
			campaigns = append(campaigns, *campaign)
		}
	}
	return campaigns
}

func (s *campaignService) campaignCount(ctx context.Context) (uint64, error) {
	var count uint64
	err := retry.Do(
		func() error {
			start := time.Now()
			s.metricsService.IncChainMethodCalls("campaignCount")
			var err error
			count, err = s.gateway.CampaignCount(ctx)
			s.metricsService.ObserveChainMethodDuration("campaignCount", time.Since(start).Seconds())
			if err != nil {
				s.metricsService.IncChainMethodErrors("campaignCount", "read_error")
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(countReadAttempts),
		retry.Delay(countReadDelay),
		retry.LastErrorOnly(true),
	)
	return count, err
}

func (s *campaignService) getCampaign(ctx context.Context, id uint64) (entities.Campaign, error) {
	start := time.Now()
	s.metricsService.IncChainMethodCalls("getCampaign")
	raw, err := s.gateway.GetCampaign(ctx, id)
	s.metricsService.ObserveChainMethodDuration("getCampaign", time.Since(start).Seconds())
	if err != nil {
		s.metricsService.IncChainMethodErrors("getCampaign", "read_error")
		return entities.Campaign{}, err
	}
	return normalizeCampaign(id, raw), nil
}

// normalizeCampaign converts the raw contract tuple into the canonical
// Campaign record.
func normalizeCampaign(id uint64, raw contract.RawCampaign) entities.Campaign {
	campaign := entities.Campaign{
		ID:           id,
		Creator:      raw.Creator,
		Title:        raw.Title,
		Description:  raw.Description,
		Goal:         raw.Goal,
		AmountRaised: raw.AmountRaised,
		Withdrawn:    raw.Withdrawn,
	}
	if raw.Deadline != nil {
		campaign.Deadline = raw.Deadline.Int64()
	}
	return campaign
}
