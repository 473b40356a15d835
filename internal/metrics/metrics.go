package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService handles all metrics for crowdfund-backend.
type MetricsService interface {
	GetRegistry() *prometheus.Registry

	// Chain gateway metrics
	IncChainMethodCalls(method string)
	ObserveChainMethodDuration(method string, duration float64)
	IncChainMethodErrors(method string, errorType string)

	// Campaign repository metrics
	SetCampaignsCached(count int)
	IncCampaignListFallback(reason string)
	IncCampaignReadSkipped()

	// Mutation metrics
	IncMutationSubmitted(kind, mode string)
	IncMutationErrors(kind, errorType string)

	// Wallet session metrics
	SetWalletConnected(connected bool)

	// HTTP request metrics
	IncNumRequests(endpoint, method string, statusCode int)
	ObserveRequestDuration(endpoint, method string, duration float64)

	// DB query metrics
	ObserveDBQueryDuration(queryType, table string, duration float64)
	IncDBQuery(queryType, table string)
	IncDBQueryError(queryType, table, errorType string)
}

type metricsService struct {
	registry *prometheus.Registry

	chainMethodCallsTotal  *prometheus.CounterVec
	chainMethodDuration    *prometheus.SummaryVec
	chainMethodErrorsTotal *prometheus.CounterVec

	campaignsCached           prometheus.Gauge
	campaignListFallbacks     *prometheus.CounterVec
	campaignReadsSkippedTotal prometheus.Counter

	mutationsSubmittedTotal *prometheus.CounterVec
	mutationErrorsTotal     *prometheus.CounterVec

	walletConnected prometheus.Gauge

	numRequestsTotal *prometheus.CounterVec
	requestsDuration *prometheus.SummaryVec

	dbQueryDuration *prometheus.SummaryVec
	dbQueriesTotal  *prometheus.CounterVec
	dbQueryErrors   *prometheus.CounterVec
}

var _ MetricsService = (*metricsService)(nil)

func NewMetricsService() MetricsService {
	m := &metricsService{
		registry: prometheus.NewRegistry(),
	}

	m.chainMethodCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_method_calls_total",
		Help: "Total number of contract method calls",
	}, []string{"method"})
	m.chainMethodDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "chain_method_duration_seconds",
		Help:       "Duration of contract method calls",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"method"})
	m.chainMethodErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chain_method_errors_total",
		Help: "Total number of contract method call errors",
	}, []string{"method", "error_type"})

	m.campaignsCached = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "campaigns_cached",
		Help: "Number of campaigns in the repository cache",
	})
	m.campaignListFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_list_fallbacks_total",
		Help: "Total number of listing reads that fell back to sample data",
	}, []string{"reason"})
	m.campaignReadsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campaign_reads_skipped_total",
		Help: "Total number of individual campaign reads dropped from a listing",
	})

	m.mutationsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mutations_submitted_total",
		Help: "Total number of successfully submitted mutations",
	}, []string{"kind", "mode"})
	m.mutationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mutation_errors_total",
		Help: "Total number of failed mutations",
	}, []string{"kind", "error_type"})

	m.walletConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wallet_connected",
		Help: "Whether a wallet session is currently connected (1) or not (0)",
	})

	m.numRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})
	m.requestsDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "http_request_duration_seconds",
		Help:       "Duration of HTTP requests",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"endpoint", "method"})

	m.dbQueryDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "db_query_duration_seconds",
		Help:       "Duration of database queries",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"query_type", "table"})
	m.dbQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "db_queries_total",
		Help: "Total number of database queries",
	}, []string{"query_type", "table"})
	m.dbQueryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "db_query_errors_total",
		Help: "Total number of database query errors",
	}, []string{"query_type", "table", "error_type"})

	m.registry.MustRegister(
		m.chainMethodCallsTotal,
		m.chainMethodDuration,
		m.chainMethodErrorsTotal,
		m.campaignsCached,
		m.campaignListFallbacks,
		m.campaignReadsSkippedTotal,
		m.mutationsSubmittedTotal,
		m.mutationErrorsTotal,
		m.walletConnected,
		m.numRequestsTotal,
		m.requestsDuration,
		m.dbQueryDuration,
		m.dbQueriesTotal,
		m.dbQueryErrors,
	)

	return m
}

func (m *metricsService) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metricsService) IncChainMethodCalls(method string) {
	m.chainMethodCallsTotal.WithLabelValues(method).Inc()
}

func (m *metricsService) ObserveChainMethodDuration(method string, duration float64) {
	m.chainMethodDuration.WithLabelValues(method).Observe(duration)
}

func (m *metricsService) IncChainMethodErrors(method string, errorType string) {
	m.chainMethodErrorsTotal.WithLabelValues(method, errorType).Inc()
}

func (m *metricsService) SetCampaignsCached(count int) {
	m.campaignsCached.Set(float64(count))
}

func (m *metricsService) IncCampaignListFallback(reason string) {
	m.campaignListFallbacks.WithLabelValues(reason).Inc()
}

func (m *metricsService) IncCampaignReadSkipped() {
	m.campaignReadsSkippedTotal.Inc()
}

func (m *metricsService) IncMutationSubmitted(kind, mode string) {
	m.mutationsSubmittedTotal.WithLabelValues(kind, mode).Inc()
}

func (m *metricsService) IncMutationErrors(kind, errorType string) {
	m.mutationErrorsTotal.WithLabelValues(kind, errorType).Inc()
}

func (m *metricsService) SetWalletConnected(connected bool) {
	if connected {
		m.walletConnected.Set(1)
		return
	}
	m.walletConnected.Set(0)
}

func (m *metricsService) IncNumRequests(endpoint, method string, statusCode int) {
	m.numRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

func (m *metricsService) ObserveRequestDuration(endpoint, method string, duration float64) {
	m.requestsDuration.WithLabelValues(endpoint, method).Observe(duration)
}

func (m *metricsService) ObserveDBQueryDuration(queryType, table string, duration float64) {
	m.dbQueryDuration.WithLabelValues(queryType, table).Observe(duration)
}

func (m *metricsService) IncDBQuery(queryType, table string) {
	m.dbQueriesTotal.WithLabelValues(queryType, table).Inc()
}

func (m *metricsService) IncDBQueryError(queryType, table, errorType string) {
	m.dbQueryErrors.WithLabelValues(queryType, table, errorType).Inc()
}
