package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
)

// MockMetricsService is a mock implementation of MetricsService.
type MockMetricsService struct {
	mock.Mock
}

var _ MetricsService = (*MockMetricsService)(nil)

// NewMockMetricsService creates a new mock metrics service.
func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) GetRegistry() *prometheus.Registry {
	args := m.Called()
	return args.Get(0).(*prometheus.Registry)
}

func (m *MockMetricsService) IncChainMethodCalls(method string) {
	m.Called(method)
}

func (m *MockMetricsService) ObserveChainMethodDuration(method string, duration float64) {
	m.Called(method, duration)
}

func (m *MockMetricsService) IncChainMethodErrors(method string, errorType string) {
	m.Called(method, errorType)
}

func (m *MockMetricsService) SetCampaignsCached(count int) {
	m.Called(count)
}

func (m *MockMetricsService) IncCampaignListFallback(reason string) {
	m.Called(reason)
}

func (m *MockMetricsService) IncCampaignReadSkipped() {
	m.Called()
}

func (m *MockMetricsService) IncMutationSubmitted(kind, mode string) {
	m.Called(kind, mode)
}

func (m *MockMetricsService) IncMutationErrors(kind, errorType string) {
	m.Called(kind, errorType)
}

func (m *MockMetricsService) SetWalletConnected(connected bool) {
	m.Called(connected)
}

func (m *MockMetricsService) IncNumRequests(endpoint, method string, statusCode int) {
	m.Called(endpoint, method, statusCode)
}

func (m *MockMetricsService) ObserveRequestDuration(endpoint, method string, duration float64) {
	m.Called(endpoint, method, duration)
}

func (m *MockMetricsService) ObserveDBQueryDuration(queryType, table string, duration float64) {
	m.Called(queryType, table, duration)
}

func (m *MockMetricsService) IncDBQuery(queryType, table string) {
	m.Called(queryType, table)
}

func (m *MockMetricsService) IncDBQueryError(queryType, table, errorType string) {
	m.Called(queryType, table, errorType)
}
