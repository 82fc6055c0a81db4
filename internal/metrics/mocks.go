package metrics

import (
	"github.com/alitto/pond/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
)

// MockMetricsService is a mock implementation of MetricsService
type MockMetricsService struct {
	mock.Mock
}

var _ MetricsService = (*MockMetricsService)(nil)

// NewMockMetricsService creates a new mock metrics service
func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) RegisterPoolMetrics(channel string, pool pond.Pool) {
	m.Called(channel, pool)
}

func (m *MockMetricsService) GetRegistry() *prometheus.Registry {
	args := m.Called()
	return args.Get(0).(*prometheus.Registry)
}

func (m *MockMetricsService) IncGatewayMethodCalls(method string) {
	m.Called(method)
}

func (m *MockMetricsService) ObserveGatewayMethodDuration(method string, duration float64) {
	m.Called(method, duration)
}

func (m *MockMetricsService) IncGatewayMethodErrors(method, errorType string) {
	m.Called(method, errorType)
}

func (m *MockMetricsService) IncWalletPosts(outcome string) {
	m.Called(outcome)
}

func (m *MockMetricsService) ObserveWalletPostDuration(outcome string, duration float64) {
	m.Called(outcome, duration)
}

func (m *MockMetricsService) IncPipelineRuns(txType string) {
	m.Called(txType)
}

func (m *MockMetricsService) IncPhaseTransitions(txType, phase string) {
	m.Called(txType, phase)
}

func (m *MockMetricsService) IncPipelineOutcomes(txType, outcome string) {
	m.Called(txType, outcome)
}

func (m *MockMetricsService) ObservePipelineDuration(txType, outcome string, duration float64) {
	m.Called(txType, outcome, duration)
}

func (m *MockMetricsService) IncReceiptErrors(txType string) {
	m.Called(txType)
}

func (m *MockMetricsService) IncActiveStreams() {
	m.Called()
}

func (m *MockMetricsService) DecActiveStreams() {
	m.Called()
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
