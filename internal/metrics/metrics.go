package metrics

import (
	"strconv"

	"github.com/alitto/pond/v2"
	"github.com/dlmiddlecote/sqlstats"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService interface {
	RegisterPoolMetrics(channel string, pool pond.Pool)
	GetRegistry() *prometheus.Registry
	// Gateway (Mantle) metrics
	IncGatewayMethodCalls(method string)
	ObserveGatewayMethodDuration(method string, duration float64)
	IncGatewayMethodErrors(method, errorType string)
	// Wallet bridge metrics
	IncWalletPosts(outcome string)
	ObserveWalletPostDuration(outcome string, duration float64)
	// Pipeline metrics
	IncPipelineRuns(txType string)
	IncPhaseTransitions(txType, phase string)
	IncPipelineOutcomes(txType, outcome string)
	ObservePipelineDuration(txType, outcome string, duration float64)
	IncReceiptErrors(txType string)
	IncActiveStreams()
	DecActiveStreams()
	// HTTP metrics
	IncNumRequests(endpoint, method string, statusCode int)
	ObserveRequestDuration(endpoint, method string, duration float64)
	// DB metrics
	ObserveDBQueryDuration(queryType, table string, duration float64)
	IncDBQuery(queryType, table string)
	IncDBQueryError(queryType, table, errorType string)
}

// metricsService handles all metrics for the transaction pipeline.
type metricsService struct {
	registry *prometheus.Registry
	db       *sqlx.DB

	// Gateway Metrics
	gatewayMethodCallsTotal  *prometheus.CounterVec
	gatewayMethodDuration    *prometheus.SummaryVec
	gatewayMethodErrorsTotal *prometheus.CounterVec

	// Wallet Metrics
	walletPostsTotal   *prometheus.CounterVec
	walletPostDuration *prometheus.SummaryVec

	// Pipeline Metrics
	pipelineRunsTotal     *prometheus.CounterVec
	phaseTransitionsTotal *prometheus.CounterVec
	pipelineOutcomesTotal *prometheus.CounterVec
	pipelineDuration      *prometheus.HistogramVec
	receiptErrorsTotal    *prometheus.CounterVec
	activeStreams         prometheus.Gauge

	// HTTP Request Metrics
	numRequestsTotal *prometheus.CounterVec
	requestsDuration *prometheus.SummaryVec

	// DB Query Metrics
	dbQueryDuration *prometheus.SummaryVec
	dbQueriesTotal  *prometheus.CounterVec
	dbQueryErrors   *prometheus.CounterVec
}

var defaultObjectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}

// NewMetricsService creates a new metrics service with all metrics registered. db may be nil when
// the history recorder is disabled.
func NewMetricsService(db *sqlx.DB) MetricsService {
	m := &metricsService{
		registry: prometheus.NewRegistry(),
		db:       db,
	}

	m.gatewayMethodCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_method_calls_total",
			Help: "Total number of Mantle gateway queries by method",
		},
		[]string{"method"},
	)
	m.gatewayMethodDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "gateway_method_duration_seconds",
			Help:       "Duration of Mantle gateway queries by method",
			Objectives: defaultObjectives,
		},
		[]string{"method"},
	)
	m.gatewayMethodErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_method_errors_total",
			Help: "Total number of failed Mantle gateway queries by method and error type",
		},
		[]string{"method", "error_type"},
	)

	m.walletPostsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_posts_total",
			Help: "Total number of transactions handed to the wallet, by outcome",
		},
		[]string{"outcome"},
	)
	m.walletPostDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "wallet_post_duration_seconds",
			Help:       "Time the wallet took to sign and broadcast, by outcome",
			Objectives: defaultObjectives,
		},
		[]string{"outcome"},
	)

	m.pipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of started transaction pipelines",
		},
		[]string{"tx_type"},
	)
	m.phaseTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_phase_transitions_total",
			Help: "Total number of emitted progress snapshots by phase",
		},
		[]string{"tx_type", "phase"},
	)
	m.pipelineOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_outcomes_total",
			Help: "Total number of finished pipelines by outcome (succeed or the error kind)",
		},
		[]string{"tx_type", "outcome"},
	)
	m.pipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Duration of a pipeline run from POST to its terminal snapshot",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"tx_type", "outcome"},
	)
	m.receiptErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_receipt_errors_total",
			Help: "Total number of succeeded pipelines whose receipts were partially rendered",
		},
		[]string{"tx_type"},
	)
	m.activeStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_active_streams",
			Help: "Number of pipelines currently streaming progress",
		},
	)

	m.numRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "num_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.requestsDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "requests_duration_seconds",
			Help:       "Duration of HTTP requests",
			Objectives: defaultObjectives,
		},
		[]string{"endpoint", "method"},
	)

	m.dbQueryDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "db_query_duration_seconds",
			Help:       "Duration of database queries",
			Objectives: defaultObjectives,
		},
		[]string{"query_type", "table"},
	)
	m.dbQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)
	m.dbQueryErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"query_type", "table", "error_type"},
	)

	m.registerMetrics()
	return m
}

func (m *metricsService) registerMetrics() {
	if m.db != nil {
		m.registry.MustRegister(sqlstats.NewStatsCollector("anchor-txs-db", m.db))
	}
	m.registry.MustRegister(
		m.gatewayMethodCallsTotal,
		m.gatewayMethodDuration,
		m.gatewayMethodErrorsTotal,
		m.walletPostsTotal,
		m.walletPostDuration,
		m.pipelineRunsTotal,
		m.phaseTransitionsTotal,
		m.pipelineOutcomesTotal,
		m.pipelineDuration,
		m.receiptErrorsTotal,
		m.activeStreams,
		m.numRequestsTotal,
		m.requestsDuration,
		m.dbQueryDuration,
		m.dbQueriesTotal,
		m.dbQueryErrors,
	)
}

// RegisterPoolMetrics exposes the state of a pond pool under the given channel label.
func (m *metricsService) RegisterPoolMetrics(channel string, pool pond.Pool) {
	labels := prometheus.Labels{"channel": channel}
	gauges := map[string]struct {
		help  string
		value func() float64
	}{
		"pool_workers_running": {"Number of running worker goroutines", func() float64 { return float64(pool.RunningWorkers()) }},
		"pool_tasks_waiting":   {"Number of tasks currently waiting in the queue", func() float64 { return float64(pool.WaitingTasks()) }},
	}
	counters := map[string]struct {
		help  string
		value func() float64
	}{
		"pool_tasks_submitted_total":  {"Number of tasks submitted", func() float64 { return float64(pool.SubmittedTasks()) }},
		"pool_tasks_successful_total": {"Number of tasks that completed successfully", func() float64 { return float64(pool.SuccessfulTasks()) }},
		"pool_tasks_failed_total":     {"Number of tasks that completed with panic", func() float64 { return float64(pool.FailedTasks()) }},
		"pool_tasks_completed_total":  {"Number of tasks that completed either successfully or with panic", func() float64 { return float64(pool.CompletedTasks()) }},
	}

	for name, g := range gauges {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: name, Help: g.help, ConstLabels: labels},
			g.value,
		))
	}
	for name, c := range counters {
		m.registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: name, Help: c.help, ConstLabels: labels},
			c.value,
		))
	}
}

func (m *metricsService) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Gateway Metrics
func (m *metricsService) IncGatewayMethodCalls(method string) {
	m.gatewayMethodCallsTotal.WithLabelValues(method).Inc()
}

func (m *metricsService) ObserveGatewayMethodDuration(method string, duration float64) {
	m.gatewayMethodDuration.WithLabelValues(method).Observe(duration)
}

func (m *metricsService) IncGatewayMethodErrors(method, errorType string) {
	m.gatewayMethodErrorsTotal.WithLabelValues(method, errorType).Inc()
}

// Wallet Metrics
func (m *metricsService) IncWalletPosts(outcome string) {
	m.walletPostsTotal.WithLabelValues(outcome).Inc()
}

func (m *metricsService) ObserveWalletPostDuration(outcome string, duration float64) {
	m.walletPostDuration.WithLabelValues(outcome).Observe(duration)
}

// Pipeline Metrics
func (m *metricsService) IncPipelineRuns(txType string) {
	m.pipelineRunsTotal.WithLabelValues(txType).Inc()
}

func (m *metricsService) IncPhaseTransitions(txType, phase string) {
	m.phaseTransitionsTotal.WithLabelValues(txType, phase).Inc()
}

func (m *metricsService) IncPipelineOutcomes(txType, outcome string) {
	m.pipelineOutcomesTotal.WithLabelValues(txType, outcome).Inc()
}

func (m *metricsService) ObservePipelineDuration(txType, outcome string, duration float64) {
	m.pipelineDuration.WithLabelValues(txType, outcome).Observe(duration)
}

func (m *metricsService) IncReceiptErrors(txType string) {
	m.receiptErrorsTotal.WithLabelValues(txType).Inc()
}

func (m *metricsService) IncActiveStreams() {
	m.activeStreams.Inc()
}

func (m *metricsService) DecActiveStreams() {
	m.activeStreams.Dec()
}

// HTTP Request Metrics
func (m *metricsService) IncNumRequests(endpoint, method string, statusCode int) {
	m.numRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
}

func (m *metricsService) ObserveRequestDuration(endpoint, method string, duration float64) {
	m.requestsDuration.WithLabelValues(endpoint, method).Observe(duration)
}

// DB Query Metrics
func (m *metricsService) ObserveDBQueryDuration(queryType, table string, duration float64) {
	m.dbQueryDuration.WithLabelValues(queryType, table).Observe(duration)
}

func (m *metricsService) IncDBQuery(queryType, table string) {
	m.dbQueriesTotal.WithLabelValues(queryType, table).Inc()
}

func (m *metricsService) IncDBQueryError(queryType, table, errorType string) {
	m.dbQueryErrors.WithLabelValues(queryType, table, errorType).Inc()
}
