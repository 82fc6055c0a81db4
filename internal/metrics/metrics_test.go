package metrics

import (
	"testing"

	"github.com/alitto/pond/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	return db
}

func findMetricFamily(t *testing.T, ms MetricsService, name string) *dto.MetricFamily {
	t.Helper()
	metricFamilies, err := ms.GetRegistry().Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestNewMetricsService(t *testing.T) {
	t.Run("with_db", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		ms := NewMetricsService(db)
		require.NotNil(t, ms)
		assert.NotNil(t, findMetricFamily(t, ms, "go_sql_stats_connections_open"))
	})

	t.Run("without_db", func(t *testing.T) {
		ms := NewMetricsService(nil)
		require.NotNil(t, ms)
		assert.Nil(t, findMetricFamily(t, ms, "go_sql_stats_connections_open"))
	})
}

func TestGatewayMetrics(t *testing.T) {
	ms := NewMetricsService(nil)

	ms.IncGatewayMethodCalls("TxInfos")
	ms.IncGatewayMethodCalls("TxInfos")
	ms.ObserveGatewayMethodDuration("TxInfos", 0.2)
	ms.IncGatewayMethodErrors("TxInfos", "http_error")

	calls := findMetricFamily(t, ms, "gateway_method_calls_total")
	require.NotNil(t, calls)
	require.Len(t, calls.GetMetric(), 1)
	assert.Equal(t, "TxInfos", labelValue(calls.GetMetric()[0], "method"))
	assert.Equal(t, 2.0, calls.GetMetric()[0].GetCounter().GetValue())

	duration := findMetricFamily(t, ms, "gateway_method_duration_seconds")
	require.NotNil(t, duration)
	assert.Equal(t, uint64(1), duration.GetMetric()[0].GetSummary().GetSampleCount())

	errs := findMetricFamily(t, ms, "gateway_method_errors_total")
	require.NotNil(t, errs)
	assert.Equal(t, "http_error", labelValue(errs.GetMetric()[0], "error_type"))
}

func TestPipelineMetrics(t *testing.T) {
	ms := NewMetricsService(nil)

	ms.IncPipelineRuns("borrow")
	ms.IncPhaseTransitions("borrow", "POST")
	ms.IncPhaseTransitions("borrow", "BROADCAST")
	ms.IncPipelineOutcomes("borrow", "TxFailed")
	ms.ObservePipelineDuration("borrow", "TxFailed", 3)
	ms.IncReceiptErrors("borrow")
	ms.IncActiveStreams()
	ms.IncActiveStreams()
	ms.DecActiveStreams()
	ms.IncWalletPosts("posted")
	ms.ObserveWalletPostDuration("posted", 1.5)

	transitions := findMetricFamily(t, ms, "pipeline_phase_transitions_total")
	require.NotNil(t, transitions)
	assert.Len(t, transitions.GetMetric(), 2)

	outcomes := findMetricFamily(t, ms, "pipeline_outcomes_total")
	require.NotNil(t, outcomes)
	assert.Equal(t, "TxFailed", labelValue(outcomes.GetMetric()[0], "outcome"))

	active := findMetricFamily(t, ms, "pipeline_active_streams")
	require.NotNil(t, active)
	assert.Equal(t, 1.0, active.GetMetric()[0].GetGauge().GetValue())

	assert.NotNil(t, findMetricFamily(t, ms, "pipeline_duration_seconds"))
	assert.NotNil(t, findMetricFamily(t, ms, "pipeline_receipt_errors_total"))
	assert.NotNil(t, findMetricFamily(t, ms, "wallet_posts_total"))
	assert.NotNil(t, findMetricFamily(t, ms, "wallet_post_duration_seconds"))
}

func TestHTTPAndDBMetrics(t *testing.T) {
	ms := NewMetricsService(nil)

	ms.IncNumRequests("/tx/{type}", "POST", 200)
	ms.ObserveRequestDuration("/tx/{type}", "POST", 0.1)
	ms.IncDBQuery("INSERT", "tx_runs")
	ms.ObserveDBQueryDuration("INSERT", "tx_runs", 0.01)
	ms.IncDBQueryError("INSERT", "tx_runs", "unique_violation")

	requests := findMetricFamily(t, ms, "num_requests_total")
	require.NotNil(t, requests)
	assert.Equal(t, "200", labelValue(requests.GetMetric()[0], "status_code"))

	assert.NotNil(t, findMetricFamily(t, ms, "requests_duration_seconds"))
	assert.NotNil(t, findMetricFamily(t, ms, "db_queries_total"))
	assert.NotNil(t, findMetricFamily(t, ms, "db_query_duration_seconds"))
	assert.NotNil(t, findMetricFamily(t, ms, "db_query_errors_total"))
}

func TestRegisterPoolMetrics(t *testing.T) {
	ms := NewMetricsService(nil)
	pool := pond.NewPool(2)
	defer pool.StopAndWait()

	ms.RegisterPoolMetrics("fetch", pool)
	pool.Submit(func() {}).Wait()

	submitted := findMetricFamily(t, ms, "pool_tasks_submitted_total")
	require.NotNil(t, submitted)
	assert.Equal(t, "fetch", labelValue(submitted.GetMetric()[0], "channel"))
	assert.Equal(t, 1.0, submitted.GetMetric()[0].GetCounter().GetValue())
	assert.NotNil(t, findMetricFamily(t, ms, "pool_workers_running"))
}
