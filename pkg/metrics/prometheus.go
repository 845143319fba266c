// Package metrics provides Prometheus metrics for the painel dashboards.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Spreadsheet access
	sheetReads       *prometheus.CounterVec
	sheetReadLatency *prometheus.HistogramVec
	sheetWrites      *prometheus.CounterVec
	sheetRows        *prometheus.GaugeVec

	// Dashboards
	rankingUnits *prometheus.GaugeVec
	salesRows    prometheus.Gauge
	exports      *prometheus.CounterVec

	// Config edits
	commits       *prometheus.CounterVec
	commitChanges *prometheus.CounterVec
	auditEntries  *prometheus.CounterVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "painel",
		subsystem:        "dashboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterVec(auto promauto.Factory, name, help string, labels ...string) *prometheus.CounterVec {
	return auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gaugeVec(auto promauto.Factory, name, help string, labels ...string) *prometheus.GaugeVec {
	return auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(auto promauto.Factory, name, help string, labels ...string) *prometheus.HistogramVec {
	return auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = m.counterVec(auto, "http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec(auto, "http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.sheetReads = m.counterVec(auto, "sheet_reads_total",
		"Spreadsheet range reads by sheet and outcome", "sheet", "outcome")
	m.sheetReadLatency = m.histogramVec(auto, "sheet_read_latency_milliseconds",
		"Spreadsheet range read latency in milliseconds", "sheet")
	m.sheetWrites = m.counterVec(auto, "sheet_writes_total",
		"Spreadsheet cell writes by sheet and outcome", "sheet", "outcome")
	m.sheetRows = m.gaugeVec(auto, "sheet_rows",
		"Data rows returned by the last read of a sheet", "sheet")

	m.rankingUnits = m.gaugeVec(auto, "ranking_units",
		"Units in the last computed ranking", "indicator")
	m.salesRows = m.gauge(auto, "sales_rows",
		"Sales rows in the last summary after filtering")
	m.exports = m.counterVec(auto, "exports_total",
		"Downloads served by kind and format", "kind", "format")

	m.commits = m.counterVec(auto, "config_commits_total",
		"Configuration commits by table and outcome", "table", "outcome")
	m.commitChanges = m.counterVec(auto, "config_changes_total",
		"Configuration changes by table and state (applied, failed, pending)", "table", "state")
	m.auditEntries = m.counterVec(auto, "audit_entries_total",
		"Audit trail inserts by outcome", "outcome")

	m.errorsByComponent = m.counterVec(auto, "errors_by_component_total",
		"Total number of errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge(auto, "system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge(auto, "system_goroutine_count", "Number of goroutines")
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordSheetRead records one range read.
func RecordSheetRead(sheet string, latencyMs float64, err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.sheetReads.WithLabelValues(sheet, outcome(err)).Inc()
	globalManager.sheetReadLatency.WithLabelValues(sheet).Observe(latencyMs)
}

// RecordSheetWrite records one cell write.
func RecordSheetWrite(sheet string, err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.sheetWrites.WithLabelValues(sheet, outcome(err)).Inc()
}

// UpdateSheetRows sets the data row count of the last read of sheet.
func UpdateSheetRows(sheet string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.sheetRows.WithLabelValues(sheet).Set(float64(rows))
}

// UpdateRankingUnits sets the unit count of the last ranking by indicator.
func UpdateRankingUnits(indicator string, units int) {
	if !globalManager.enabled {
		return
	}
	globalManager.rankingUnits.WithLabelValues(indicator).Set(float64(units))
}

// UpdateSalesRows sets the filtered sales row count of the last summary.
func UpdateSalesRows(rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.salesRows.Set(float64(rows))
}

// RecordExport counts a download.
func RecordExport(kind, format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.exports.WithLabelValues(kind, format).Inc()
}

// RecordCommit records a configuration commit and its change split.
func RecordCommit(table string, applied, failed, pending int, err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.commits.WithLabelValues(table, outcome(err)).Inc()
	globalManager.commitChanges.WithLabelValues(table, "applied").Add(float64(applied))
	globalManager.commitChanges.WithLabelValues(table, "failed").Add(float64(failed))
	globalManager.commitChanges.WithLabelValues(table, "pending").Add(float64(pending))
}

// RecordAuditEntry records an audit trail insert.
func RecordAuditEntry(err error) {
	if !globalManager.enabled {
		return
	}
	globalManager.auditEntries.WithLabelValues(outcome(err)).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// SetEnabled turns recording on or off for the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
