package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotCollector exports the realtime snapshot as Prometheus gauges. The
// snapshot is refreshed on a background loop and served from cache so a
// scrape never blocks on the bridge.
type SnapshotCollector struct {
	batteryLevel           *prometheus.Desc
	memoryUsagePercent     *prometheus.Desc
	storageUsagePercent    *prometheus.Desc
	cpuFrequencyMHz        *prometheus.Desc
	thermalMaxCelsius      *prometheus.Desc
	scrapeDuration         *prometheus.Desc
	scrapeCollectorSuccess *prometheus.Desc
	cacheAge               *prometheus.Desc

	service         *Service
	logger          *slog.Logger
	refreshInterval time.Duration
	timeout         time.Duration

	mu                 sync.RWMutex
	cachedMetrics      []prometheus.Metric
	lastSuccess        float64
	lastScrapeDuration float64
	lastRefreshTime    time.Time
}

func NewSnapshotCollector(service *Service, logger *slog.Logger, refreshInterval, timeout time.Duration) *SnapshotCollector {
	const (
		namespace = "droid"
		subsystem = "snapshot"
	)

	collector := &SnapshotCollector{
		batteryLevel: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "battery_level"),
			"Battery charge level percent", nil, nil),
		memoryUsagePercent: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "memory_usage_percent"),
			"Memory usage percent", nil, nil),
		storageUsagePercent: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "storage_usage_percent"),
			"Data partition usage percent", nil, nil),
		cpuFrequencyMHz: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "cpu_frequency_mhz"),
			"CPU frequency in MHz", []string{"stat"}, nil),
		thermalMaxCelsius: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "thermal_max_celsius"),
			"Hottest thermal sensor in degrees Celsius", nil, nil),
		scrapeDuration: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "scrape_duration_seconds"),
			"Time it took to refresh the device snapshot", nil, nil),
		scrapeCollectorSuccess: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "collector_success"),
			"Whether snapshot collector succeeded", nil, nil),
		cacheAge: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, "cache_age_seconds"),
			"Age of latest snapshot refresh", nil, nil),
		service:         service,
		logger:          logger,
		refreshInterval: refreshInterval,
		timeout:         timeout,
	}

	collector.refreshMetrics()
	go collector.refreshLoop()

	return collector
}

func (collector *SnapshotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.batteryLevel
	ch <- collector.memoryUsagePercent
	ch <- collector.storageUsagePercent
	ch <- collector.cpuFrequencyMHz
	ch <- collector.thermalMaxCelsius
	ch <- collector.scrapeDuration
	ch <- collector.scrapeCollectorSuccess
	ch <- collector.cacheAge
}

func (collector *SnapshotCollector) Collect(ch chan<- prometheus.Metric) {
	collector.mu.RLock()
	cachedMetrics := append([]prometheus.Metric{}, collector.cachedMetrics...)
	lastScrapeDuration := collector.lastScrapeDuration
	lastSuccess := collector.lastSuccess
	lastRefreshTime := collector.lastRefreshTime
	collector.mu.RUnlock()

	for _, metric := range cachedMetrics {
		ch <- metric
	}

	cacheAge := 0.0
	if !lastRefreshTime.IsZero() {
		cacheAge = time.Since(lastRefreshTime).Seconds()
	}

	ch <- prometheus.MustNewConstMetric(collector.scrapeDuration, prometheus.GaugeValue, lastScrapeDuration)
	ch <- prometheus.MustNewConstMetric(collector.scrapeCollectorSuccess, prometheus.GaugeValue, lastSuccess)
	ch <- prometheus.MustNewConstMetric(collector.cacheAge, prometheus.GaugeValue, cacheAge)
}

func (collector *SnapshotCollector) refreshLoop() {
	ticker := time.NewTicker(collector.refreshInterval)
	defer ticker.Stop()

	for range ticker.C {
		collector.refreshMetrics()
	}
}

func (collector *SnapshotCollector) refreshMetrics() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), collector.timeout)
	defer cancel()

	snapshot, err := collector.service.Realtime(ctx)
	scrapeDuration := time.Since(start).Seconds()

	collector.mu.Lock()
	defer collector.mu.Unlock()

	collector.lastScrapeDuration = scrapeDuration

	if err != nil {
		collector.lastSuccess = 0
		collector.logger.Error("Error refreshing device snapshot", "error", err)
		return
	}

	collector.cachedMetrics = []prometheus.Metric{
		prometheus.MustNewConstMetric(collector.batteryLevel, prometheus.GaugeValue, float64(snapshot.BatteryLevel)),
		prometheus.MustNewConstMetric(collector.memoryUsagePercent, prometheus.GaugeValue, snapshot.MemoryUsagePercent),
		prometheus.MustNewConstMetric(collector.storageUsagePercent, prometheus.GaugeValue, snapshot.StorageUsagePercent),
		prometheus.MustNewConstMetric(collector.cpuFrequencyMHz, prometheus.GaugeValue, snapshot.CPUMinMHz, "min"),
		prometheus.MustNewConstMetric(collector.cpuFrequencyMHz, prometheus.GaugeValue, snapshot.CPUAvgMHz, "avg"),
		prometheus.MustNewConstMetric(collector.cpuFrequencyMHz, prometheus.GaugeValue, snapshot.CPUMaxMHz, "max"),
		prometheus.MustNewConstMetric(collector.thermalMaxCelsius, prometheus.GaugeValue, snapshot.ThermalMaxTemp),
	}
	collector.lastSuccess = 1
	collector.lastRefreshTime = time.Now()
}
