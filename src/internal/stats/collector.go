// FILE: tplog/src/internal/stats/collector.go
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SourceFunc returns the current snapshot of every logger keyed by name
type SourceFunc func() map[string]Snapshot

// Collector exports logger statistics as Prometheus counters at scrape time
type Collector struct {
	source SourceFunc

	records     *prometheus.Desc
	dropped     *prometheus.Desc
	writeErrors *prometheus.Desc
	flushErrors *prometheus.Desc
}

func NewCollector(namespace string, source SourceFunc) *Collector {
	return &Collector{
		source: source,
		records: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records_total"),
			"Records accepted into the logger queue.",
			[]string{"logger", "level"}, nil),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "dropped_total"),
			"Records dropped because the logger queue was full.",
			[]string{"logger"}, nil),
		writeErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "write_errors_total"),
			"Sink write failures.",
			[]string{"logger"}, nil),
		flushErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "flush_errors_total"),
			"Sink flush failures.",
			[]string{"logger"}, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.records
	ch <- c.dropped
	ch <- c.writeErrors
	ch <- c.flushErrors
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, snap := range c.source() {
		for level, n := range snap.ByLevel {
			ch <- prometheus.MustNewConstMetric(c.records, prometheus.CounterValue, float64(n), name, level)
		}
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(snap.Dropped), name)
		ch <- prometheus.MustNewConstMetric(c.writeErrors, prometheus.CounterValue, float64(snap.WriteErrors), name)
		ch <- prometheus.MustNewConstMetric(c.flushErrors, prometheus.CounterValue, float64(snap.FlushErrors), name)
	}
}
