// Package metrics exposes scheduler progress as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/measched/internal/scheduler"
)

// Source is the read-only view of a scheduler the collector samples.
type Source interface {
	Counts() scheduler.Counts
}

// Collector reports catalog counts on every scrape.
type Collector struct {
	src Source

	total      *prometheus.Desc
	complete   *prometheus.Desc
	inProgress *prometheus.Desc
	waiting    *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src Source) *Collector {
	return &Collector{
		src: src,
		total: prometheus.NewDesc("measched_measurements_total",
			"Number of measurements in the loaded catalog.", nil, nil),
		complete: prometheus.NewDesc("measched_measurements_complete",
			"Number of measurements reported done.", nil, nil),
		inProgress: prometheus.NewDesc("measched_measurements_in_progress",
			"Number of measurements handed out and not yet done.", nil, nil),
		waiting: prometheus.NewDesc("measched_measurements_waiting",
			"Number of measurements not yet handed out.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.complete
	ch <- c.inProgress
	ch <- c.waiting
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counts := c.src.Counts()

	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(counts.Total))
	ch <- prometheus.MustNewConstMetric(c.complete, prometheus.GaugeValue, float64(counts.Complete))
	ch <- prometheus.MustNewConstMetric(c.inProgress, prometheus.GaugeValue, float64(counts.InProgress))
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(counts.Waiting))
}

// NewRegistry returns a registry holding only the scheduler collector.
func NewRegistry(src Source) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(src))
	return reg
}
