// Package promstats instruments a statsd.Client with Prometheus collectors.
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"statsd/statsd"
)

// observer implements statsd.Observer using Prometheus.
type observer struct {
	loggedTotal   *prometheus.CounterVec
	flushesTotal  *prometheus.CounterVec
	flushedTotal  prometheus.Counter
	bufferedGauge prometheus.Gauge
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) statsd.Observer {
	o := &observer{
		loggedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statsd_records_logged_total",
			Help: "Total number of records buffered, by metric name",
		}, []string{"metric"}),

		flushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statsd_flushes_total",
			Help: "Total number of non-empty flushes",
		}, []string{"success"}),

		flushedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statsd_records_flushed_total",
			Help: "Total number of records handed to the storage",
		}),

		bufferedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statsd_buffered_records",
			Help: "Records currently held in memory",
		}),
	}

	reg.MustRegister(
		o.loggedTotal,
		o.flushesTotal,
		o.flushedTotal,
		o.bufferedGauge,
	)

	return o
}

func (o *observer) Logged(name string, _ int64) {
	o.loggedTotal.WithLabelValues(name).Inc()
}

func (o *observer) Flushed(n int) {
	o.flushesTotal.WithLabelValues("true").Inc()
	o.flushedTotal.Add(float64(n))
}

func (o *observer) FlushFailed(int, error) {
	o.flushesTotal.WithLabelValues("false").Inc()
}

func (o *observer) Buffered(n int) {
	o.bufferedGauge.Set(float64(n))
}

var _ statsd.Observer = (*observer)(nil)
