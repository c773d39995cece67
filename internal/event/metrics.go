package event

import "github.com/prometheus/client_golang/prometheus"

// Collector exports bus statistics to Prometheus.
type Collector struct {
	bus *Bus

	emitted   *prometheus.Desc
	calls     *prometheus.Desc
	errors    *prometheus.Desc
	panics    *prometheus.Desc
	resets    *prometheus.Desc
	listeners *prometheus.Desc
}

// NewCollector creates a collector reading from bus.
func NewCollector(bus *Bus) *Collector {
	return &Collector{
		bus: bus,
		emitted: prometheus.NewDesc("unpoly_bus_events_emitted_total",
			"Total number of emitted events.", nil, nil),
		calls: prometheus.NewDesc("unpoly_bus_handler_calls_total",
			"Total number of handler invocations.", nil, nil),
		errors: prometheus.NewDesc("unpoly_bus_handler_errors_total",
			"Total number of handlers that returned an error.", nil, nil),
		panics: prometheus.NewDesc("unpoly_bus_handler_panics_total",
			"Total number of recovered handler panics.", nil, nil),
		resets: prometheus.NewDesc("unpoly_bus_resets_total",
			"Total number of registry resets.", nil, nil),
		listeners: prometheus.NewDesc("unpoly_bus_listeners",
			"Number of registered listeners.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.emitted
	ch <- c.calls
	ch <- c.errors
	ch <- c.panics
	ch <- c.resets
	ch <- c.listeners
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.bus.Stats()
	ch <- prometheus.MustNewConstMetric(c.emitted, prometheus.CounterValue, float64(s.EventsEmitted))
	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.HandlerCalls))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(s.HandlerErrors))
	ch <- prometheus.MustNewConstMetric(c.panics, prometheus.CounterValue, float64(s.HandlerPanics))
	ch <- prometheus.MustNewConstMetric(c.resets, prometheus.CounterValue, float64(s.Resets))
	ch <- prometheus.MustNewConstMetric(c.listeners, prometheus.GaugeValue, float64(s.Listeners))
}
