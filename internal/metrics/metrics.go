// Package metrics exposes Prometheus instrumentation for the smartspace
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smartspace"

// Extraction outcomes.
const (
	OutcomeEmpty   = "empty"
	OutcomeWeather = "weather"
	OutcomeFull    = "full"
	OutcomePanic   = "panic"
)

var (
	RenderEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "render_events_total",
		Help:      "Redraws delivered by bound headless widgets.",
	})
	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Widget tree extractions by outcome.",
	}, []string{"outcome"})
	RowsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_published_total",
		Help:      "Row sets published to lock-screen consumers.",
	})
	SupersededExtractions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_superseded_total",
		Help:      "Renders skipped because a newer render arrived before extraction started.",
	})
	WidgetsTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "widgets_tracked",
		Help:      "Widget records held by the headless widget manager.",
	})
	HostListening = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "host_listening",
		Help:      "1 while the widget host is in listening mode.",
	})
	ProviderAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provider_available",
		Help:      "1 while the widget provider package is installed and enabled.",
	})
)

// SetBool sets g to 1 or 0.
func SetBool(g prometheus.Gauge, v bool) {
	if v {
		g.Set(1)
		return
	}
	g.Set(0)
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
