package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestSetBool(t *testing.T) {
	SetBool(HostListening, true)
	assert.Contains(t, scrape(t), "smartspace_host_listening 1")

	SetBool(HostListening, false)
	assert.Contains(t, scrape(t), "smartspace_host_listening 0")
}

func TestHandlerExposesPipelineMetrics(t *testing.T) {
	RenderEvents.Inc()
	Extractions.WithLabelValues(OutcomeWeather).Inc()

	body := scrape(t)
	assert.Contains(t, body, "smartspace_render_events_total")
	assert.Contains(t, body, `smartspace_extractions_total{outcome="weather"}`)
}
