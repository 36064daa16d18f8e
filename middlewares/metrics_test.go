package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/strada-dev/strada"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("counts requests by method route and status", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		mw, err := Metrics(MetricsConfig{Registerer: reg})
		require.NoError(t, err)

		r := strada.New()
		require.NoError(t, r.Use(mw))
		require.NoError(t, r.Get("/users/:id", func(c *strada.Context) error {
			return c.NoContent(http.StatusOK)
		}))

		serve(t, r, httptest.NewRequest(http.MethodGet, "/users/1", nil))
		serve(t, r, httptest.NewRequest(http.MethodGet, "/users/2", nil))

		families, err := reg.Gather()
		require.NoError(t, err)

		var found bool
		for _, fam := range families {
			if fam.GetName() != "strada_requests_total" {
				continue
			}
			found = true
			require.Len(t, fam.GetMetric(), 1)
			m := fam.GetMetric()[0]
			assert.Equal(t, float64(2), m.GetCounter().GetValue())

			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			assert.Equal(t, "/users/:id", labels["route"])
			assert.Equal(t, "GET", labels["method"])
			assert.Equal(t, "200", labels["status"])
		}
		assert.True(t, found)
	})

	t.Run("unmatched requests use the bounded label", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		mw, err := Metrics(MetricsConfig{Registerer: reg})
		require.NoError(t, err)

		r := strada.New()
		require.NoError(t, r.Use(mw))

		serve(t, r, httptest.NewRequest(http.MethodGet, "/nowhere/at/all", nil))

		families, err := reg.Gather()
		require.NoError(t, err)
		for _, fam := range families {
			if fam.GetName() != "strada_requests_total" {
				continue
			}
			for _, m := range fam.GetMetric() {
				for _, l := range m.GetLabel() {
					if l.GetName() == "route" {
						assert.Equal(t, unmatchedRoute, l.GetValue())
					}
				}
			}
		}
	})

	t.Run("double registration fails", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_, err := Metrics(MetricsConfig{Registerer: reg})
		require.NoError(t, err)

		_, err = Metrics(MetricsConfig{Registerer: reg})
		assert.Error(t, err)
	})
}
