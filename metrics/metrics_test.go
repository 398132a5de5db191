package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIndependentPerInstance(t *testing.T) {
	a := New()
	b := New()

	a.LoginAttempts.WithLabelValues("success").Inc()
	a.LoginAttempts.WithLabelValues("success").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.LoginAttempts.WithLabelValues("success")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.TableMutations.WithLabelValues("users", "add").Inc()
	m.Logouts.Inc()

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dbconsole_table_mutations_total{op="add",table="users"} 1`)
	assert.Contains(t, string(body), "dbconsole_logouts_total 1")
}
