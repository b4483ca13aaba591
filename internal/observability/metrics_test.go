package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesAPICollectors(t *testing.T) {
	APIRequests().WithLabelValues(http.MethodPost, "/api/analyze", "200").Inc()
	APIErrors().WithLabelValues(http.MethodPost, "/api/auth/verify", "401").Inc()
	APILatency().WithLabelValues(http.MethodPost, "/api/analyze").Observe(0.3)

	app := fiber.New()
	app.Get("/metrics", MetricsHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `aita_api_requests_total{method="POST",route="/api/analyze",status="200"}`)
	require.Contains(t, string(body), "aita_api_errors_total")
	require.Contains(t, string(body), "aita_api_latency_seconds_bucket")
}
