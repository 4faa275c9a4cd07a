package http_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	portalhttp "github.com/srw-platform/portal/internal/api/http"
	"github.com/srw-platform/portal/internal/observability"
	apperrors "github.com/srw-platform/portal/pkg/util"
)

func newMetricsApp(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	app := fiber.New()
	portalhttp.RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	return app, metrics
}

func TestRequestMetricsCarryMappedErrorStatus(t *testing.T) {
	app, metrics := newMetricsApp(t)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad input", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	mapped := metrics.RequestsTotal.WithLabelValues("/boom", fiber.MethodGet, "400")
	assert.Equal(t, float64(1), testutil.ToFloat64(mapped))
	preMapping := metrics.RequestsTotal.WithLabelValues("/boom", fiber.MethodGet, "200")
	assert.Zero(t, testutil.ToFloat64(preMapping))
}

func TestRequestMetricsCountSuccessStatus(t *testing.T) {
	app, metrics := newMetricsApp(t)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	counter := metrics.RequestsTotal.WithLabelValues("/ok", fiber.MethodGet, "200")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}
