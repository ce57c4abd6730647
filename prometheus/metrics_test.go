package prometheus

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/probe/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	})

	before := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues("/probe/:id", http.MethodGet, "202"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe/7", nil))

	after := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues("/probe/:id", http.MethodGet, "202"))
	assert.Equal(t, before+1, after)
}

func TestMetricsMiddlewareUsesHTTPErrorCode(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues("/teapot", http.MethodGet, "418"))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))
	after := testutil.ToFloat64(HTTPRequestCounter.WithLabelValues("/teapot", http.MethodGet, "418"))

	assert.Equal(t, before+1, after)
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(CartOperationCounter.WithLabelValues("add"))
	RecordCartOperation("add")
	assert.Equal(t, before+1, testutil.ToFloat64(CartOperationCounter.WithLabelValues("add")))

	before = testutil.ToFloat64(AuthErrorCounter.WithLabelValues("invalid_token"))
	RecordAuthError("invalid_token")
	assert.Equal(t, before+1, testutil.ToFloat64(AuthErrorCounter.WithLabelValues("invalid_token")))

	TrackDBOperation("query")(time.Now())
	TrackUpload()(errors.New("boom"))
	ObserveCheckout(370)
}
