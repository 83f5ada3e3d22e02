package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinHandleMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := NewProm(prometheus.NewRegistry())

	r := gin.New()
	r.Use(p.GinHandleMiddleware())
	r.GET("/api/messages/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/api/messages/a", "/api/messages/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/api/messages/:id", "204")))
}

func TestObserveRateLimited(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())
	p.ObserveRateLimited("contact")
	p.ObserveRateLimited("contact")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.RateLimited.WithLabelValues("contact")))
}
