package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"smartmedical-server/internal/config"
	"smartmedical-server/internal/logger"
	"smartmedical-server/internal/repository"
)

func newRouter(metrics bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	appts, patients := repository.NewMemoryStores()
	cfg := &config.Config{DefaultPageSize: 10, MaxPageSize: 100, MetricsEnabled: metrics}
	r := gin.New()
	SetupRoutes(r, appts, patients, cfg, logger.Discard())
	return r
}

func TestSetupRoutes_Health(t *testing.T) {
	r := newRouter(false)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetupRoutes_MetricsToggle(t *testing.T) {
	r := newRouter(true)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))

	r = newRouter(false)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRoutes_StaticPathsWinOverID(t *testing.T) {
	r := newRouter(false)
	for _, path := range []string{"/api/appointments/upcoming", "/api/appointments/paged", "/api/dashboard", "/api/patients"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
