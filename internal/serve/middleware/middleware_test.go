package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
)

func TestRecoverHandler(t *testing.T) {
	appTrackerMock := apptracker.MockAppTracker{}

	r := chi.NewRouter()
	r.Use(RecoverHandler(&appTrackerMock))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	appTrackerMock.On("CaptureException", errors.New("panic: test panic")).Return().Once()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	wantJSON := `{
		"error": "An error occurred while processing this request."
	}`
	assert.JSONEq(t, wantJSON, rr.Body.String())
	appTrackerMock.AssertExpectations(t)
}

func TestRecoverHandlerPassesThrough(t *testing.T) {
	appTrackerMock := apptracker.MockAppTracker{}

	r := chi.NewRouter()
	r.Use(RecoverHandler(&appTrackerMock))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	appTrackerMock.AssertNotCalled(t, "CaptureException", mock.Anything)
}

func TestMetricsMiddleware(t *testing.T) {
	mockMetricsService := metrics.NewMockMetricsService()
	mockMetricsService.On("ObserveRequestDuration", "/campaigns", http.MethodGet, mock.Anything).Return().Once()
	mockMetricsService.On("IncNumRequests", "/campaigns", http.MethodGet, http.StatusOK).Return().Once()
	defer mockMetricsService.AssertExpectations(t)

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(mockMetricsService))
	r.Get("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	req, err := http.NewRequest(http.MethodGet, "/campaigns", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsMiddlewareCapturesStatusCode(t *testing.T) {
	mockMetricsService := metrics.NewMockMetricsService()
	mockMetricsService.On("ObserveRequestDuration", "/missing", http.MethodGet, mock.Anything).Return().Once()
	mockMetricsService.On("IncNumRequests", "/missing", http.MethodGet, http.StatusNotFound).Return().Once()
	defer mockMetricsService.AssertExpectations(t)

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(mockMetricsService))
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req, err := http.NewRequest(http.MethodGet, "/missing", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
