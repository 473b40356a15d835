package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opencrowd/crowdfund-backend/internal/apptracker"
	"github.com/opencrowd/crowdfund-backend/internal/metrics"
	"github.com/opencrowd/crowdfund-backend/internal/serve/httperror"
)

func RecoverHandler(appTracker apptracker.AppTracker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", r)
				}

				ctx := req.Context()
				logrus.WithContext(ctx).Errorf("%v", err)
				httperror.InternalServerError(ctx, "", err, nil, appTracker).Render(rw)
			}()
			next.ServeHTTP(rw, req)
		})
	}
}

// MetricsMiddleware creates a middleware that tracks HTTP request metrics
func MetricsMiddleware(metricsService metrics.MetricsService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			endpoint := r.URL.Path
			if endpoint == "" {
				endpoint = "/"
			}

			// Wrap the response writer to capture the status code.
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			duration := time.Since(startTime).Seconds()
			metricsService.ObserveRequestDuration(endpoint, r.Method, duration)
			metricsService.IncNumRequests(endpoint, r.Method, rw.statusCode)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	// If WriteHeader hasn't been called yet, we assume it's a 200
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
