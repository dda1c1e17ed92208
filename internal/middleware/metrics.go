package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestObserver получает итог HTTP-запроса (реализуется metrics.Collector).
type RequestObserver interface {
	ObserveRequest(method, route, status string, elapsed time.Duration)
}

// WithMetrics считает запросы по шаблону маршрута chi, чтобы id в пути не раздували метки.
func WithMetrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			obs.ObserveRequest(r.Method, route, strconv.Itoa(rw.statusCode()), time.Since(start))
		})
	}
}
