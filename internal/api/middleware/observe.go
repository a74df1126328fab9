package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-SalonBooking/pkg/tracing"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

// routeTemplate шаблон маршрута mux, чтобы не плодить метки по ID
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// Observe пишет span, метрики и access-лог на каждый запрос
func Observe(metrics HTTPMetrics, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := routeTemplate(r)

			done := metrics.InFlight()
			defer done()

			ctx, span := tracing.Start(r.Context(), r.Method+" "+path,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", path),
				attribute.String("request.id", RequestIDFromContext(r.Context())),
			)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			tracing.End(span, nil)

			elapsed := time.Since(start)
			metrics.ObserveHTTPRequest(r.Method, path, rec.status, elapsed)

			if rec.status >= http.StatusInternalServerError {
				logger.Error("%s %s - %d in %s, request_id=%s", r.Method, r.URL.Path, rec.status, elapsed, RequestIDFromContext(r.Context()))
				return
			}
			logger.Info("%s %s - %d in %s, request_id=%s", r.Method, r.URL.Path, rec.status, elapsed, RequestIDFromContext(r.Context()))
		})
	}
}

// Recover перехватывает панику обработчика и отвечает 500
func Recover(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("%s %s - panic: %v, request_id=%s", r.Method, r.URL.Path, p, RequestIDFromContext(r.Context()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
