package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/2beens/mapty/internal/telemetry/metrics"
)

// PanicRecovery turns a handler panic into a 500. The panic is recorded on the
// request span, counted and logged with the route it happened on (error level,
// so it also reaches sentry when enabled).
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				route := routeName(req)
				err := fmt.Errorf("panic serving %s %s: %v", req.Method, route, r)

				span := trace.SpanFromContext(req.Context())
				span.RecordError(err, trace.WithStackTrace(true))
				span.SetStatus(codes.Error, err.Error())

				log.WithFields(log.Fields{
					"route":  route,
					"method": req.Method,
					"path":   req.URL.Path,
				}).Errorf("http: %s\n%s", err, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(respWriter, "internal server error", http.StatusInternalServerError)
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}
