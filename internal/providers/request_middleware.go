package providers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestMiddleware tags every request with an id, logs its outcome on the
// channel matching the HTTP method and turns handler panics into a 500.
func RequestMiddleware(logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		logType := GetLogTypeByRequestType(r.Method)

		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorf(TypeApp, "panic serving %s %s [%s]: %v", r.Method, r.URL.Path, id, rec)
				// a partial response cannot be replaced
				if !sw.wrote {
					WriteJSONError(sw, http.StatusInternalServerError, "InternalError", "internal error")
				}
			}
			logger.Debugf(logType, "%s %s %d %s [%s]", r.Method, r.URL.Path, sw.status, time.Since(start), id)
		}()

		next.ServeHTTP(sw, r)
	})
}
