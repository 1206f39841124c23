package httphandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// Flush lets streamed responses through the wrapper.
func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// ApplyMiddleware wraps h with recovery (innermost) and request logging.
func ApplyMiddleware(h http.Handler, logger zerolog.Logger) http.Handler {
	logger = logger.With().Str("component", "http").Logger()
	return loggingMiddleware(logger, recoveryMiddleware(logger, h))
}

// MountAt serves h under basePath. Requests outside it get 404. An empty
// basePath returns h unchanged.
func MountAt(basePath string, h http.Handler) http.Handler {
	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		return h
	}

	mux := http.NewServeMux()
	mux.Handle(basePath+"/", http.StripPrefix(basePath, h))
	mux.Handle(basePath, http.RedirectHandler(basePath+"/", http.StatusMovedPermanently))
	return mux
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func loggingMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		ev := logger.Info()
		if sw.status >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start).Round(time.Microsecond)).
			Msg("http request")
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error().
					Interface("panic", v).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
