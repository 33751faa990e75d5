package mux_api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/metrics"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// NewLogger wraps the whole router so unmatched requests are logged too
func NewLogger(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		path := ""
		var match mux.RouteMatch
		if router.Match(r, &match) && match.Route != nil {
			path, _ = match.Route.GetPathTemplate()
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		router.ServeHTTP(recorder, r)

		code := recorder.status
		latency := time.Since(startTime)

		metrics.ObserveRequest("mux", r.Method, path, code, latency)

		requestLogger := log.With().
			Int("status", code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("ip", ClientIP(r)).
			Str("latency", latency.String()).
			Str("user-agent", r.UserAgent()).
			Str("request-id", requestID).
			Logger()

		switch {
		case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
			requestLogger.Warn().Msg("HTTP Request")
		case code >= http.StatusInternalServerError:
			requestLogger.Error().Msg("HTTP Request")
		default:
			requestLogger.Info().Msg("HTTP Request")
		}
	})
}
