package mux_api

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/apperror"
)

type jsonMap map[string]any

func writeJSON(w http.ResponseWriter, status int, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"message":"Internal Server Error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, jsonMap{"message": message})
}

func sendError(w http.ResponseWriter, err error) {
	writeMessage(w, apperror.StatusOf(err), apperror.MessageOf(err))
}

func sendExerciseError(w http.ResponseWriter, err error) {
	writeJSON(w, apperror.StatusOf(err), jsonMap{"error": apperror.MessageOf(err)})
}

// ClientIP prefers the address Cloudflare reports over the socket address
func ClientIP(r *http.Request) string {
	if cloudflareConnectingIP := r.Header.Get("CF-Connecting-IP"); cloudflareConnectingIP != "" {
		return cloudflareConnectingIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "404 Not Found")
}
