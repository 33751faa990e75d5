package apptest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

const tripJSON = `{"Trip": [{
	"Origin": {"extId": "3000010", "date": "2022-12-21", "time": "08:00:00"},
	"Destination": {"extId": "3004734", "date": "2022-12-21", "time": "08:45:00"},
	"duration": "PT45M",
	"LegList": {"Leg": [
		{"Origin": {"extId": "3000010", "date": "2022-12-21", "time": "08:00:00"}, "Destination": {"extId": 3004734, "date": "2022-12-21", "time": "08:45:00"}, "name": "S 8"}
	]}
}]}`

// newUpstream fakes the RMV trip API, the Spotify accounts service and the Spotify Web API on one server
func newUpstream(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		switch {
		case r.URL.Path == "/trip":
			if r.URL.Query().Get("originId") == "3006907" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(tripJSON))
		case r.URL.Path == "/api/token":
			token(w, string(body))
		case r.URL.Path == "/v1/playlists/list":
			items := []map[string]any{}
			for i := 0; i < 3; i++ {
				items = append(items, map[string]any{"track": map[string]any{"uri": fmt.Sprintf("spotify:track:%d", i)}})
			}
			writeJSON(w, http.StatusOK, map[string]any{"tracks": map[string]any{"total": 3, "items": items, "next": nil}})
		case r.URL.Path == "/v1/playlists/empty":
			writeJSON(w, http.StatusOK, map[string]any{"tracks": map[string]any{"total": 0, "items": []any{}, "next": nil}})
		case r.URL.Path == "/v1/me":
			writeJSON(w, http.StatusOK, map[string]any{"id": "user-1"})
		case r.URL.Path == "/v1/users/user-1/playlists" && r.Method == http.MethodPost:
			writeJSON(w, http.StatusCreated, map[string]any{
				"id":            "new-playlist",
				"external_urls": map[string]any{"spotify": "https://open.spotify.com/playlist/new-playlist"},
			})
		case r.URL.Path == "/v1/playlists/new-playlist/followers" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/v1/playlists/target/tracks" && r.Method == http.MethodPost:
			writeJSON(w, http.StatusCreated, map[string]any{"snapshot_id": "a"})
		case r.URL.Path == "/v1/playlists/target/tracks" && r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]any{"snapshot_id": "b"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func token(w http.ResponseWriter, body string) {
	form, _ := url.ParseQuery(body)

	switch form.Get("grant_type") {
	case "client_credentials":
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "client-access", "token_type": "Bearer", "expires_in": 3600})
	case "refresh_token":
		if form.Get("refresh_token") != StoredRefreshToken {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "user-access", "token_type": "Bearer", "expires_in": 3600})
	case "authorization_code":
		if form.Get("code") != "good-code" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "user-access", "token_type": "Bearer", "expires_in": 3600, "refresh_token": StoredRefreshToken})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}
