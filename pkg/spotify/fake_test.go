package spotify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeSpotify serves both the accounts service and the Web API
type fakeSpotify struct {
	t      *testing.T
	server *httptest.Server

	mutex         sync.Mutex
	requests      map[string]int
	grants        []string
	bodies        map[string]string
	totalTracks   int
	pageSize      int
	failPage      int
	failTokens    bool
	failUser      bool
	trackStatus   int
	refreshTokens map[string]bool
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	f := &fakeSpotify{
		t:             t,
		requests:      map[string]int{},
		bodies:        map[string]string{},
		pageSize:      100,
		failPage:      -1,
		trackStatus:   http.StatusCreated,
		refreshTokens: map[string]bool{"stored-refresh": true},
	}

	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeSpotify) count(key string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.requests[key]
}

func (f *fakeSpotify) body(key string) string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.bodies[key]
}

func (f *fakeSpotify) authenticator() *Authenticator {
	return NewAuthenticator(AuthOptions{
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		AccountsEndpoint: f.server.URL,
		RedirectURL:      "http://relay.test/api/spotify/v1/auth/callback",
		HTTPClient:       f.server.Client(),
	})
}

func (f *fakeSpotify) client() *Client {
	return &Client{BaseURL: f.server.URL + "/v1", HTTPClient: f.server.Client()}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func (f *fakeSpotify) page(offset int) map[string]any {
	items := []map[string]any{}
	for i := offset; i < offset+f.pageSize && i < f.totalTracks; i++ {
		items = append(items, map[string]any{
			"track": map[string]any{"id": strconv.Itoa(i), "uri": fmt.Sprintf("spotify:track:%d", i)},
		})
	}

	var next any
	if offset+f.pageSize < f.totalTracks {
		next = fmt.Sprintf("%s/v1/playlists/list/tracks?offset=%d&limit=%d", f.server.URL, offset+f.pageSize, f.pageSize)
	}

	return map[string]any{"total": f.totalTracks, "items": items, "next": next}
}

func (f *fakeSpotify) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mutex.Lock()
	f.requests[key]++
	f.bodies[key] = string(body)
	f.mutex.Unlock()

	if r.URL.Path == "/api/token" {
		f.token(w, r, string(body))
		return
	}

	if r.Header.Get("Authorization") == "" || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "no token"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/playlists/list":
		if f.failPage == 0 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "list", "tracks": f.page(0)})
	case r.Method == http.MethodGet && r.URL.Path == "/v1/playlists/list/tracks":
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if f.failPage >= 0 && offset/f.pageSize == f.failPage {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, f.page(offset))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/me":
		if f.failUser {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "user-1"})
	case r.Method == http.MethodPost && r.URL.Path == "/v1/users/user-1/playlists":
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":            "new-playlist",
			"external_urls": map[string]any{"spotify": "https://open.spotify.com/playlist/new-playlist"},
		})
	case r.Method == http.MethodDelete && r.URL.Path == "/v1/playlists/new-playlist/followers":
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/v1/playlists/target/tracks":
		writeJSON(w, f.trackStatus, map[string]any{"snapshot_id": "snap"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeSpotify) token(w http.ResponseWriter, r *http.Request, body string) {
	user, password, ok := r.BasicAuth()
	if !ok || user != "client-id" || password != "client-secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client"})
		return
	}

	if f.failTokens {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
		return
	}

	form, _ := parseForm(body)
	grant := form["grant_type"]

	f.mutex.Lock()
	f.grants = append(f.grants, grant)
	f.mutex.Unlock()

	switch grant {
	case "client_credentials":
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "client-access", "token_type": "Bearer", "expires_in": 3600})
	case "refresh_token":
		if !f.refreshTokens[form["refresh_token"]] {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "user-access", "token_type": "Bearer", "expires_in": 3600})
	case "authorization_code":
		if form["code"] != "good-code" || form["redirect_uri"] != "http://relay.test/api/spotify/v1/auth/callback" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "user-access",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "fresh-refresh",
		})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
	}
}

func parseForm(body string) (map[string]string, error) {
	values := map[string]string{}

	parsed, err := url.ParseQuery(body)
	if err != nil {
		return values, err
	}
	for key := range parsed {
		values[key] = parsed.Get(key)
	}

	return values, nil
}
