package mux_api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/spotify"
)

func spotifyRouter(router *mux.Router, application *app.App) {
	versionRoutes(router)

	router.HandleFunc("/v1/auth/login", spotifyLogin(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/auth/callback", spotifyCallback(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/get/tracks/{playlistId}", getPlaylistTracks(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/playlist/create", createPlaylist(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/playlist/insert/{playlistId}", updateTracks(application.Spotify.InsertTracks)).Methods(http.MethodPost)
	router.HandleFunc("/v1/playlist/remove/{playlistId}", updateTracks(application.Spotify.RemoveTracks)).Methods(http.MethodPost)
}

func spotifyLogin(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := application.Spotify.LoginURL()
		if err != nil {
			sendError(w, err)
			return
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}

func spotifyCallback(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		message, err := application.Spotify.Callback(r.Context(), query.Get("state"), query.Get("code"))
		if err != nil {
			sendError(w, err)
			return
		}

		writeMessage(w, http.StatusOK, message)
	}
}

func getPlaylistTracks(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uris, err := application.Spotify.PlaylistTrackURIs(r.Context(), mux.Vars(r)["playlistId"])
		if err != nil {
			sendError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, uris)
	}
}

func createPlaylist(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlist, err := application.Spotify.CreatePlaylist(r.Context())
		if err != nil {
			sendError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, playlist)
	}
}

func parseTrackURIs(r *http.Request) (*spotify.TrackURIsRequest, bool) {
	var request spotify.TrackURIsRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			return nil, false
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(bodyLimit); err != nil && err != http.ErrNotMultipart {
			return nil, false
		}
		request.URIs = r.PostForm["uris"]
	default:
		return nil, false
	}

	return &request, true
}

func updateTracks(update func(ctx context.Context, playlistID string, request *spotify.TrackURIsRequest) (*spotify.TrackUpdate, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

		request, ok := parseTrackURIs(r)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "Body must be a JSON object with a uris list")
			return
		}

		result, err := update(r.Context(), mux.Vars(r)["playlistId"], request)
		if err != nil {
			sendError(w, err)
			return
		}

		writeMessage(w, result.Status, result.Message)
	}
}
