package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultMaxPages = 1000

// StatusError is returned when the Web API answers with a non 2xx status
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d", e.Method, e.URL, e.StatusCode)
}

type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
	DurationMS int    `json:"duration_ms"`
}

type Playlist struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// MaxPages bounds the number of requests a single track listing may make
	MaxPages int
}

func (c *Client) endpoint(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, arg := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(arg))
	}

	return strings.TrimSuffix(c.BaseURL, "/") + fmt.Sprintf(format, escaped...)
}

func (c *Client) do(ctx context.Context, method string, target string, accessToken string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, err
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		io.Copy(io.Discard, response.Body)
		return response.StatusCode, &StatusError{StatusCode: response.StatusCode, Method: method, URL: target}
	}

	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return response.StatusCode, fmt.Errorf("decode %s response: %w", target, err)
		}
	}

	return response.StatusCode, nil
}

func (c *Client) CurrentUserID(ctx context.Context, accessToken string) (string, error) {
	var user struct {
		ID string `json:"id"`
	}

	if _, err := c.do(ctx, http.MethodGet, c.endpoint("/me"), accessToken, nil, &user); err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("profile response has no id")
	}

	return user.ID, nil
}

// CreatePlaylist creates a private playlist owned by userID
func (c *Client) CreatePlaylist(ctx context.Context, accessToken string, userID string, name string) (*Playlist, error) {
	request := map[string]any{
		"name":        name,
		"description": name,
		"public":      false,
	}

	var created struct {
		ID           string `json:"id"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}

	if _, err := c.do(ctx, http.MethodPost, c.endpoint("/users/%s/playlists", userID), accessToken, request, &created); err != nil {
		return nil, err
	}

	return &Playlist{ID: created.ID, URL: created.ExternalURLs.Spotify}, nil
}

// UnfollowPlaylist removes the playlist from the user's library. The playlist itself keeps existing
func (c *Client) UnfollowPlaylist(ctx context.Context, accessToken string, playlistID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.endpoint("/playlists/%s/followers", playlistID), accessToken, nil, nil)
	return err
}

func (c *Client) InsertTracks(ctx context.Context, accessToken string, playlistID string, uris []string) (int, error) {
	request := map[string]any{"uris": uris}

	return c.do(ctx, http.MethodPost, c.endpoint("/playlists/%s/tracks", playlistID), accessToken, request, nil)
}

func (c *Client) RemoveTracks(ctx context.Context, accessToken string, playlistID string, uris []string) (int, error) {
	type trackReference struct {
		URI string `json:"uri"`
	}

	references := make([]trackReference, 0, len(uris))
	for _, uri := range uris {
		references = append(references, trackReference{URI: uri})
	}

	request := map[string]any{"tracks": references}

	return c.do(ctx, http.MethodDelete, c.endpoint("/playlists/%s/tracks", playlistID), accessToken, request, nil)
}
