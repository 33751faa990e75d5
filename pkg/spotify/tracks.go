package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

var (
	ErrPartialTracks = errors.New("track listing incomplete")
	ErrPageLimit     = errors.New("page limit reached")
)

type trackItem struct {
	Track *Track `json:"track"`
}

type trackPage struct {
	Total int         `json:"total"`
	Items []trackItem `json:"items"`
	Next  string      `json:"next"`
}

type playlistResponse struct {
	Tracks trackPage `json:"tracks"`
}

// FetchTracks lists every track of a playlist. The first request is for the playlist itself, which
// carries the total and the first page; further pages are followed through their next links.
// If a page fails the tracks gathered so far are returned together with an error wrapping ErrPartialTracks.
func (c *Client) FetchTracks(ctx context.Context, accessToken string, playlistID string) ([]Track, error) {
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	tracks := []Track{}
	target := c.endpoint("/playlists/%s", playlistID)
	remaining := 0

	for pageNumber := 0; ; pageNumber++ {
		if pageNumber >= maxPages {
			log.Warn().Str("playlist", playlistID).Int("pages", pageNumber).Int("remaining", remaining).Msg("Stopping track listing at page limit")
			return tracks, fmt.Errorf("%w: %w", ErrPartialTracks, ErrPageLimit)
		}

		var page trackPage
		var err error

		if pageNumber == 0 {
			var playlist playlistResponse
			_, err = c.do(ctx, http.MethodGet, target, accessToken, nil, &playlist)
			page = playlist.Tracks
			remaining = page.Total
		} else {
			_, err = c.do(ctx, http.MethodGet, target, accessToken, nil, &page)
		}

		if err != nil {
			if pageNumber == 0 {
				return tracks, err
			}
			return tracks, fmt.Errorf("%w: %w", ErrPartialTracks, err)
		}

		for _, item := range page.Items {
			if remaining <= 0 {
				break
			}
			remaining--

			// Removed or local tracks come back as null
			if item.Track == nil {
				continue
			}
			tracks = append(tracks, *item.Track)
		}

		if remaining <= 0 || page.Next == "" {
			return tracks, nil
		}

		target = page.Next
	}
}
