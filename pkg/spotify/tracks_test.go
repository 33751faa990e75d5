package spotify

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTracksFollowsPages(t *testing.T) {
	fake := newFakeSpotify(t)
	fake.totalTracks = 150

	tracks, err := fake.client().FetchTracks(context.Background(), "token", "list")
	require.NoError(t, err)
	require.Len(t, tracks, 150)

	assert.Equal(t, 1, fake.count("GET /v1/playlists/list"))
	assert.Equal(t, 1, fake.count("GET /v1/playlists/list/tracks"))

	for i, track := range tracks {
		assert.Equal(t, fmt.Sprintf("spotify:track:%d", i), track.URI)
	}
}

func TestFetchTracksSinglePage(t *testing.T) {
	fake := newFakeSpotify(t)
	fake.totalTracks = 100

	tracks, err := fake.client().FetchTracks(context.Background(), "token", "list")
	require.NoError(t, err)
	assert.Len(t, tracks, 100)
	assert.Equal(t, 0, fake.count("GET /v1/playlists/list/tracks"))
}

func TestFetchTracksEmptyPlaylist(t *testing.T) {
	fake := newFakeSpotify(t)

	tracks, err := fake.client().FetchTracks(context.Background(), "token", "list")
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestFetchTracksPartialOnFailure(t *testing.T) {
	fake := newFakeSpotify(t)
	fake.totalTracks = 350
	fake.failPage = 2

	tracks, err := fake.client().FetchTracks(context.Background(), "token", "list")
	assert.ErrorIs(t, err, ErrPartialTracks)
	assert.Len(t, tracks, 200)

	var statusError *StatusError
	require.ErrorAs(t, err, &statusError)
	assert.Equal(t, http.StatusBadGateway, statusError.StatusCode)
}

func TestFetchTracksFirstPageFailure(t *testing.T) {
	fake := newFakeSpotify(t)
	fake.totalTracks = 10
	fake.failPage = 0

	tracks, err := fake.client().FetchTracks(context.Background(), "token", "list")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPartialTracks)
	assert.Empty(t, tracks)
}

func TestFetchTracksPageLimit(t *testing.T) {
	fake := newFakeSpotify(t)
	fake.totalTracks = 500

	client := fake.client()
	client.MaxPages = 3

	tracks, err := client.FetchTracks(context.Background(), "token", "list")
	assert.ErrorIs(t, err, ErrPageLimit)
	assert.ErrorIs(t, err, ErrPartialTracks)
	assert.Len(t, tracks, 300)
	assert.Equal(t, 2, fake.count("GET /v1/playlists/list/tracks"))
}
