package spotify

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/apperror"
	"github.com/travigo/relay/pkg/util"
)

var ErrNoRefreshToken = errors.New("no refresh token stored")

var validate = validator.New()

// TrackURIsRequest is the body accepted by the insert and remove routes
type TrackURIsRequest struct {
	URIs []string `json:"uris" validate:"required,min=1,dive,required"`
}

func (r *TrackURIsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperror.BadRequest("A non-empty list of track uris is required")
	}

	return nil
}

// TrackUpdate mirrors the upstream answer to an insert or remove
type TrackUpdate struct {
	Status  int
	Message string
}

// Service holds everything the Spotify routes need
type Service struct {
	Auth   *Authenticator
	Client *Client
	Tokens *TokenStore
}

func (s *Service) PlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error) {
	token, err := s.Auth.ClientToken(ctx)
	if err != nil {
		return nil, apperror.Internal("Could not get auth token", err)
	}

	tracks, err := s.Client.FetchTracks(ctx, token, playlistID)
	if len(tracks) == 0 {
		return nil, apperror.Internal("Could not get tracks", err)
	}
	if err != nil {
		log.Warn().Err(err).Str("playlist", playlistID).Int("tracks", len(tracks)).Msg("Serving partial track listing")
	}

	uris := make([]string, 0, len(tracks))
	for _, track := range tracks {
		uris = append(uris, track.URI)
	}

	return uris, nil
}

func (s *Service) userAccessToken(ctx context.Context) (string, error) {
	refreshToken, err := s.Tokens.Get()
	if err != nil {
		return "", apperror.Internal("No refresh token found", err)
	}
	if refreshToken == "" {
		return "", apperror.Internal("No refresh token found", ErrNoRefreshToken)
	}

	accessToken, err := s.Auth.AccessToken(ctx, refreshToken)
	if err != nil {
		return "", apperror.Internal("Could not get access token", err)
	}

	return accessToken, nil
}

// CreatePlaylist makes a throwaway private playlist and unfollows it straight away
func (s *Service) CreatePlaylist(ctx context.Context) (*Playlist, error) {
	accessToken, err := s.userAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	userID, err := s.Client.CurrentUserID(ctx, accessToken)
	if err != nil {
		return nil, apperror.Internal("Could not get user id", err)
	}

	playlist, err := s.Client.CreatePlaylist(ctx, accessToken, userID, util.RandomString(32))
	if err != nil {
		return nil, apperror.Internal("Could not create playlist", err)
	}

	if err := s.Client.UnfollowPlaylist(ctx, accessToken, playlist.ID); err != nil {
		log.Warn().Err(err).Str("playlist", playlist.ID).Msg("Failed to unfollow created playlist")
	}

	return playlist, nil
}

func (s *Service) InsertTracks(ctx context.Context, playlistID string, request *TrackURIsRequest) (*TrackUpdate, error) {
	return s.updateTracks(ctx, playlistID, request, s.Client.InsertTracks, "Tracks inserted")
}

func (s *Service) RemoveTracks(ctx context.Context, playlistID string, request *TrackURIsRequest) (*TrackUpdate, error) {
	return s.updateTracks(ctx, playlistID, request, s.Client.RemoveTracks, "Tracks removed")
}

type trackUpdateFunc func(ctx context.Context, accessToken string, playlistID string, uris []string) (int, error)

func (s *Service) updateTracks(ctx context.Context, playlistID string, request *TrackURIsRequest, update trackUpdateFunc, successMessage string) (*TrackUpdate, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	accessToken, err := s.userAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	status, err := update(ctx, accessToken, playlistID, request.URIs)

	var statusError *StatusError
	if errors.As(err, &statusError) {
		return &TrackUpdate{Status: statusError.StatusCode, Message: http.StatusText(statusError.StatusCode)}, nil
	} else if err != nil {
		return nil, apperror.Internal("Spotify API is not available", err)
	}

	return &TrackUpdate{Status: status, Message: successMessage}, nil
}

// LoginURL is the redirect target for the login route
func (s *Service) LoginURL() (string, error) {
	refreshToken, err := s.Tokens.Get()
	if err != nil {
		return "", apperror.Internal("Could not read refresh token", err)
	}

	if refreshToken != "" {
		return s.Auth.RedirectURL(), nil
	}

	return s.Auth.AuthCodeURL(util.RandomString(16)), nil
}

// Callback completes the authorization code flow and persists the refresh token
func (s *Service) Callback(ctx context.Context, state string, code string) (string, error) {
	refreshToken, err := s.Tokens.Get()
	if err != nil {
		return "", apperror.Internal("Could not read refresh token", err)
	}
	if refreshToken != "" {
		return "Refresh token already exists", nil
	}

	if state == "" || code == "" {
		return "", apperror.BadRequest("Missing state or code")
	}

	refreshToken, err = s.Auth.Exchange(ctx, code)
	if err != nil {
		return "", apperror.Internal("Failed to get refresh token", err)
	}

	if err := s.Tokens.Set(refreshToken); err != nil {
		return "", apperror.Internal("Failed to get refresh token", err)
	}

	log.Info().Msg("Stored new Spotify refresh token")

	return "Successfully got a refresh token", nil
}
