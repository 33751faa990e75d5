package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const clientTokenCacheKey = "spotify/client-credentials-token"

var Scopes = []string{"playlist-modify-private", "playlist-read-private"}

type AuthOptions struct {
	ClientID         string
	ClientSecret     string
	AccountsEndpoint string
	RedirectURL      string
	HTTPClient       *http.Client
	Cache            TokenCache
}

// Authenticator wraps the three grants used against the Spotify accounts service
type Authenticator struct {
	userConfig   *oauth2.Config
	clientConfig *clientcredentials.Config
	httpClient   *http.Client
	cache        TokenCache
}

func NewAuthenticator(options AuthOptions) *Authenticator {
	accounts := strings.TrimSuffix(options.AccountsEndpoint, "/")
	endpoint := oauth2.Endpoint{
		AuthURL:   accounts + "/authorize",
		TokenURL:  accounts + "/api/token",
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	return &Authenticator{
		userConfig: &oauth2.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  options.RedirectURL,
			Scopes:       Scopes,
		},
		clientConfig: &clientcredentials.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			TokenURL:     endpoint.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: options.HTTPClient,
		cache:      options.Cache,
	}
}

func (a *Authenticator) context(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}

	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// AuthCodeURL is where the user is sent to grant the playlist scopes
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.userConfig.AuthCodeURL(state)
}

func (a *Authenticator) RedirectURL() string {
	return a.userConfig.RedirectURL
}

// Exchange swaps an authorization code for the long lived refresh token
func (a *Authenticator) Exchange(ctx context.Context, code string) (string, error) {
	token, err := a.userConfig.Exchange(a.context(ctx), code)
	if err != nil {
		return "", err
	}

	if token.RefreshToken == "" {
		return "", errors.New("token response did not include a refresh token")
	}

	return token.RefreshToken, nil
}

// AccessToken uses the refresh token grant to get a user scoped access token
func (a *Authenticator) AccessToken(ctx context.Context, refreshToken string) (string, error) {
	source := a.userConfig.TokenSource(a.context(ctx), &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// ClientToken returns an app scoped token from the client credentials grant, cached when a cache is configured
func (a *Authenticator) ClientToken(ctx context.Context) (string, error) {
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, clientTokenCacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}

	token, err := a.clientConfig.Token(a.context(ctx))
	if err != nil {
		return "", fmt.Errorf("client credentials grant: %w", err)
	}

	if a.cache != nil && !token.Expiry.IsZero() {
		ttl := time.Until(token.Expiry) - time.Minute
		if ttl > 0 {
			if err := a.cache.Set(ctx, clientTokenCacheKey, token.AccessToken, ttl); err != nil {
				log.Warn().Err(err).Msg("Failed to cache Spotify client token")
			}
		}
	}

	return token.AccessToken, nil
}
