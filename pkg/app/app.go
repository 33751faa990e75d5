package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/config"
	"github.com/travigo/relay/pkg/database"
	"github.com/travigo/relay/pkg/freecodecamp"
	"github.com/travigo/relay/pkg/metrics"
	"github.com/travigo/relay/pkg/redis_client"
	"github.com/travigo/relay/pkg/rmv"
	"github.com/travigo/relay/pkg/spotify"
)

// App is the shared state handed to every router. Nothing in the handlers reads globals
type App struct {
	Config *config.Config

	Stations *rmv.Directory
	Planner  *rmv.Planner
	Spotify  *spotify.Service

	Shortener *freecodecamp.Shortener
	Tracker   *freecodecamp.Tracker

	Now func() time.Time

	redis *redis.Client
	mongo *database.MongoInstance
}

// New loads the station directory and connects the optional backing stores
func New(cfg *config.Config) (*App, error) {
	stations, err := rmv.LoadDirectory(cfg.StationsFile)
	if err != nil {
		return nil, err
	}

	redisClient, err := redis_client.Connect(cfg.Redis)
	if err != nil {
		return nil, err
	}

	mongoInstance, err := database.ConnectMongoDB(cfg.MongoDB)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}

	var shortcutStore freecodecamp.ShortcutStore = freecodecamp.NewMemoryShortcutStore()
	if mongoInstance != nil {
		shortcutStore = freecodecamp.NewMongoShortcutStore(mongoInstance)
	}

	var tokenCache spotify.TokenCache
	if redisClient != nil {
		tokenCache = spotify.NewRedisTokenCache(redisClient)
	}

	application := Build(cfg, stations, tokenCache, shortcutStore)
	application.redis = redisClient
	application.mongo = mongoInstance

	return application, nil
}

// Build wires the services from already constructed dependencies
func Build(cfg *config.Config, stations *rmv.Directory, tokenCache spotify.TokenCache, shortcutStore freecodecamp.ShortcutStore) *App {
	rmvHTTPClient := metrics.NewHTTPClient("rmv")
	spotifyHTTPClient := metrics.NewHTTPClient("spotify")

	return &App{
		Config:   cfg,
		Stations: stations,
		Planner: &rmv.Planner{
			Directory: stations,
			Fetcher: &rmv.Client{
				BaseURL:    cfg.RMVEndpoint,
				AccessID:   cfg.RMVAccessID,
				HTTPClient: rmvHTTPClient,
			},
		},
		Spotify: &spotify.Service{
			Auth: spotify.NewAuthenticator(spotify.AuthOptions{
				ClientID:         cfg.SpotifyClientID,
				ClientSecret:     cfg.SpotifyClientSecret,
				AccountsEndpoint: cfg.SpotifyAccountsEndpoint,
				RedirectURL:      cfg.SpotifyCallbackURL(),
				HTTPClient:       spotifyHTTPClient,
				Cache:            tokenCache,
			}),
			Client: &spotify.Client{
				BaseURL:    cfg.SpotifyAPIEndpoint,
				HTTPClient: spotifyHTTPClient,
				MaxPages:   spotify.DefaultMaxPages,
			},
			Tokens: spotify.NewTokenStore(cfg.RefreshTokenFile),
		},
		Shortener: freecodecamp.NewShortener(shortcutStore),
		Tracker:   freecodecamp.NewTracker(),
		Now:       time.Now,
	}
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")
		}
	}

	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.mongo.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect MongoDB")
		}
	}
}
