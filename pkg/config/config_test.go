package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredEnvironment() map[string]string {
	return map[string]string{
		"SERVER_ADDRESS":        "http://localhost:8080",
		"RMV_ACCESS_ID":         "rmv-access",
		"SPOTIFY_CLIENT_ID":     "client-id",
		"SPOTIFY_CLIENT_SECRET": "client-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithEnvironment("", requiredEnvironment())
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.APIRoute)
	assert.Equal(t, "data/rmv/stations.csv", cfg.StationsFile)
	assert.Equal(t, "refresh_token", cfg.RefreshTokenFile)
	assert.Equal(t, "https://www.rmv.de/hapi", cfg.RMVEndpoint)
	assert.Equal(t, "relay", cfg.MongoDB.Database)
	assert.Equal(t, "http://localhost:8080/api/spotify/v1/auth/callback", cfg.SpotifyCallbackURL())
}

func TestLoadMissingRequired(t *testing.T) {
	env := requiredEnvironment()
	delete(env, "RMV_ACCESS_ID")
	delete(env, "SPOTIFY_CLIENT_SECRET")

	_, err := LoadWithEnvironment("", env)
	require.Error(t, err)

	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{
		"Environment variable RMV_ACCESS_ID is not set",
		"Environment variable SPOTIFY_CLIENT_SECRET is not set",
	}, missing.Messages)
}

func TestLoadInvalidServerAddress(t *testing.T) {
	env := requiredEnvironment()
	env["SERVER_ADDRESS"] = "not a url"

	_, err := LoadWithEnvironment("", env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_ADDRESS is invalid")
}

func TestLoadFileWithEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	content := `
server_address: http://file.example
rmv_access_id: from-file
spotify_client_id: file-client
spotify_client_secret: file-secret
api_route: /v2/
redis:
  address: localhost:6379
  database: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithEnvironment(path, map[string]string{
		"RMV_ACCESS_ID":        "from-env",
		"RELAY_REDIS_DATABASE": "4",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://file.example", cfg.ServerAddress)
	assert.Equal(t, "from-env", cfg.RMVAccessID)
	assert.Equal(t, "/v2", cfg.APIRoute)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 4, cfg.Redis.Database)
}

func TestLoadBadRedisDatabase(t *testing.T) {
	env := requiredEnvironment()
	env["RELAY_REDIS_DATABASE"] = "zero"

	_, err := LoadWithEnvironment("", env)
	assert.ErrorContains(t, err, "RELAY_REDIS_DATABASE must be a number")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadWithEnvironment(filepath.Join(t.TempDir(), "nope.yml"), requiredEnvironment())
	assert.ErrorContains(t, err, "read config file")
}

func TestLoadEmptyEnvironmentKeepsDefaults(t *testing.T) {
	env := requiredEnvironment()
	env["RELAY_API_ROUTE"] = ""
	env["RELAY_REDIS_DATABASE"] = ""

	cfg, err := LoadWithEnvironment("", env)
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.APIRoute)
	assert.Equal(t, 0, cfg.Redis.Database)
}
