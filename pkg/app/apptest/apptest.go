// Package apptest builds an App against fake upstream services and holds the request cases
// that every HTTP surface must answer identically.
package apptest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/config"
	"github.com/travigo/relay/pkg/freecodecamp"
	"github.com/travigo/relay/pkg/rmv"
)

const (
	ServerAddress      = "http://relay.test"
	StoredRefreshToken = "stored-refresh"
)

var FixedNow = time.Date(2023, time.March, 4, 5, 6, 7, 0, time.UTC)

const stationsCSV = `hafasId;rmvId;nameFahrPlan;gemeindeName
3000010;3000010;Frankfurt (Main) Hauptbahnhof;Frankfurt am Main
3000001;3000001;Frankfurt (Main) Hauptwache;Frankfurt am Main
3004734;3004734;Wiesbaden Hauptbahnhof;Wiesbaden
3006907;3006907;Darmstadt Hauptbahnhof;Darmstadt
`

type staticResolver struct{}

func (staticResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if strings.HasSuffix(host, ".invalid") {
		return nil, errors.New("no such host")
	}

	return []string{"192.0.2.1"}, nil
}

// NewApp builds an App whose upstream calls all go to a local fake
func NewApp(t *testing.T, withRefreshToken bool) *app.App {
	t.Helper()

	upstream := newUpstream(t)
	dir := t.TempDir()

	tokenFile := filepath.Join(dir, "refresh_token")
	if withRefreshToken {
		require.NoError(t, os.WriteFile(tokenFile, []byte(StoredRefreshToken), 0o600))
	}

	cfg, err := config.LoadWithEnvironment("", map[string]string{
		"SERVER_ADDRESS":                  ServerAddress,
		"RMV_ACCESS_ID":                   "rmv-access",
		"SPOTIFY_CLIENT_ID":               "client-id",
		"SPOTIFY_CLIENT_SECRET":           "client-secret",
		"RELAY_REFRESH_TOKEN_FILE":        tokenFile,
		"RELAY_RMV_ENDPOINT":              upstream.URL,
		"RELAY_SPOTIFY_API_ENDPOINT":      upstream.URL + "/v1",
		"RELAY_SPOTIFY_ACCOUNTS_ENDPOINT": upstream.URL,
	})
	require.NoError(t, err)

	stations, err := rmv.ParseDirectory(strings.NewReader(stationsCSV))
	require.NoError(t, err)

	application := app.Build(cfg, stations, nil, freecodecamp.NewMemoryShortcutStore())
	application.Shortener.Resolver = staticResolver{}
	application.Now = func() time.Time { return FixedNow }

	return application
}
