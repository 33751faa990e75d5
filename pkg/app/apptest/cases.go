package apptest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/relay/pkg/app"
)

type Case struct {
	Name         string
	RefreshToken bool
	Setup        func(t *testing.T, application *app.App)

	Method      string
	Path        string
	Body        string
	ContentType string
	Headers     map[string]string

	Status           int
	JSON             string
	Contains         []string
	NotContains      []string
	LocationContains string
}

func (c Case) Request() *http.Request {
	var body io.Reader
	if c.Body != "" {
		body = bytes.NewBufferString(c.Body)
	}

	method := c.Method
	if method == "" {
		method = http.MethodGet
	}

	request := httptest.NewRequest(method, c.Path, body)
	if c.ContentType != "" {
		request.Header.Set("Content-Type", c.ContentType)
	}
	for key, value := range c.Headers {
		request.Header.Set(key, value)
	}

	return request
}

// Check asserts the response matches the case
func (c Case) Check(t *testing.T, response *http.Response) {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	assert.Equal(t, c.Status, response.StatusCode, string(body))

	if c.JSON != "" {
		assert.JSONEq(t, c.JSON, string(body))
	}
	for _, expected := range c.Contains {
		assert.Contains(t, string(body), expected)
	}
	for _, unexpected := range c.NotContains {
		assert.NotContains(t, string(body), unexpected)
	}
	if c.LocationContains != "" {
		assert.Contains(t, response.Header.Get("Location"), c.LocationContains)
	}
}

func sha256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func upload() (string, string) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="upfile"; filename="hello.txt"`)
	header.Set("Content-Type", "text/plain")

	part, _ := writer.CreatePart(header)
	part.Write([]byte("hello world"))
	writer.Close()

	return buffer.String(), writer.FormDataContentType()
}

func emptyUpload() (string, string) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	writer.WriteField("other", "value")
	writer.Close()

	return buffer.String(), writer.FormDataContentType()
}

func addRunner(t *testing.T, application *app.App) {
	_, err := application.Tracker.AddUser("runner")
	require.NoError(t, err)
}

const form = "application/x-www-form-urlencoded"

// Cases returns the request table shared by the HTTP surface tests
func Cases() []Case {
	uploadBody, uploadType := upload()
	emptyBody, emptyType := emptyUpload()
	runnerID := sha256Hex("runner")
	shortHash := sha256Hex("https://www.freecodecamp.org")

	return []Case{
		// Index and fallbacks
		{Name: "api index", Path: "/api", Status: 200, JSON: `[
			{"route": "/api/rmv", "status": "available"},
			{"route": "/api/spotify", "status": "available"},
			{"route": "/api/freecodecamp", "status": "available"}
		]`},
		{Name: "route listing", Path: "/", Status: 200, Contains: []string{"/api/rmv/v1/trip", "/api/spotify/v1/auth/login"}},
		{Name: "unknown route", Path: "/does/not/exist", Status: 404, JSON: `{"message": "404 Not Found"}`},
		{Name: "metrics", Path: "/metrics", Status: 200, Contains: []string{"go_goroutines"}},

		// RMV
		{Name: "rmv redirect", Path: "/api/rmv", Status: 302, LocationContains: "/api/rmv/v1"},
		{Name: "rmv version", Path: "/api/rmv/v1", Status: 200, JSON: `{"message": "API v1"}`},
		{
			Name:        "station name search",
			Path:        "/api/rmv/v1/stations/search/name?query=frankfurt%20haupt",
			Status:      200,
			Contains:    []string{`"hafasId":"3000010"`, `"hafasId":"3000001"`},
			NotContains: []string{`"hafasId":"3004734"`},
		},
		{Name: "station name search no match", Path: "/api/rmv/v1/stations/search/name?query=kassel", Status: 200, JSON: `[]`},
		{Name: "station name search without query", Path: "/api/rmv/v1/stations/search/name", Status: 400, JSON: `{"message": "No query provided"}`},
		{Name: "station by id", Path: "/api/rmv/v1/stations/search/id/3004734", Status: 200, Contains: []string{`"nameFahrPlan":"Wiesbaden Hauptbahnhof"`}},
		{Name: "station by unknown id", Path: "/api/rmv/v1/stations/search/id/42", Status: 404, JSON: `{"message": "Station not found"}`},
		{Name: "station by empty id", Path: "/api/rmv/v1/stations/search/id", Status: 400, JSON: `{"message": "No id provided"}`},
		{Name: "trip missing ids", Path: "/api/rmv/v1/trip?originId=3000010", Status: 400, JSON: `{"message": "No origin or destination id provided"}`},
		{Name: "trip same ids", Path: "/api/rmv/v1/trip?originId=3000010&destId=3000010", Status: 400, JSON: `{"message": "Origin and destination are the same"}`},
		{Name: "trip unknown station", Path: "/api/rmv/v1/trip?originId=3000010&destId=1", Status: 400, JSON: `{"message": "Origin or destination is invalid"}`},
		{Name: "trip bad time", Path: "/api/rmv/v1/trip?originId=3000010&destId=3004734&time=24:00", Status: 400, JSON: `{"message": "Time format is incorrect"}`},
		{Name: "trip bad date", Path: "/api/rmv/v1/trip?originId=3000010&destId=3004734&date=21.12.2022", Status: 400, JSON: `{"message": "Date format is incorrect"}`},
		{
			Name:     "trip",
			Path:     "/api/rmv/v1/trip?originId=3000010&destId=3004734&time=08:00&date=2022-12-21",
			Status:   200,
			Contains: []string{`"using":"S 8"`, `"durationMinutes":45`, `"departureTime":"08:00:00"`},
		},
		{Name: "trip upstream failure", Path: "/api/rmv/v1/trip?originId=3006907&destId=3004734", Status: 500, JSON: `{"message": "RMV API is not available"}`},

		// Spotify
		{Name: "spotify version", Path: "/api/spotify/v1", Status: 200, JSON: `{"message": "API v1"}`},
		{Name: "login redirects to spotify", Path: "/api/spotify/v1/auth/login", Status: 302, LocationContains: "/authorize?client_id=client-id"},
		{Name: "login with stored token", RefreshToken: true, Path: "/api/spotify/v1/auth/login", Status: 302, LocationContains: ServerAddress + "/api/spotify/v1/auth/callback"},
		{Name: "callback without code", Path: "/api/spotify/v1/auth/callback?state=abc", Status: 400, JSON: `{"message": "Missing state or code"}`},
		{Name: "callback bad code", Path: "/api/spotify/v1/auth/callback?state=abc&code=bad", Status: 500, JSON: `{"message": "Failed to get refresh token"}`},
		{Name: "callback", Path: "/api/spotify/v1/auth/callback?state=abc&code=good-code", Status: 200, JSON: `{"message": "Successfully got a refresh token"}`},
		{Name: "callback with stored token", RefreshToken: true, Path: "/api/spotify/v1/auth/callback", Status: 200, JSON: `{"message": "Refresh token already exists"}`},
		{Name: "playlist tracks", Path: "/api/spotify/v1/get/tracks/list", Status: 200, JSON: `["spotify:track:0", "spotify:track:1", "spotify:track:2"]`},
		{Name: "playlist tracks empty", Path: "/api/spotify/v1/get/tracks/empty", Status: 500, JSON: `{"message": "Could not get tracks"}`},
		{Name: "create playlist without token", Path: "/api/spotify/v1/playlist/create", Status: 500, JSON: `{"message": "No refresh token found"}`},
		{
			Name:         "create playlist",
			RefreshToken: true,
			Path:         "/api/spotify/v1/playlist/create",
			Status:       200,
			JSON:         `{"id": "new-playlist", "url": "https://open.spotify.com/playlist/new-playlist"}`,
		},
		{
			Name:         "insert tracks",
			RefreshToken: true,
			Method:       http.MethodPost,
			Path:         "/api/spotify/v1/playlist/insert/target",
			Body:         `{"uris": ["spotify:track:1"]}`,
			ContentType:  "application/json",
			Status:       201,
			JSON:         `{"message": "Tracks inserted"}`,
		},
		{
			Name:         "insert tracks without uris",
			RefreshToken: true,
			Method:       http.MethodPost,
			Path:         "/api/spotify/v1/playlist/insert/target",
			Body:         `{"uris": []}`,
			ContentType:  "application/json",
			Status:       400,
			JSON:         `{"message": "A non-empty list of track uris is required"}`,
		},
		{
			Name:         "remove tracks",
			RefreshToken: true,
			Method:       http.MethodPost,
			Path:         "/api/spotify/v1/playlist/remove/target",
			Body:         `{"uris": ["spotify:track:1"]}`,
			ContentType:  "application/json",
			Status:       200,
			JSON:         `{"message": "Tracks removed"}`,
		},
		{
			Name:        "remove tracks without token",
			Method:      http.MethodPost,
			Path:        "/api/spotify/v1/playlist/remove/target",
			Body:        `{"uris": ["spotify:track:1"]}`,
			ContentType: "application/json",
			Status:      500,
			JSON:        `{"message": "No refresh token found"}`,
		},

		// freeCodeCamp
		{Name: "freecodecamp redirect", Path: "/api/freecodecamp", Status: 302, LocationContains: "/api/freecodecamp/v1"},
		{Name: "timestamp now", Path: "/api/freecodecamp/v1/timestamp", Status: 200, JSON: `{"unix": 1677906367000, "utc": "Sat, 04 Mar 2023 05:06:07 GMT"}`},
		{Name: "timestamp date", Path: "/api/freecodecamp/v1/timestamp/2015-12-25", Status: 200, JSON: `{"unix": 1451001600000, "utc": "Fri, 25 Dec 2015 00:00:00 GMT"}`},
		{Name: "timestamp unix", Path: "/api/freecodecamp/v1/timestamp/1451001600000", Status: 200, JSON: `{"unix": 1451001600000, "utc": "Fri, 25 Dec 2015 00:00:00 GMT"}`},
		{Name: "timestamp invalid", Path: "/api/freecodecamp/v1/timestamp/not-a-date", Status: 400, JSON: `{"error": "Invalid Date"}`},
		{
			Name:    "whoami",
			Path:    "/api/freecodecamp/v1/whoami",
			Headers: map[string]string{"CF-Connecting-IP": "203.0.113.9", "Accept-Language": "de-DE", "User-Agent": "relay-test"},
			Status:  200,
			JSON:    `{"ipaddress": "203.0.113.9", "language": "de-DE", "software": "relay-test"}`,
		},
		{
			Name:        "shorten url",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/shorturl",
			Body:        "url=https%3A%2F%2Fwww.freecodecamp.org",
			ContentType: form,
			Status:      200,
			JSON:        `{"original_url": "https://www.freecodecamp.org", "short_url": "` + shortHash + `"}`,
		},
		{
			Name:        "shorten json body",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/shorturl",
			Body:        `{"url": "https://www.freecodecamp.org"}`,
			ContentType: "application/json",
			Status:      200,
			JSON:        `{"original_url": "https://www.freecodecamp.org", "short_url": "` + shortHash + `"}`,
		},
		{
			Name:        "shorten invalid url",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/shorturl",
			Body:        "url=ftp%3A%2F%2Fexample.invalid",
			ContentType: form,
			Status:      200,
			JSON:        `{"error": "Invalid URL"}`,
		},
		{
			Name: "resolve short url",
			Setup: func(t *testing.T, application *app.App) {
				_, err := application.Shortener.Shorten(context.Background(), "https://www.freecodecamp.org")
				require.NoError(t, err)
			},
			Path:             "/api/freecodecamp/v1/shorturl/" + shortHash,
			Status:           302,
			LocationContains: "https://www.freecodecamp.org",
		},
		{Name: "resolve unknown short url", Path: "/api/freecodecamp/v1/shorturl/abc", Status: 200, JSON: `{"error": "Shortcut for this hashed URL not found"}`},
		{
			Name:        "create user",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/users",
			Body:        "username=runner",
			ContentType: form,
			Status:      200,
			JSON:        `{"_id": "` + runnerID + `", "username": "runner"}`,
		},
		{Name: "create user without name", Method: http.MethodPost, Path: "/api/freecodecamp/v1/users", Body: "username=", ContentType: form, Status: 400, JSON: `{"error": "Username is required"}`},
		{Name: "list users", Setup: addRunner, Path: "/api/freecodecamp/v1/users", Status: 200, JSON: `[{"_id": "` + runnerID + `", "username": "runner"}]`},
		{
			Name:        "add exercise",
			Setup:       addRunner,
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/users/" + runnerID + "/exercises",
			Body:        "description=run&duration=30&date=2023-01-05",
			ContentType: form,
			Status:      200,
			JSON:        `{"_id": "` + runnerID + `", "username": "runner", "description": "run", "duration": 30, "date": "Thu Jan 05 2023"}`,
		},
		{
			Name:        "add exercise unknown user",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/users/nobody/exercises",
			Body:        "description=run&duration=30",
			ContentType: form,
			Status:      404,
			JSON:        `{"error": "User not found"}`,
		},
		{
			Name:        "add exercise without duration",
			Setup:       addRunner,
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/users/" + runnerID + "/exercises",
			Body:        "description=run",
			ContentType: form,
			Status:      400,
			JSON:        `{"error": "Description and duration are required"}`,
		},
		{
			Name:        "add exercise with numeric json duration",
			Setup:       addRunner,
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/users/" + runnerID + "/exercises",
			Body:        `{"description": "run", "duration": 30}`,
			ContentType: "application/json",
			Status:      400,
			JSON:        `{"error": "Description and duration are required"}`,
		},
		{
			Name:        "create user with unreadable body",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/users",
			Body:        `{"username": `,
			ContentType: "application/json",
			Status:      400,
			JSON:        `{"error": "Username is required"}`,
		},
		{
			Name: "exercise log",
			Setup: func(t *testing.T, application *app.App) {
				addRunner(t, application)
				for _, date := range []string{"2023-01-01", "2023-01-03", "2023-01-05"} {
					_, err := application.Tracker.AddExercise(runnerID, "run", "10", date)
					require.NoError(t, err)
				}
			},
			Path:   "/api/freecodecamp/v1/users/" + runnerID + "/logs?from=2023-01-02&limit=1",
			Status: 200,
			JSON:   `{"_id": "` + runnerID + `", "username": "runner", "count": 3, "log": [{"description": "run", "duration": 10, "date": "Tue Jan 03 2023"}]}`,
		},
		{Name: "exercise log bad limit", Setup: addRunner, Path: "/api/freecodecamp/v1/users/" + runnerID + "/logs?limit=many", Status: 400, JSON: `{"error": "Invalid limit"}`},
		{Name: "exercise log unknown user", Path: "/api/freecodecamp/v1/users/nobody/logs", Status: 404, JSON: `{"error": "User not found"}`},
		{Name: "file upload form", Path: "/api/freecodecamp/v1/file-metadata", Status: 200, Contains: []string{`action="/api/freecodecamp/v1/file-metadata/fileanalyse"`, `name="upfile"`}},
		{
			Name:        "file analyse",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/file-metadata/fileanalyse",
			Body:        uploadBody,
			ContentType: uploadType,
			Status:      200,
			JSON:        `{"name": "hello.txt", "type": "text/plain", "size": 11}`,
		},
		{
			Name:        "file analyse without file",
			Method:      http.MethodPost,
			Path:        "/api/freecodecamp/v1/file-metadata/fileanalyse",
			Body:        emptyBody,
			ContentType: emptyType,
			Status:      400,
			JSON:        `{"error": "File is required"}`,
		},
	}
}
