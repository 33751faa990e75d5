package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/relay/pkg/app/apptest"
	"github.com/travigo/relay/pkg/freecodecamp"
)

func TestServer(t *testing.T) {
	for _, c := range apptest.Cases() {
		t.Run(c.Name, func(t *testing.T) {
			application := apptest.NewApp(t, c.RefreshToken)
			if c.Setup != nil {
				c.Setup(t, application)
			}

			response, err := NewServer(application).Test(c.Request(), -1)
			require.NoError(t, err)
			defer response.Body.Close()

			c.Check(t, response)
		})
	}
}

func TestServerRequestID(t *testing.T) {
	application := apptest.NewApp(t, false)
	webApp := NewServer(application)

	c := apptest.Case{Path: "/api/rmv/v1"}
	request := c.Request()
	request.Header.Set(requestIDHeader, "fixed-id")

	response, err := webApp.Test(request, -1)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", response.Header.Get(requestIDHeader))

	response, err = webApp.Test(c.Request(), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, response.Header.Get(requestIDHeader))
}

func TestServerIndexReportsMissingGroup(t *testing.T) {
	application := apptest.NewApp(t, false)
	webApp := NewServer(application)

	assert.True(t, mounted(webApp, "/api/rmv/"))
	assert.False(t, mounted(webApp, "/api/weather/"))
}

func TestServerKeepsFormValuesAcrossRequests(t *testing.T) {
	application := apptest.NewApp(t, false)
	webApp := NewServer(application)

	post := func(path string, body string) {
		c := apptest.Case{Method: http.MethodPost, Path: path, Body: body, ContentType: "application/x-www-form-urlencoded"}
		response, err := webApp.Test(c.Request(), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, response.StatusCode)
	}

	post("/api/freecodecamp/v1/users", "username=alice")
	alice := application.Tracker.Users()[0]
	post("/api/freecodecamp/v1/users/"+alice.ID+"/exercises", "description=morning+run&duration=30&date=2023-01-05")
	post("/api/freecodecamp/v1/shorturl", "url=https%3A%2F%2Fwww.freecodecamp.org")

	for i := 0; i < 50; i++ {
		post("/api/freecodecamp/v1/users", fmt.Sprintf("username=zz%03d", i))
		post("/api/freecodecamp/v1/shorturl", fmt.Sprintf("url=https%%3A%%2F%%2Fexample%03d.org", i))
	}

	users := application.Tracker.Users()
	require.Len(t, users, 51)
	assert.Equal(t, "alice", users[0].Username)

	exerciseLog, err := application.Tracker.Logs(alice.ID, freecodecamp.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, "morning run", exerciseLog.Log[0].Description)

	original, err := application.Shortener.Resolve(context.Background(), freecodecamp.HashURL("https://www.freecodecamp.org"))
	require.NoError(t, err)
	assert.Equal(t, "https://www.freecodecamp.org", original)

	c := apptest.Case{
		Path:     "/api/freecodecamp/v1/users",
		Status:   http.StatusOK,
		Contains: []string{`"username":"alice"`, `"username":"zz049"`},
	}
	response, err := webApp.Test(c.Request(), -1)
	require.NoError(t, err)
	c.Check(t, response)
}
