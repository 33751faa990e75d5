package mux_api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/relay/pkg/app/apptest"
)

func serve(handler http.Handler, request *http.Request) *http.Response {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder.Result()
}

func TestServer(t *testing.T) {
	for _, c := range apptest.Cases() {
		t.Run(c.Name, func(t *testing.T) {
			application := apptest.NewApp(t, c.RefreshToken)
			if c.Setup != nil {
				c.Setup(t, application)
			}

			response := serve(NewLogger(NewRouter(application)), c.Request())
			defer response.Body.Close()

			c.Check(t, response)
		})
	}
}

func TestServerRequestID(t *testing.T) {
	handler := NewLogger(NewRouter(apptest.NewApp(t, false)))

	c := apptest.Case{Path: "/api/rmv/v1"}
	request := c.Request()
	request.Header.Set(requestIDHeader, "fixed-id")

	assert.Equal(t, "fixed-id", serve(handler, request).Header.Get(requestIDHeader))
	assert.NotEmpty(t, serve(handler, c.Request()).Header.Get(requestIDHeader))
}

func TestServerWrongMethodIsNotFound(t *testing.T) {
	handler := NewLogger(NewRouter(apptest.NewApp(t, false)))

	c := apptest.Case{Method: http.MethodDelete, Path: "/api/rmv/v1/trip", Status: 404, JSON: `{"message": "404 Not Found"}`}
	c.Check(t, serve(handler, c.Request()))
}

func TestClientIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "198.51.100.7:5555"
	assert.Equal(t, "198.51.100.7", ClientIP(request))

	request.Header.Set("CF-Connecting-IP", "203.0.113.1")
	assert.Equal(t, "203.0.113.1", ClientIP(request))
}
