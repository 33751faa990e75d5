// Package mux_api serves the same API as the fiber server on net/http with a gorilla/mux router.
package mux_api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travigo/relay/pkg/app"
	"golang.org/x/exp/slices"
)

const bodyLimit = 16 * 1024 * 1024

func NewRouter(application *app.App) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(notFound)

	prefix := application.Config.APIRoute

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, registeredRoutes(router))
	}).Methods(http.MethodGet)

	router.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, application.GroupIndex(func(name string) bool {
			return mounted(router, prefix+"/"+name+"/")
		}))
	}).Methods(http.MethodGet)

	rmvRouter(router.PathPrefix(prefix+"/rmv").Subrouter(), application)
	spotifyRouter(router.PathPrefix(prefix+"/spotify").Subrouter(), application)
	freeCodeCampRouter(router.PathPrefix(prefix+"/freecodecamp").Subrouter(), application)

	return router
}

func NewServer(listen string, application *app.App) *http.Server {
	return &http.Server{
		Addr:              listen,
		Handler:           NewLogger(NewRouter(application)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func SetupServer(listen string, application *app.App) error {
	return NewServer(listen, application).ListenAndServe()
}

// versionRoutes sends the bare group path to the latest version
func versionRoutes(router *mux.Router) {
	redirect := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, strings.TrimSuffix(r.URL.Path, "/")+"/v1", http.StatusFound)
	}
	router.HandleFunc("", redirect).Methods(http.MethodGet)
	router.HandleFunc("/", redirect).Methods(http.MethodGet)

	router.HandleFunc("/v1", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "API v1")
	}).Methods(http.MethodGet)
}

type registeredRoute struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func registeredRoutes(router *mux.Router) []registeredRoute {
	list := []registeredRoute{}

	router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}

		for _, method := range methods {
			list = append(list, registeredRoute{Method: method, Path: path})
		}
		return nil
	})

	slices.SortStableFunc(list, func(a, b registeredRoute) int {
		return strings.Compare(a.Path, b.Path)
	})

	return list
}

func mounted(router *mux.Router, prefix string) bool {
	found := false

	router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if path, err := route.GetPathTemplate(); err == nil && strings.HasPrefix(path, prefix) {
			found = true
		}
		return nil
	})

	return found
}
