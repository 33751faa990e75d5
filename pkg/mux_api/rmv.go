package mux_api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/rmv"
)

func rmvRouter(router *mux.Router, application *app.App) {
	versionRoutes(router)

	router.HandleFunc("/v1/stations/search/name", searchStationsByName(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/stations/search/id", getStationByID(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/stations/search/id/{id}", getStationByID(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/trip", planTrip(application)).Methods(http.MethodGet)
}

func searchStationsByName(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := application.Stations.FindByNameQuery(r.URL.Query().Get("query"))
		if errors.Is(err, rmv.ErrEmptyQuery) {
			writeMessage(w, http.StatusBadRequest, "No query provided")
			return
		}

		writeJSON(w, http.StatusOK, stations)
	}
}

func getStationByID(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if id == "" {
			writeMessage(w, http.StatusBadRequest, "No id provided")
			return
		}

		station, err := application.Stations.FindByID(id)
		if err != nil {
			writeMessage(w, http.StatusNotFound, "Station not found")
			return
		}

		writeJSON(w, http.StatusOK, station)
	}
}

func planTrip(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		ways, err := application.Planner.Plan(r.Context(), rmv.TripQuery{
			OriginID:      query.Get("originId"),
			DestinationID: query.Get("destId"),
			Time:          query.Get("time"),
			Date:          query.Get("date"),
		})
		if err != nil {
			sendError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ways)
	}
}
