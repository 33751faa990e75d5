package mux_api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/apperror"
	"github.com/travigo/relay/pkg/freecodecamp"
)

func freeCodeCampRouter(router *mux.Router, application *app.App) {
	versionRoutes(router)

	router.HandleFunc("/v1/timestamp", getTimestamp(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/timestamp/{date}", getTimestamp(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/whoami", whoAmI).Methods(http.MethodGet)

	router.HandleFunc("/v1/shorturl/{url}", resolveShortURL(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/shorturl", createShortURL(application)).Methods(http.MethodPost)

	router.HandleFunc("/v1/users", listExerciseUsers(application)).Methods(http.MethodGet)
	router.HandleFunc("/v1/users", createExerciseUser(application)).Methods(http.MethodPost)
	router.HandleFunc("/v1/users/{_id}/exercises", addExercise(application)).Methods(http.MethodPost)
	router.HandleFunc("/v1/users/{_id}/logs", getExerciseLog(application)).Methods(http.MethodGet)

	router.HandleFunc("/v1/file-metadata", fileUploadForm).Methods(http.MethodGet)
	router.HandleFunc("/v1/file-metadata/fileanalyse", analyseFile).Methods(http.MethodPost)
}

// bodyFields reads string fields from a JSON, urlencoded or multipart body. Unreadable bodies yield no fields
func bodyFields(w http.ResponseWriter, r *http.Request) map[string]string {
	fields := map[string]string{}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var decoded map[string]any
		if err := json.NewDecoder(r.Body).Decode(&decoded); err != nil {
			return fields
		}
		for key, value := range decoded {
			if text, ok := value.(string); ok {
				fields[key] = text
			}
		}
		return fields
	}

	if err := r.ParseMultipartForm(bodyLimit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fields
	}
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	return fields
}

func getTimestamp(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timestamp, err := freecodecamp.ParseTimestamp(mux.Vars(r)["date"], application.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, jsonMap{"error": "Invalid Date"})
			return
		}

		writeJSON(w, http.StatusOK, timestamp)
	}
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, freecodecamp.WhoAmI{
		IPAddress: ClientIP(r),
		Language:  r.Header.Get("Accept-Language"),
		Software:  r.UserAgent(),
	})
}

func resolveShortURL(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		original, err := application.Shortener.Resolve(r.Context(), mux.Vars(r)["url"])
		if errors.Is(err, freecodecamp.ErrShortcutNotFound) {
			writeJSON(w, http.StatusOK, jsonMap{"error": "Shortcut for this hashed URL not found"})
			return
		} else if err != nil {
			sendExerciseError(w, apperror.Internal("Could not read shortcut", err))
			return
		}

		http.Redirect(w, r, original, http.StatusFound)
	}
}

func createShortURL(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		short, err := application.Shortener.Shorten(r.Context(), bodyFields(w, r)["url"])
		if errors.Is(err, freecodecamp.ErrInvalidURL) {
			writeJSON(w, http.StatusOK, jsonMap{"error": "Invalid URL"})
			return
		} else if err != nil {
			sendExerciseError(w, apperror.Internal("Could not store shortcut", err))
			return
		}

		writeJSON(w, http.StatusOK, short)
	}
}

func listExerciseUsers(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, application.Tracker.Users())
	}
}

func createExerciseUser(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := application.Tracker.AddUser(bodyFields(w, r)["username"])
		if err != nil {
			sendExerciseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func addExercise(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := bodyFields(w, r)

		result, err := application.Tracker.AddExercise(mux.Vars(r)["_id"], fields["description"], fields["duration"], fields["date"])
		if err != nil {
			sendExerciseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func getExerciseLog(application *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		exerciseLog, err := application.Tracker.Logs(mux.Vars(r)["_id"], freecodecamp.LogFilter{
			From:  query.Get("from"),
			To:    query.Get("to"),
			Limit: query.Get("limit"),
		})
		if err != nil {
			sendExerciseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, exerciseLog)
	}
}

func fileUploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, freecodecamp.UploadForm(r.URL.Path+"/fileanalyse"))
}

func analyseFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	file, fileHeader, err := r.FormFile("upfile")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, jsonMap{"error": "File is required"})
		return
	}
	defer file.Close()

	head := make([]byte, 3072)
	n, _ := io.ReadFull(file, head)

	writeJSON(w, http.StatusOK, freecodecamp.DescribeFile(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, head[:n]))
}
