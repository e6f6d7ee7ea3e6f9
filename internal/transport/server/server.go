package server

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/mizuki-f/topic-insight/internal/application"
	"github.com/mizuki-f/topic-insight/internal/transport/middleware"
	"github.com/mizuki-f/topic-insight/internal/transport/response"
)

// NewRouter builds the HTTP routes for an already-wired application
func NewRouter(app *application.Application) *mux.Router {
	auth := middleware.Auth(app.Config.AuthToken)

	router := mux.NewRouter()
	router.Handle("/analyze", auth(app.AnalyzeHandler)).Methods(http.MethodPost)
	router.Handle("/sources", auth(app.SourcesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return router
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateHandler creates the main HTTP handler for the application
func CreateHandler() (http.Handler, func(), error) {
	app, err := application.New(context.Background())
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}

	cleanup := func() {
		app.Close()
	}

	return NewRouter(app), cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, cleanup, err := CreateHandler()
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
