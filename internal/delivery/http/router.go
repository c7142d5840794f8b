package http

import (
	"io"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"socialevents/internal/delivery/http/controllers"
)

// HealthMessage is the plain-text body served at GET /.
const HealthMessage = "Social Development Events Server is Running!"

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, participationController *controllers.ParticipationController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", health)

	// Events
	mux.HandleFunc("POST /api/events", eventController.CreateEvent)
	mux.HandleFunc("GET /api/events", eventController.ListEvents)
	mux.HandleFunc("GET /api/events/upcoming", eventController.ListUpcomingEvents)
	mux.HandleFunc("GET /api/events/organizer/{email}", eventController.ListEventsByOrganizer)
	mux.HandleFunc("GET /api/events/{id}", eventController.GetEventByID)
	mux.HandleFunc("PUT /api/events/{id}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /api/events/{id}", eventController.DeleteEvent)

	// Participation
	mux.HandleFunc("POST /api/join-event", participationController.JoinEvent)
	mux.HandleFunc("GET /api/joined-events/{email}", participationController.ListJoinedEvents)
	mux.HandleFunc("GET /api/join-records/{email}", participationController.ListJoinRecords)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, HealthMessage)
}
