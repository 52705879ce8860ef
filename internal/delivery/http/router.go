package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"cityevents/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	eventController *controllers.EventController,
	adminEventController *controllers.AdminEventController,
	requestController *controllers.RequestController,
	publicEventController *controllers.PublicEventController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Admin
	mux.HandleFunc("POST /admin/users", userController.CreateUser)
	mux.HandleFunc("GET /admin/users", userController.ListUsers)
	mux.HandleFunc("DELETE /admin/users/{userID}", userController.DeleteUser)
	mux.HandleFunc("POST /admin/categories", categoryController.CreateCategory)
	mux.HandleFunc("PATCH /admin/categories/{catID}", categoryController.UpdateCategory)
	mux.HandleFunc("DELETE /admin/categories/{catID}", categoryController.DeleteCategory)
	mux.HandleFunc("GET /admin/events", adminEventController.SearchEvents)
	mux.HandleFunc("PATCH /admin/events/{eventID}", adminEventController.UpdateEvent)

	// Initiator
	mux.HandleFunc("POST /users/{userID}/events", eventController.CreateEvent)
	mux.HandleFunc("GET /users/{userID}/events", eventController.GetOwnEvents)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}", eventController.GetOwnEvent)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}", eventController.UpdateOwnEvent)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}/requests", eventController.ListEventRequests)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests", eventController.ChangeRequestStatuses)

	// Requester
	mux.HandleFunc("GET /users/{userID}/requests", requestController.GetOwnRequests)
	mux.HandleFunc("POST /users/{userID}/requests", requestController.SubmitRequest)
	mux.HandleFunc("PATCH /users/{userID}/requests/{requestID}/cancel", requestController.CancelRequest)

	// Public
	mux.HandleFunc("GET /events", publicEventController.SearchEvents)
	mux.HandleFunc("GET /events/{eventID}", publicEventController.GetEvent)
	mux.HandleFunc("GET /categories", categoryController.ListCategories)
	mux.HandleFunc("GET /categories/{catID}", categoryController.GetCategory)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
