package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

// Field length bounds for event text fields.
const (
	minAnnotationLen  = 20
	maxAnnotationLen  = 2000
	minDescriptionLen = 20
	maxDescriptionLen = 7000
	minTitleLen       = 3
	maxTitleLen       = 120
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// LocationRequest is the location object in event request bodies.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewEventRequest is the request body for POST /users/{userID}/events.
type NewEventRequest struct {
	Annotation        string          `json:"annotation"`
	CategoryID        string          `json:"category"`
	Description       string          `json:"description"`
	EventDate         time.Time       `json:"event_date"`
	Location          LocationRequest `json:"location"`
	Paid              bool            `json:"paid"`
	ParticipantLimit  int             `json:"participant_limit"`
	RequestModeration *bool           `json:"request_moderation"`
	Title             string          `json:"title"`
}

// Validate implements helpers.Validator.
func (r *NewEventRequest) Validate() []string {
	var errs []string
	if n := len(strings.TrimSpace(r.Annotation)); n < minAnnotationLen || n > maxAnnotationLen {
		errs = append(errs, fmt.Sprintf("annotation must be %d to %d characters", minAnnotationLen, maxAnnotationLen))
	}
	if r.CategoryID == "" {
		errs = append(errs, "category is required")
	}
	if n := len(strings.TrimSpace(r.Description)); n < minDescriptionLen || n > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be %d to %d characters", minDescriptionLen, maxDescriptionLen))
	}
	if r.EventDate.IsZero() {
		errs = append(errs, "event_date is required")
	}
	if n := len(strings.TrimSpace(r.Title)); n < minTitleLen || n > maxTitleLen {
		errs = append(errs, fmt.Sprintf("title must be %d to %d characters", minTitleLen, maxTitleLen))
	}
	if r.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	return errs
}

// EventSuccessResponse is the response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.EventWithStats `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// EventListSuccessResponse is the response envelope for event list endpoints.
type EventListSuccessResponse struct {
	Data  []*domain.EventWithStats `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event in the PENDING state. The event date must be at least two hours in the future.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path string true "Initiator ID"
// @Param body body controllers.NewEventRequest true "Event fields"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}

	var req NewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}
	event := domain.NewEvent(req.Annotation, req.Description, req.Title,
		req.CategoryID, userID,
		domain.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
		req.EventDate, req.Paid, req.ParticipantLimit, moderation, time.Now())

	created, err := c.Service.CreateEvent(r.Context(), userID, event)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// GetOwnEvents godoc
// @Summary List events created by a user
// @Tags events
// @Produce json
// @Param userID path string true "Initiator ID"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events [get]
func (c *EventController) GetOwnEvents(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	from, size := helpers.ParseFromSize(r)

	events, err := c.Service.GetOwnEvents(r.Context(), userID, from, size)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetOwnEvent godoc
// @Summary Get one of the user's own events
// @Tags events
// @Produce json
// @Param userID path string true "Initiator ID"
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [get]
func (c *EventController) GetOwnEvent(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	eventID := r.PathValue("eventID")
	if userID == "" || eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID or eventID")
		return
	}

	event, err := c.Service.GetOwnEvent(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventUserRequest is the request body for PATCH /users/{userID}/events/{eventID}.
type UpdateEventUserRequest struct {
	Annotation        *string          `json:"annotation"`
	CategoryID        *string          `json:"category"`
	Description       *string          `json:"description"`
	EventDate         *time.Time       `json:"event_date"`
	Location          *LocationRequest `json:"location"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int             `json:"participant_limit"`
	RequestModeration *bool            `json:"request_moderation"`
	Title             *string          `json:"title"`
	StateAction       *string          `json:"state_action"`
}

// Validate implements helpers.Validator.
func (r *UpdateEventUserRequest) Validate() []string {
	errs := validatePatchFields(r.Annotation, r.Description, r.Title, r.ParticipantLimit)
	if r.StateAction != nil {
		switch domain.InitiatorStateAction(*r.StateAction) {
		case domain.ActionSendToReview, domain.ActionCancelReview:
		default:
			errs = append(errs, "state_action must be SEND_TO_REVIEW or CANCEL_REVIEW")
		}
	}
	return errs
}

func (r *UpdateEventUserRequest) patch() domain.EventPatch {
	p := domain.EventPatch{
		Annotation:        r.Annotation,
		CategoryID:        r.CategoryID,
		Description:       r.Description,
		EventDate:         r.EventDate,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		Title:             r.Title,
	}
	if r.Location != nil {
		p.Location = &domain.Location{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	return p
}

func validatePatchFields(annotation, description, title *string, participantLimit *int) []string {
	var errs []string
	if annotation != nil {
		if n := len(strings.TrimSpace(*annotation)); n < minAnnotationLen || n > maxAnnotationLen {
			errs = append(errs, fmt.Sprintf("annotation must be %d to %d characters", minAnnotationLen, maxAnnotationLen))
		}
	}
	if description != nil {
		if n := len(strings.TrimSpace(*description)); n < minDescriptionLen || n > maxDescriptionLen {
			errs = append(errs, fmt.Sprintf("description must be %d to %d characters", minDescriptionLen, maxDescriptionLen))
		}
	}
	if title != nil {
		if n := len(strings.TrimSpace(*title)); n < minTitleLen || n > maxTitleLen {
			errs = append(errs, fmt.Sprintf("title must be %d to %d characters", minTitleLen, maxTitleLen))
		}
	}
	if participantLimit != nil && *participantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	return errs
}

// UpdateOwnEvent godoc
// @Summary Update one of the user's own events
// @Description Edits event fields and optionally applies SEND_TO_REVIEW or CANCEL_REVIEW. Published events cannot be edited.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path string true "Initiator ID"
// @Param eventID path string true "Event ID"
// @Param body body controllers.UpdateEventUserRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID} [patch]
func (c *EventController) UpdateOwnEvent(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	eventID := r.PathValue("eventID")
	if userID == "" || eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID or eventID")
		return
	}

	var req UpdateEventUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	var action *domain.InitiatorStateAction
	if req.StateAction != nil {
		a := domain.InitiatorStateAction(*req.StateAction)
		action = &a
	}

	event, err := c.Service.UpdateOwnEvent(r.Context(), userID, eventID, req.patch(), action)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// RequestListSuccessResponse is the response envelope for participation request lists.
type RequestListSuccessResponse struct {
	Data  []*domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// ListEventRequests godoc
// @Summary List participation requests for the user's event
// @Tags events
// @Produce json
// @Param userID path string true "Initiator ID"
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [get]
func (c *EventController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	eventID := r.PathValue("eventID")
	if userID == "" || eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID or eventID")
		return
	}

	requests, err := c.Service.ListEventRequests(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// ChangeRequestStatusesRequest is the request body for batch request moderation.
type ChangeRequestStatusesRequest struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status"`
}

// Validate implements helpers.Validator.
func (r *ChangeRequestStatusesRequest) Validate() []string {
	var errs []string
	if len(r.RequestIDs) == 0 {
		errs = append(errs, "request_ids is required")
	}
	switch domain.RequestStatus(r.Status) {
	case domain.RequestStatusConfirmed, domain.RequestStatusRejected:
	default:
		errs = append(errs, "status must be CONFIRMED or REJECTED")
	}
	return errs
}

// StatusUpdateSuccessResponse is the response envelope for batch request moderation.
type StatusUpdateSuccessResponse struct {
	Data  *domain.StatusUpdateResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ChangeRequestStatuses godoc
// @Summary Confirm or reject participation requests in batch
// @Description Confirms or rejects pending requests for the user's event. Confirming past the participant limit rejects the excess, and filling the last slot rejects all remaining pending requests.
// @Tags events
// @Accept json
// @Produce json
// @Param userID path string true "Initiator ID"
// @Param eventID path string true "Event ID"
// @Param body body controllers.ChangeRequestStatusesRequest true "Batch and target status"
// @Success 200 {object} controllers.StatusUpdateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/events/{eventID}/requests [patch]
func (c *EventController) ChangeRequestStatuses(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	eventID := r.PathValue("eventID")
	if userID == "" || eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID or eventID")
		return
	}

	var req ChangeRequestStatusesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.ChangeRequestStatuses(r.Context(), userID, eventID, domain.StatusUpdate{
		RequestIDs: req.RequestIDs,
		Status:     domain.RequestStatus(req.Status),
	})
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
