package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type AdminEventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewAdminEventController(logger *slog.Logger, svc domain.EventService) *AdminEventController {
	return &AdminEventController{
		Logger:  logger,
		Service: svc,
	}
}

// parseTimeParam parses an RFC 3339 query parameter. A missing value returns
// nil; a malformed one reports false.
func parseTimeParam(r *http.Request, name string) (*time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// SearchEvents godoc
// @Summary Search events across all states
// @Description Full moderator search over events with per-event confirmed counts and views.
// @Tags admin
// @Produce json
// @Param users query []string false "Initiator IDs"
// @Param states query []string false "Event states" Enums(PENDING, PUBLISHED, CANCELED)
// @Param categories query []string false "Category IDs"
// @Param rangeStart query string false "Earliest event date (RFC 3339)"
// @Param rangeEnd query string false "Latest event date (RFC 3339)"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *AdminEventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	from, size := helpers.ParseFromSize(r)

	rangeStart, ok := parseTimeParam(r, "rangeStart")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "rangeStart must be RFC 3339")
		return
	}
	rangeEnd, ok := parseTimeParam(r, "rangeEnd")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "rangeEnd must be RFC 3339")
		return
	}

	var states []domain.EventState
	for _, s := range r.URL.Query()["states"] {
		state := domain.EventState(s)
		switch state {
		case domain.EventStatePending, domain.EventStatePublished, domain.EventStateCanceled:
			states = append(states, state)
		default:
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown state "+s)
			return
		}
	}

	events, err := c.Service.SearchAdminEvents(r.Context(), domain.AdminEventSearch{
		UserIDs:     r.URL.Query()["users"],
		States:      states,
		CategoryIDs: r.URL.Query()["categories"],
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		From:        from,
		Size:        size,
	})
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateEventAdminRequest is the request body for PATCH /admin/events/{eventID}.
type UpdateEventAdminRequest struct {
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
func (r *UpdateEventAdminRequest) Validate() []string {
	errs := validatePatchFields(r.Annotation, r.Description, r.Title, r.ParticipantLimit)
	if r.StateAction != nil {
		switch domain.ModeratorStateAction(*r.StateAction) {
		case domain.ActionPublishEvent, domain.ActionRejectEvent:
		default:
			errs = append(errs, "state_action must be PUBLISH_EVENT or REJECT_EVENT")
		}
	}
	return errs
}

func (r *UpdateEventAdminRequest) patch() domain.EventPatch {
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

// UpdateEvent godoc
// @Summary Moderate an event
// @Description Edits event fields and optionally applies PUBLISH_EVENT or REJECT_EVENT. Publishing requires a pending event; published events cannot be edited or rejected.
// @Tags admin
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body controllers.UpdateEventAdminRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *AdminEventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	var req UpdateEventAdminRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	var action *domain.ModeratorStateAction
	if req.StateAction != nil {
		a := domain.ModeratorStateAction(*req.StateAction)
		action = &a
	}

	event, err := c.Service.UpdateAdminEvent(r.Context(), eventID, req.patch(), action)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
