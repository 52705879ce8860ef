package controllers

import (
	"log/slog"
	"net/http"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// GetOwnRequests godoc
// @Summary List the user's participation requests
// @Description Returns the user's participation requests in other users' events.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester ID"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [get]
func (c *RequestController) GetOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}

	requests, err := c.Service.GetOwnRequests(r.Context(), userID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// RequestSuccessResponse is the response envelope for single participation request endpoints.
type RequestSuccessResponse struct {
	Data  *domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// SubmitRequest godoc
// @Summary Submit a participation request
// @Description Submits a request to join a published event. Auto-confirmed when the event skips moderation or has no participant limit.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester ID"
// @Param eventId query string true "Event ID"
// @Success 201 {object} controllers.RequestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests [post]
func (c *RequestController) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventId")
		return
	}

	request, err := c.Service.SubmitRequest(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, request)
}

// CancelRequest godoc
// @Summary Cancel the user's own participation request
// @Description Cancels a pending or confirmed request. Rejected requests cannot be canceled.
// @Tags requests
// @Produce json
// @Param userID path string true "Requester ID"
// @Param requestID path string true "Request ID"
// @Success 200 {object} controllers.RequestSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/requests/{requestID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	requestID := r.PathValue("requestID")
	if userID == "" || requestID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID or requestID")
		return
	}

	request, err := c.Service.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, request)
}
