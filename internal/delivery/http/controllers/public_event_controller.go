package controllers

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type PublicEventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Stats   domain.StatsClient
	AppName string
}

func NewPublicEventController(logger *slog.Logger, svc domain.EventService, stats domain.StatsClient, appName string) *PublicEventController {
	return &PublicEventController{
		Logger:  logger,
		Service: svc,
		Stats:   stats,
		AppName: appName,
	}
}

// recordHit reports the request to the stats collector. Failures are logged
// and never affect the response.
func (c *PublicEventController) recordHit(r *http.Request) {
	err := c.Stats.RecordHit(r.Context(), domain.EndpointHit{
		App:       c.AppName,
		URI:       r.URL.Path,
		IP:        clientIP(r),
		Timestamp: time.Now(),
	})
	if err != nil {
		c.Logger.WarnContext(r.Context(), "failed to record endpoint hit", "uri", r.URL.Path, "err", err)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SearchEvents godoc
// @Summary Search published events
// @Description Public event search. Only published events are returned. Sorting by views and the only_available filter are applied after projecting confirmed counts.
// @Tags public
// @Produce json
// @Param text query string false "Substring match over annotation and description"
// @Param categories query []string false "Category IDs"
// @Param paid query bool false "Paid events only"
// @Param rangeStart query string false "Earliest event date (RFC 3339); defaults to now when no range is given"
// @Param rangeEnd query string false "Latest event date (RFC 3339)"
// @Param onlyAvailable query bool false "Exclude events with an exhausted participant limit" default(false)
// @Param sort query string false "Sort order" Enums(EVENT_DATE, VIEWS)
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *PublicEventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
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

	var paid *bool
	switch r.URL.Query().Get("paid") {
	case "":
	case "true":
		v := true
		paid = &v
	case "false":
		v := false
		paid = &v
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "paid must be true or false")
		return
	}

	sortOrder := domain.SortByEventDate
	switch s := r.URL.Query().Get("sort"); s {
	case "", string(domain.SortByEventDate):
	case string(domain.SortByViews):
		sortOrder = domain.SortByViews
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "sort must be EVENT_DATE or VIEWS")
		return
	}

	events, err := c.Service.SearchPublicEvents(r.Context(), domain.PublicEventSearch{
		Text:          r.URL.Query().Get("text"),
		CategoryIDs:   r.URL.Query()["categories"],
		Paid:          paid,
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
		OnlyAvailable: r.URL.Query().Get("onlyAvailable") == "true",
		Sort:          sortOrder,
		From:          from,
		Size:          size,
	})
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}

	c.recordHit(r)
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get a published event
// @Description Returns a published event with its confirmed count and view count. Unpublished events are reported as not found.
// @Tags public
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *PublicEventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	event, err := c.Service.GetPublishedEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteDomainError(r.Context(), w, r, c.Logger, err)
		return
	}

	c.recordHit(r)
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
