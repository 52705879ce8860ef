package domain

import (
	"context"
	"fmt"
	"time"
)

// EventState is an event's publication lifecycle state.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Minimum gap between "now" and the event date, depending on who edits.
const (
	InitiatorDateMargin = 2 * time.Hour
	ModeratorDateMargin = 1 * time.Hour
)

// Location is a point on the map where an event takes place.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event represents a schedulable activity with a capacity limit and a
// publication lifecycle.
// swagger:model Event
type Event struct {
	ID                string     `json:"id"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	Title             string     `json:"title"`
	CategoryID        string     `json:"category_id"`
	InitiatorID       string     `json:"initiator_id"`
	Location          Location   `json:"location"`
	EventDate         time.Time  `json:"event_date"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participant_limit"`
	RequestModeration bool       `json:"request_moderation"`
	State             EventState `json:"state"`
	CreatedOn         time.Time  `json:"created_on"`
	PublishedOn       *time.Time `json:"published_on"`
}

// NewEvent returns a new Event in PENDING state. ID is typically set by the
// repository on create.
func NewEvent(annotation, description, title, categoryID, initiatorID string,
	location Location, eventDate time.Time, paid bool, participantLimit int,
	requestModeration bool, createdOn time.Time) *Event {
	return &Event{
		Annotation:        annotation,
		Description:       description,
		Title:             title,
		CategoryID:        categoryID,
		InitiatorID:       initiatorID,
		Location:          location,
		EventDate:         eventDate,
		Paid:              paid,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		State:             EventStatePending,
		CreatedOn:         createdOn,
	}
}

// InitiatorStateAction is the closed set of lifecycle actions available to the
// event's initiator.
type InitiatorStateAction string

const (
	ActionSendToReview InitiatorStateAction = "SEND_TO_REVIEW"
	ActionCancelReview InitiatorStateAction = "CANCEL_REVIEW"
)

// ModeratorStateAction is the closed set of lifecycle actions available to a
// moderator.
type ModeratorStateAction string

const (
	ActionPublishEvent ModeratorStateAction = "PUBLISH_EVENT"
	ActionRejectEvent  ModeratorStateAction = "REJECT_EVENT"
)

// ApplyInitiatorAction transitions the event per the initiator's action.
// SEND_TO_REVIEW reaffirms PENDING; CANCEL_REVIEW cancels. Both are conflicts
// on a PUBLISHED event.
func (e *Event) ApplyInitiatorAction(action InitiatorStateAction) error {
	if e.State == EventStatePublished {
		return fmt.Errorf("%w: published event cannot be modified", ErrConflict)
	}
	switch action {
	case ActionSendToReview:
		e.State = EventStatePending
	case ActionCancelReview:
		e.State = EventStateCanceled
	default:
		return fmt.Errorf("%w: unknown state action %q", ErrInvalidInput, action)
	}
	return nil
}

// ApplyModeratorAction transitions the event per the moderator's action.
// PUBLISH_EVENT requires PENDING and stamps PublishedOn; REJECT_EVENT is a
// conflict on a PUBLISHED event.
func (e *Event) ApplyModeratorAction(action ModeratorStateAction, now time.Time) error {
	switch action {
	case ActionPublishEvent:
		if e.State != EventStatePending {
			return fmt.Errorf("%w: only pending events can be published", ErrConflict)
		}
		e.State = EventStatePublished
		published := now
		e.PublishedOn = &published
	case ActionRejectEvent:
		if e.State == EventStatePublished {
			return fmt.Errorf("%w: published event cannot be rejected", ErrConflict)
		}
		e.State = EventStateCanceled
	default:
		return fmt.Errorf("%w: unknown state action %q", ErrInvalidInput, action)
	}
	return nil
}

// ValidateDate checks that the event date keeps the required margin from now.
func (e *Event) ValidateDate(now time.Time, margin time.Duration) error {
	if e.EventDate.Before(now.Add(margin)) {
		return fmt.Errorf("%w: event date must be at least %s in the future", ErrInvalidInput, margin)
	}
	return nil
}

// EventPatch carries optional field edits. Nil fields are left unchanged.
type EventPatch struct {
	Annotation        *string
	CategoryID        *string
	Description       *string
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	Title             *string
}

// IsZero reports whether the patch carries no field edits.
func (p EventPatch) IsZero() bool {
	return p.Annotation == nil && p.CategoryID == nil && p.Description == nil &&
		p.EventDate == nil && p.Location == nil && p.Paid == nil &&
		p.ParticipantLimit == nil && p.RequestModeration == nil && p.Title == nil
}

// Apply copies the patch's set fields onto the event. Field edits on a
// PUBLISHED event are a conflict.
func (e *Event) Apply(p EventPatch) error {
	if p.IsZero() {
		return nil
	}
	if e.State == EventStatePublished {
		return fmt.Errorf("%w: published event fields cannot be edited", ErrConflict)
	}
	if p.Annotation != nil {
		e.Annotation = *p.Annotation
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	return nil
}

// EventSort orders public search results.
type EventSort string

const (
	SortByEventDate EventSort = "EVENT_DATE"
	SortByViews     EventSort = "VIEWS"
)

// AdminEventSearch filters the moderator's event listing.
type AdminEventSearch struct {
	UserIDs     []string
	States      []EventState
	CategoryIDs []string
	RangeStart  *time.Time
	RangeEnd    *time.Time
	From        int
	Size        int
}

// PublicEventSearch filters the public event listing. Only PUBLISHED events
// are ever returned.
type PublicEventSearch struct {
	Text          string
	CategoryIDs   []string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          EventSort
	From          int
	Size          int
}

// EventWithStats bundles an event with its read-side projection fields.
// swagger:model EventWithStats
type EventWithStats struct {
	Event             *Event `json:"event"`
	ConfirmedRequests int64  `json:"confirmed_requests"`
	Views             int64  `json:"views"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByIDForUpdate loads the event and locks its row for the duration of
	// the ambient transaction, serializing capacity decisions per event.
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	ListByInitiatorID(ctx context.Context, initiatorID string, from, size int) ([]*Event, error)
	SearchAdmin(ctx context.Context, search AdminEventSearch) ([]*Event, error)
	SearchPublic(ctx context.Context, search PublicEventSearch) ([]*Event, error)
	ExistsByCategoryID(ctx context.Context, categoryID string) (bool, error)
}

// EventService defines event lifecycle operations for initiators, moderators
// and public readers.
type EventService interface {
	CreateEvent(ctx context.Context, initiatorID string, event *Event) (*Event, error)
	GetOwnEvents(ctx context.Context, initiatorID string, from, size int) ([]*EventWithStats, error)
	GetOwnEvent(ctx context.Context, initiatorID, eventID string) (*EventWithStats, error)
	UpdateOwnEvent(ctx context.Context, initiatorID, eventID string, patch EventPatch, action *InitiatorStateAction) (*EventWithStats, error)
	ListEventRequests(ctx context.Context, initiatorID, eventID string) ([]*ParticipationRequest, error)
	ChangeRequestStatuses(ctx context.Context, initiatorID, eventID string, update StatusUpdate) (*StatusUpdateResult, error)
	SearchAdminEvents(ctx context.Context, search AdminEventSearch) ([]*EventWithStats, error)
	UpdateAdminEvent(ctx context.Context, eventID string, patch EventPatch, action *ModeratorStateAction) (*EventWithStats, error)
	SearchPublicEvents(ctx context.Context, search PublicEventSearch) ([]*EventWithStats, error)
	GetPublishedEvent(ctx context.Context, eventID string) (*EventWithStats, error)
}
