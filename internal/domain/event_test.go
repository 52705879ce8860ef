package domain

import (
	"errors"
	"testing"
	"time"
)

func TestEvent_ApplyModeratorAction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		state     EventState
		action    ModeratorStateAction
		wantState EventState
		wantErr   error
	}{
		{
			name:      "publish pending event",
			state:     EventStatePending,
			action:    ActionPublishEvent,
			wantState: EventStatePublished,
		},
		{
			name:    "publish already published event",
			state:   EventStatePublished,
			action:  ActionPublishEvent,
			wantErr: ErrConflict,
		},
		{
			name:    "publish canceled event",
			state:   EventStateCanceled,
			action:  ActionPublishEvent,
			wantErr: ErrConflict,
		},
		{
			name:      "reject pending event",
			state:     EventStatePending,
			action:    ActionRejectEvent,
			wantState: EventStateCanceled,
		},
		{
			name:    "reject published event",
			state:   EventStatePublished,
			action:  ActionRejectEvent,
			wantErr: ErrConflict,
		},
		{
			name:    "unknown action",
			state:   EventStatePending,
			action:  ModeratorStateAction("DELETE_EVENT"),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{ID: "e1", State: tt.state}
			err := e.ApplyModeratorAction(tt.action, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.State != tt.wantState {
				t.Errorf("expected state %s, got %s", tt.wantState, e.State)
			}
			if tt.action == ActionPublishEvent {
				if e.PublishedOn == nil || !e.PublishedOn.Equal(now) {
					t.Errorf("expected PublishedOn %v, got %v", now, e.PublishedOn)
				}
			}
		})
	}
}

func TestEvent_ApplyInitiatorAction(t *testing.T) {
	tests := []struct {
		name      string
		state     EventState
		action    InitiatorStateAction
		wantState EventState
		wantErr   error
	}{
		{
			name:      "send pending to review is a no-op reaffirmation",
			state:     EventStatePending,
			action:    ActionSendToReview,
			wantState: EventStatePending,
		},
		{
			name:      "resubmit canceled event",
			state:     EventStateCanceled,
			action:    ActionSendToReview,
			wantState: EventStatePending,
		},
		{
			name:      "cancel review",
			state:     EventStatePending,
			action:    ActionCancelReview,
			wantState: EventStateCanceled,
		},
		{
			name:    "cannot act on published event",
			state:   EventStatePublished,
			action:  ActionCancelReview,
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{ID: "e1", State: tt.state}
			err := e.ApplyInitiatorAction(tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.State != tt.wantState {
				t.Errorf("expected state %s, got %s", tt.wantState, e.State)
			}
		})
	}
}

func TestEvent_Apply(t *testing.T) {
	title := "new title"
	limit := 5

	t.Run("edits pending event", func(t *testing.T) {
		e := &Event{ID: "e1", State: EventStatePending, Title: "old"}
		if err := e.Apply(EventPatch{Title: &title, ParticipantLimit: &limit}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Title != "new title" || e.ParticipantLimit != 5 {
			t.Errorf("patch not applied: %+v", e)
		}
	})

	t.Run("published event rejects field edits", func(t *testing.T) {
		e := &Event{ID: "e1", State: EventStatePublished, Title: "old"}
		err := e.Apply(EventPatch{Title: &title})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if e.Title != "old" {
			t.Error("field changed on published event")
		}
	})

	t.Run("empty patch on published event is not an edit", func(t *testing.T) {
		e := &Event{ID: "e1", State: EventStatePublished}
		if err := e.Apply(EventPatch{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestEvent_ValidateDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		eventDate time.Time
		margin    time.Duration
		wantErr   bool
	}{
		{
			name:      "thirty minutes out fails the initiator margin",
			eventDate: now.Add(30 * time.Minute),
			margin:    InitiatorDateMargin,
			wantErr:   true,
		},
		{
			name:      "two hours out passes the initiator margin",
			eventDate: now.Add(2 * time.Hour),
			margin:    InitiatorDateMargin,
			wantErr:   false,
		},
		{
			name:      "ninety minutes out passes the moderator margin",
			eventDate: now.Add(90 * time.Minute),
			margin:    ModeratorDateMargin,
			wantErr:   false,
		},
		{
			name:      "past date fails",
			eventDate: now.Add(-time.Hour),
			margin:    ModeratorDateMargin,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{ID: "e1", EventDate: tt.eventDate}
			err := e.ValidateDate(now, tt.margin)
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParticipationRequest_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  RequestStatus
		wantErr bool
	}{
		{name: "pending request", status: RequestStatusPending},
		{name: "confirmed request", status: RequestStatusConfirmed},
		{name: "rejected request is terminal", status: RequestStatusRejected, wantErr: true},
		{name: "canceled request is terminal", status: RequestStatusCanceled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ParticipationRequest{ID: "r1", Status: tt.status}
			err := r.Cancel()
			if tt.wantErr {
				if !errors.Is(err, ErrConflict) {
					t.Fatalf("expected ErrConflict, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Status != RequestStatusCanceled {
				t.Errorf("expected CANCELED, got %s", r.Status)
			}
		})
	}
}
