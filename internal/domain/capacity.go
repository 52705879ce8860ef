package domain

import "fmt"

// StatusUpdate is a moderation decision over an ordered batch of requests.
// swagger:model StatusUpdate
type StatusUpdate struct {
	RequestIDs []string      `json:"request_ids"`
	Status     RequestStatus `json:"status"`
}

// StatusUpdateResult holds the outcome of a batch moderation, including
// requests rejected by the capacity cascade.
// swagger:model StatusUpdateResult
type StatusUpdateResult struct {
	Confirmed []*ParticipationRequest `json:"confirmed_requests"`
	Rejected  []*ParticipationRequest `json:"rejected_requests"`
}

// Allocation is the outcome of AllocateCapacity. Touched lists every request
// whose status changed, in a stable order, for the caller to persist.
type Allocation struct {
	Confirmed []*ParticipationRequest
	Rejected  []*ParticipationRequest
	Touched   []*ParticipationRequest
	// ConfirmedCount is the running confirmed count after the batch.
	ConfirmedCount int64
}

// LimitReached reports whether a confirmed count has exhausted the limit.
// A limit of 0 means unlimited.
func LimitReached(limit int, confirmedCount int64) bool {
	return limit > 0 && confirmedCount >= int64(limit)
}

// AllocateCapacity decides which pending requests become confirmed given an
// event's participant limit. It mutates request statuses and performs no I/O.
//
// The batch is processed in the order supplied by the caller. Confirming past
// the limit rejects the excess requests instead of leaving them pending. When
// the batch fills the limit, every remaining pending request of the event
// (otherPending, not in the batch) is cascade-rejected so the event holds no
// unresolved pending requests. The cascade never touches CONFIRMED requests.
//
// Preconditions: every batch request must belong to eventID, be PENDING, and
// appear at most once; violations fail before any status changes.
func AllocateCapacity(eventID string, limit int, confirmedCount int64,
	status RequestStatus, batch, otherPending []*ParticipationRequest) (*Allocation, error) {

	if status != RequestStatusConfirmed && status != RequestStatusRejected {
		return nil, fmt.Errorf("%w: status must be CONFIRMED or REJECTED, got %q", ErrInvalidInput, status)
	}
	seen := make(map[string]struct{}, len(batch))
	for _, req := range batch {
		if _, ok := seen[req.ID]; ok {
			return nil, fmt.Errorf("%w: request %s appears twice in the batch", ErrInvalidInput, req.ID)
		}
		seen[req.ID] = struct{}{}
		if req.EventID != eventID {
			return nil, fmt.Errorf("%w: request %s does not belong to event %s", ErrConflict, req.ID, eventID)
		}
		if req.Status != RequestStatusPending {
			return nil, fmt.Errorf("%w: request %s is not pending", ErrConflict, req.ID)
		}
	}

	alloc := &Allocation{ConfirmedCount: confirmedCount}

	for _, req := range batch {
		if status == RequestStatusRejected || LimitReached(limit, alloc.ConfirmedCount) {
			req.Status = RequestStatusRejected
			alloc.Rejected = append(alloc.Rejected, req)
		} else {
			req.Status = RequestStatusConfirmed
			alloc.ConfirmedCount++
			alloc.Confirmed = append(alloc.Confirmed, req)
		}
		alloc.Touched = append(alloc.Touched, req)
	}

	if status == RequestStatusConfirmed && LimitReached(limit, alloc.ConfirmedCount) {
		batchIDs := make(map[string]struct{}, len(batch))
		for _, req := range batch {
			batchIDs[req.ID] = struct{}{}
		}
		for _, req := range otherPending {
			if _, ok := batchIDs[req.ID]; ok {
				continue
			}
			if req.Status != RequestStatusPending {
				continue
			}
			req.Status = RequestStatusRejected
			alloc.Rejected = append(alloc.Rejected, req)
			alloc.Touched = append(alloc.Touched, req)
		}
	}

	return alloc, nil
}
