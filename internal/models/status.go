package models

// OrderStatus tracks fulfillment. Transitions only move forward:
// pending -> processing -> completed. Tracking info becomes meaningful at the
// completed transition and is required to enter it.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether next is a strictly forward move.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	cur, ok := statusRank[s]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}

// applyTransition validates an advance request and returns the tracking info
// to store with it. Backward or unknown moves fail with ErrInvalidTransition.
// Tracking only becomes meaningful at completed: entering completed without
// it fails with ErrTrackingRequired, and tracking supplied on an earlier
// transition is dropped rather than written.
func applyTransition(current, next OrderStatus, tracking *TrackingInfo) (*TrackingInfo, error) {
	if !current.CanAdvanceTo(next) {
		return nil, ErrInvalidTransition
	}
	if next != StatusCompleted {
		return nil, nil
	}
	if tracking == nil {
		return nil, ErrTrackingRequired
	}
	return tracking, nil
}
