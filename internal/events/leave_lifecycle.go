package events

import "time"

const LeaveLifecycleTopic = "leave.request.lifecycle.v1"

const (
	LeaveSubmitted = "leave_submitted"
	LeaveApproved  = "leave_approved"
	LeaveRejected  = "leave_rejected"
	LeaveCancelled = "leave_cancelled"
)

// LeaveLifecycleEvent is published once per committed lifecycle change.
// Status is the state after the change, so an auto-approved submission
// arrives as leave_submitted with status approved.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	OwnerID    string    `json:"owner_id"`
	OwnerName  string    `json:"owner_name,omitempty"`
	ActorID    string    `json:"actor_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e LeaveLifecycleEvent) Approved() bool {
	return e.Status == "approved"
}
