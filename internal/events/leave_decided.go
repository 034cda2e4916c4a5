package events

import "time"

const LeaveDecidedTopic = "leave.request.decided.v1"

const (
	EventLeaveApproved = "leave_approved"
	EventLeaveRejected = "leave_rejected"
)

type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	ReviewedBy string    `json:"reviewed_by"`
	LeaveType  string    `json:"leave_type"`
	FromDate   string    `json:"from_date"`
	ToDate     string    `json:"to_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
