package leave

import (
	"time"

	"github.com/google/uuid"
)

type SubmitLeaveRequest struct {
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	LeaveType string  `json:"leave_type" binding:"required,oneof=annual sick personal maternity paternity public other"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
}

type DecisionRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=approved rejected"`
}

// ListFilter narrows the read view. Members always see only their own
// requests regardless of OwnerID.
type ListFilter struct {
	OwnerID *uuid.UUID
	Status  Status
	From    *time.Time
	To      *time.Time
}

func (f ListFilter) IsZero() bool {
	return f.OwnerID == nil && f.Status == "" && f.From == nil && f.To == nil
}

type LeaveResponse struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"owner_id"`
	OwnerName      string  `json:"owner_name,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	CalendarDays   int     `json:"calendar_days"`
	LeaveType      string  `json:"leave_type"`
	LeaveTypeLabel string  `json:"leave_type_label"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type TeamConflict struct {
	LeaveID   string `json:"leave_id"`
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
}

type HolidayConflict struct {
	Country   string  `json:"country"`
	Date      string  `json:"date"`
	Name      string  `json:"name"`
	LocalName *string `json:"local_name,omitempty"`
}

// ConflictReport is advisory unless the blocking policy is on.
type ConflictReport struct {
	Team     []TeamConflict    `json:"team"`
	Holidays []HolidayConflict `json:"holidays"`
}

func (r ConflictReport) Empty() bool {
	return len(r.Team) == 0 && len(r.Holidays) == 0
}

type SubmitResult struct {
	Leave     LeaveResponse  `json:"leave"`
	Conflicts ConflictReport `json:"conflicts"`
}
